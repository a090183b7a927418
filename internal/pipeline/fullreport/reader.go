package fullreport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andresuchdata/fullstock/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Format is the container format of an extract.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat picks the extract format from a file name's extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%s: %w", name, domain.ErrUnsupportedFormat)
	}
}

// ReadSheet loads the rows of an extract, dropping the first skip rows.
// name is only used to detect the format. For XLSX the sheet is matched
// case-insensitively; a single-sheet workbook is read whatever its sheet is
// called. CSV input has no sheets and ignores the sheet argument.
func ReadSheet(r io.Reader, name, sheet string, skip int) ([]Row, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}

	var rows []Row
	switch format {
	case FormatXLSX:
		rows, err = readXLSX(r, sheet)
	default:
		rows, err = readCSV(r)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if skip <= 0 {
		return rows, nil
	}
	if skip >= len(rows) {
		return []Row{}, nil
	}
	return rows[skip:], nil
}

func readXLSX(r io.Reader, sheet string) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	name, err := resolveSheet(f.GetSheetList(), sheet)
	if err != nil {
		return nil, err
	}

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", name, err)
	}

	rows := make([]Row, 0, len(raw))
	for i, record := range raw {
		row := make(Row, len(record))
		for j, v := range record {
			row[j] = Cell{Value: v}
			if v == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				continue
			}
			typ, err := f.GetCellType(name, ref)
			if err != nil {
				continue
			}
			row[j].Numeric = isNumericCell(typ, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// isNumericCell reports whether a raw XLSX value is a typed number. Cells
// without an explicit type attribute are numbers in SpreadsheetML.
func isNumericCell(typ excelize.CellType, raw string) bool {
	if typ != excelize.CellTypeNumber && typ != excelize.CellTypeUnset {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return err == nil
}

func resolveSheet(sheets []string, want string) (string, error) {
	for _, s := range sheets {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(want)) {
			return s, nil
		}
	}
	if len(sheets) == 1 {
		return sheets[0], nil
	}
	return "", fmt.Errorf("sheet %q: %w", want, domain.ErrSheetNotFound)
}

var utf8BOM = []byte("\xef\xbb\xbf")

func readCSV(r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, err
	}

	if bytes.HasPrefix(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
		head = head[len(utf8BOM):]
	}

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(head)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows := make([]Row, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		row := make(Row, len(record))
		for i, v := range record {
			row[i] = Cell{Value: v}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// sniffDelimiter prefers ';' when the sampled input has more semicolons than
// commas, as spreadsheet exports in comma-decimal locales do.
func sniffDelimiter(head []byte) rune {
	if bytes.Count(head, []byte(";")) > bytes.Count(head, []byte(",")) {
		return ';'
	}
	return ','
}
