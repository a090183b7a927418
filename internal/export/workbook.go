// Package export renders the session's records as a downloadable workbook.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/andresuchdata/fullstock/internal/domain"
	"github.com/andresuchdata/fullstock/internal/pipeline/fullreport"
	"github.com/xuri/excelize/v2"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	SheetConsolidated  = "Consolidated View"
	SheetReplenishment = "Replenishment"

	maxSheetNameLen = 31
	defaultSheet    = "Sheet1"
)

var companyHeader = []string{
	"SKU", "Listing ID", "Product", "Sales 30d", "Affects stock metric",
	"Pending inbound", "Eligible units", "Ineligible units", "Stock on hand",
	"Monitor qty", "Promote qty", "Fix qty", "Discard risk qty",
	"Time to exhaust", "Recommended action", "Aged stock units",
	"Aged stock days", "Total cost", "Eligible cost units", "Cost alert",
}

var replenishmentHeader = []string{
	"SKU", "Product", "Total sales 30d", "Total stock", "Suggested qty",
	"Urgency", "Velocity tier", "Calculation",
}

var sheetNameSanitizer = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")

// SheetName makes a company name usable as a sheet name: characters the
// format forbids are replaced and the result is cut to 31 characters.
func SheetName(name string) string {
	name = strings.TrimSpace(sheetNameSanitizer.Replace(name))
	if utf8.RuneCountInString(name) <= maxSheetNameLen {
		return name
	}
	return string([]rune(name)[:maxSheetNameLen])
}

// FileName is the download name of an export created at now.
func FileName(now time.Time) string {
	return "AnaliseFull_" + now.Format("2006-01-02_15h04m") + ".xlsx"
}

// SheetNames lists the sheets BuildWorkbook writes for the snapshot, in order.
func SheetNames(snapshot domain.SessionSnapshot) []string {
	held := snapshot.Held()
	names := make([]string, 0, len(held)+2)
	for _, c := range held {
		names = append(names, SheetName(string(c)))
	}
	if len(held) >= 2 {
		names = append(names, SheetConsolidated, SheetReplenishment)
	}
	return names
}

// BuildWorkbook writes one sheet per held company in known-company order and,
// when at least two companies are held, the consolidated and replenishment
// sheets. It fails with domain.ErrNoData when nothing is held.
func BuildWorkbook(snapshot domain.SessionSnapshot) ([]byte, error) {
	held := snapshot.Held()
	if len(held) == 0 {
		return nil, domain.ErrNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	w := &sheetWriter{f: f}
	if err := w.init(); err != nil {
		return nil, err
	}

	for _, c := range held {
		if err := w.writeCompany(SheetName(string(c)), snapshot.Records[c]); err != nil {
			return nil, err
		}
	}

	if len(held) >= 2 {
		consolidated := fullreport.Consolidate(snapshot)
		if err := w.writeConsolidated(snapshot.Known, consolidated); err != nil {
			return nil, err
		}
		if err := w.writeReplenishment(fullreport.Simulate(consolidated)); err != nil {
			return nil, err
		}
	}

	f.DeleteSheet(defaultSheet)
	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetWriter struct {
	f           *excelize.File
	headerStyle int
}

func (w *sheetWriter) init() error {
	style, err := w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	w.headerStyle = style
	return nil
}

func (w *sheetWriter) newSheet(name string, header []string) error {
	if _, err := w.f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := w.setRow(name, 1, row); err != nil {
		return err
	}
	if err := w.f.SetRowStyle(name, 1, 1, w.headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", name, err)
	}
	if err := w.f.SetColWidth(name, "A", "C", 22); err != nil {
		return fmt.Errorf("failed to size columns of %s: %w", name, err)
	}
	return nil
}

func (w *sheetWriter) setRow(sheet string, rowNo int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", rowNo, sheet, err)
	}
	return nil
}

func (w *sheetWriter) writeCompany(sheet string, records []domain.SkuFact) error {
	if err := w.newSheet(sheet, companyHeader); err != nil {
		return err
	}
	for i, r := range records {
		row := []interface{}{
			r.SKU, r.ListingID, r.ProductName, r.Sales30d, r.AffectsStockMetric,
			r.PendingInbound, r.EligibleUnits, r.IneligibleUnits, r.StockOnHand,
			r.MonitorQty, r.PromoteQty, r.FixQty, r.DiscardRiskQty,
			r.TimeToExhaust, string(r.RecommendedAction), r.AgedStockUnits,
			r.AgedStockDays, r.TotalCost.InexactFloat64(), r.EligibleCostUnits, string(r.CostAlert),
		}
		if err := w.setRow(sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (w *sheetWriter) writeConsolidated(known []domain.Company, rows []domain.ConsolidatedSkuFact) error {
	header := []string{"SKU", "Product"}
	for _, c := range known {
		header = append(header, "Sales "+string(c), "Stock "+string(c))
	}
	header = append(header, "Total sales 30d", "Total stock", "Total cost",
		"Companies involved", "Recommended action", "Cost alert", "Margin ratio")

	if err := w.newSheet(SheetConsolidated, header); err != nil {
		return err
	}
	for i, c := range rows {
		row := []interface{}{c.SKU, c.ProductName}
		for _, company := range known {
			fig := c.PerCompany[company]
			row = append(row, fig.Sales30d, fig.StockOnHand)
		}
		involved := make([]string, 0, len(c.CompaniesInvolved))
		for _, company := range c.CompaniesInvolved {
			involved = append(involved, string(company))
		}
		row = append(row, c.TotalSales30d, c.TotalStock, c.TotalCost.InexactFloat64(),
			strings.Join(involved, ", "), string(c.RecommendedAction), string(c.CostAlert), c.MarginRatio)
		if err := w.setRow(SheetConsolidated, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (w *sheetWriter) writeReplenishment(lines []domain.ReplenishmentLine) error {
	if err := w.newSheet(SheetReplenishment, replenishmentHeader); err != nil {
		return err
	}
	for i, l := range lines {
		row := []interface{}{
			l.SKU, l.ProductName, l.TotalSales30d, l.TotalStock, l.SuggestedQty,
			string(l.Urgency), string(l.Tier), l.Calculation,
		}
		if err := w.setRow(SheetReplenishment, i+2, row); err != nil {
			return err
		}
	}
	return nil
}
