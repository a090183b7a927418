package fullreport

// Cell is a single raw extract value. Numeric is set when the source stored a
// typed number, in which case Value holds its canonical form ("1234.5").
// Text cells are coerced with the locale rules of ParseFloatOrDefault.
type Cell struct {
	Value   string
	Numeric bool
}

// Row is one raw extract row addressed by position.
type Row []Cell

// Config holds the extract layouts used by the full report pipeline.
type Config struct {
	FullSheet    string
	FullStartRow int
	FullColumns  ColumnMap

	CostSheet    string
	CostStartRow int
	CostColumns  ColumnMap
}

const (
	DefaultFullSheet    = "Resumo"
	DefaultFullStartRow = 12
	DefaultCostSheet    = "Custos por estoque antigo"
	DefaultCostStartRow = 2
)

// DefaultConfig returns the layouts of the marketplace full report and the
// aged-stock cost report.
func DefaultConfig() Config {
	return Config{
		FullSheet:    DefaultFullSheet,
		FullStartRow: DefaultFullStartRow,
		FullColumns:  DefaultFullColumns,
		CostSheet:    DefaultCostSheet,
		CostStartRow: DefaultCostStartRow,
		CostColumns:  DefaultCostColumns,
	}
}

func (c Config) withDefaults() Config {
	if c.FullSheet == "" {
		c.FullSheet = DefaultFullSheet
	}
	if c.FullStartRow < 0 {
		c.FullStartRow = DefaultFullStartRow
	}
	if len(c.FullColumns) == 0 {
		c.FullColumns = DefaultFullColumns
	}
	if c.CostSheet == "" {
		c.CostSheet = DefaultCostSheet
	}
	if c.CostStartRow < 0 {
		c.CostStartRow = DefaultCostStartRow
	}
	if len(c.CostColumns) == 0 {
		c.CostColumns = DefaultCostColumns
	}
	return c
}
