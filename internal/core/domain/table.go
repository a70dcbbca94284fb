package domain

type ColumnKind string

const (
	ColumnNumeric     ColumnKind = "numeric"
	ColumnCategorical ColumnKind = "categorical"
)

// Cell is one typed table value.
type Cell struct {
	Numeric bool
	Number  float64
	Text    string
}

// TabularValue is a parsed table: named columns and ordered rows. Every row
// has exactly len(Columns) cells.
type TabularValue struct {
	Columns []string
	Rows    [][]Cell
}

func (t TabularValue) RowCount() int    { return len(t.Rows) }
func (t TabularValue) ColumnCount() int { return len(t.Columns) }

// ColumnStats describes one column. Numeric fields are meaningful only for
// numeric columns with at least one row.
type ColumnStats struct {
	Name          string     `json:"name"`
	Kind          ColumnKind `json:"kind"`
	Mean          float64    `json:"mean,omitempty"`
	Median        float64    `json:"median,omitempty"`
	Min           float64    `json:"min,omitempty"`
	Max           float64    `json:"max,omitempty"`
	StdDev        float64    `json:"std_dev,omitempty"`
	DistinctCount int        `json:"distinct_count,omitempty"`
	MostFrequent  string     `json:"most_frequent,omitempty"`
}

// TableSummary is the summarizer's output bundle. Stats are in column order.
type TableSummary struct {
	RowCount    int           `json:"row_count"`
	ColumnCount int           `json:"column_count"`
	Stats       []ColumnStats `json:"stats,omitempty"`
	Narrative   string        `json:"narrative"`
	Insights    []string      `json:"insights,omitempty"`
}
