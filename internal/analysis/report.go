package analysis

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Counts maps column names to integer counts in column order.
type Counts = orderedmap.OrderedMap[string, int]

// Percentages maps column names to percentages of total rows.
type Percentages = orderedmap.OrderedMap[string, float64]

// Labels maps column names to display type labels.
type Labels = orderedmap.OrderedMap[string, string]

// Positions maps column names to ascending 0-based row indices.
type Positions = orderedmap.OrderedMap[string, []int]

// Record is one data row keyed by column name in column order.
type Record = orderedmap.OrderedMap[string, any]

// Report is the completeness report for one table. Every column-keyed map
// has exactly one entry per column, in table column order.
type Report struct {
	TotalRows         int          `json:"total_rows"`
	TotalColumns      int          `json:"total_columns"`
	Columns           []string     `json:"columns"`
	MissingValues     *Counts      `json:"missing_values"`
	TBDValues         *Counts      `json:"tbd_values"`
	MissingPercentage *Percentages `json:"missing_percentage"`
	TBDPercentage     *Percentages `json:"tbd_percentage"`
	DataTypes         *Labels      `json:"data_types"`
	MissingPositions  *Positions   `json:"missing_positions"`
	TBDPositions      *Positions   `json:"tbd_positions"`
	Data              []*Record    `json:"data"`
}

func newReport(rows int, columns []string) *Report {
	n := len(columns)
	return &Report{
		TotalRows:         rows,
		TotalColumns:      n,
		Columns:           columns,
		MissingValues:     orderedmap.New[string, int](n),
		TBDValues:         orderedmap.New[string, int](n),
		MissingPercentage: orderedmap.New[string, float64](n),
		TBDPercentage:     orderedmap.New[string, float64](n),
		DataTypes:         orderedmap.New[string, string](n),
		MissingPositions:  orderedmap.New[string, []int](n),
		TBDPositions:      orderedmap.New[string, []int](n),
		Data:              make([]*Record, 0, rows),
	}
}

// Summary aggregates a report over all cells.
type Summary struct {
	Rows              int     `json:"rows"`
	Columns           int     `json:"columns"`
	Cells             int     `json:"cells"`
	Missing           int     `json:"missing"`
	TBD               int     `json:"tbd"`
	MissingPercentage float64 `json:"missing_percentage"`
	TBDPercentage     float64 `json:"tbd_percentage"`
}

// Summary totals missing and placeholder cells across every column.
// Percentages are relative to all cells and are 0 for an empty table.
func (r *Report) Summary() Summary {
	s := Summary{
		Rows:    r.TotalRows,
		Columns: r.TotalColumns,
		Cells:   r.TotalRows * r.TotalColumns,
	}
	for pair := r.MissingValues.Oldest(); pair != nil; pair = pair.Next() {
		s.Missing += pair.Value
	}
	for pair := r.TBDValues.Oldest(); pair != nil; pair = pair.Next() {
		s.TBD += pair.Value
	}
	s.MissingPercentage = percentage(s.Missing, s.Cells)
	s.TBDPercentage = percentage(s.TBD, s.Cells)
	return s
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
