// Package analysis computes completeness reports over tables: which cells
// are missing, which hold a "to be determined" placeholder, and how those
// counts compare to the row total.
//
// Analyze is pure. It never logs, never touches the filesystem, and either
// returns a complete report or an *AnalysisError.
package analysis

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/dataaudit/internal/table"
)

// PlaceholderVocabulary lists the upper-cased texts counted as placeholders.
var PlaceholderVocabulary = []string{"TBD", "TO BE DETERMINED"}

// ErrNonFinite is reported for numeric cells holding NaN or an infinity.
var ErrNonFinite = errors.New("non-finite number cannot be serialized")

// AnalysisError reports why a table could not be analyzed. Row is -1 when
// the failure is not tied to a single cell.
type AnalysisError struct {
	Column string
	Row    int
	Err    error
}

func (e *AnalysisError) Error() string {
	switch {
	case e.Column == "":
		return fmt.Sprintf("analysis failed: %v", e.Err)
	case e.Row < 0:
		return fmt.Sprintf("analysis failed: column %q: %v", e.Column, e.Err)
	default:
		return fmt.Sprintf("analysis failed: column %q row %d: %v", e.Column, e.Row, e.Err)
	}
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// IsPlaceholder reports whether s, upper-cased, is exactly one of the
// placeholder texts. Surrounding whitespace is significant.
func IsPlaceholder(s string) bool {
	u := strings.ToUpper(s)
	for _, p := range PlaceholderVocabulary {
		if u == p {
			return true
		}
	}
	return false
}

type columnResult struct {
	missing []int
	tbd     []int
	err     error
}

// Analyze builds the completeness report for t. Columns are scanned
// concurrently; the first failing column in table order determines the
// returned error.
func Analyze(t *table.Table) (*Report, error) {
	if t == nil {
		return nil, &AnalysisError{Row: -1, Err: errors.New("nil table")}
	}
	if err := t.Validate(); err != nil {
		return nil, &AnalysisError{Row: -1, Err: err}
	}

	results := make([]columnResult, t.Width())

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range t.Columns {
		i := i
		g.Go(func() error {
			results[i] = scanColumn(&t.Columns[i])
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		if res.err != nil {
			return nil, res.err
		}
	}

	rows := t.Rows()
	report := newReport(rows, t.ColumnNames())
	for i := range t.Columns {
		col := &t.Columns[i]
		res := results[i]
		report.MissingValues.Set(col.Name, len(res.missing))
		report.TBDValues.Set(col.Name, len(res.tbd))
		report.MissingPercentage.Set(col.Name, percentage(len(res.missing), rows))
		report.TBDPercentage.Set(col.Name, percentage(len(res.tbd), rows))
		report.DataTypes.Set(col.Name, col.Type.Label())
		report.MissingPositions.Set(col.Name, res.missing)
		report.TBDPositions.Set(col.Name, res.tbd)
	}

	for r := 0; r < rows; r++ {
		rec := orderedmap.New[string, any](t.Width())
		for i := range t.Columns {
			rec.Set(t.Columns[i].Name, t.Columns[i].Export(r))
		}
		report.Data = append(report.Data, rec)
	}
	return report, nil
}

func scanColumn(col *table.Column) columnResult {
	res := columnResult{missing: []int{}, tbd: []int{}}
	for r, v := range col.Values {
		if v.Kind() == table.KindNumber && !v.Finite() {
			res.err = &AnalysisError{Column: col.Name, Row: r, Err: ErrNonFinite}
			return res
		}
		if v.IsMissing() {
			res.missing = append(res.missing, r)
		}
		if IsPlaceholder(col.Format(r)) {
			res.tbd = append(res.tbd, r)
		}
	}
	return res
}
