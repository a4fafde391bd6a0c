// Package table defines the in-memory tabular structure produced by the
// loader and consumed by the completeness analyzer.
//
// A Table is an ordered list of named columns. Every column holds one Value
// per row and all columns have the same length. Tables are built once per
// analysis and never shared.
package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrRaggedTable is returned when columns have different lengths.
	ErrRaggedTable = errors.New("columns have unequal lengths")

	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")
)

// ColumnType is the inferred type of a column.
type ColumnType uint8

const (
	TypeText ColumnType = iota
	TypeInteger
	TypeFloat
	TypeBool
	TypeDate
)

// Label returns the display label reported for the column type.
func (t ColumnType) Label() string {
	switch t {
	case TypeInteger:
		return "int64"
	case TypeFloat:
		return "float64"
	case TypeBool:
		return "bool"
	case TypeDate:
		return "datetime64[ns]"
	default:
		return "object"
	}
}

func (t ColumnType) String() string { return t.Label() }

// Column is a named, typed sequence of cells.
type Column struct {
	Name   string
	Type   ColumnType
	Values []Value
}

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.Values) }

// Format renders cell i as text. Integer columns render numbers without a
// fractional part.
func (c *Column) Format(i int) string {
	v := c.Values[i]
	if c.Type == TypeInteger {
		if f, ok := v.AsNumber(); ok && exactInteger(f) {
			return strconv.FormatInt(int64(f), 10)
		}
	}
	return v.String()
}

// Export returns cell i as a JSON-ready Go value. Missing cells become the
// empty string.
func (c *Column) Export(i int) any {
	v := c.Values[i]
	switch v.Kind() {
	case KindText:
		s, _ := v.AsText()
		return s
	case KindNumber:
		f, _ := v.AsNumber()
		if c.Type == TypeInteger && exactInteger(f) {
			return int64(f)
		}
		return f
	case KindBool:
		b, _ := v.AsBool()
		return b
	case KindDate:
		t, _ := v.AsDate()
		return t
	default:
		return ""
	}
}

// exactInteger reports whether f is a whole number that converts to int64
// without overflow or rounding.
func exactInteger(f float64) bool {
	return f == math.Trunc(f) && math.Abs(f) <= 1<<53
}

// Table is an ordered set of equal-length columns.
type Table struct {
	Columns []Column
}

// New builds a table from columns. It does not validate.
func New(cols ...Column) *Table {
	return &Table{Columns: cols}
}

// Rows returns the row count, taken from the first column.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Width returns the column count.
func (t *Table) Width() int { return len(t.Columns) }

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i := range t.Columns {
		names[i] = t.Columns[i].Name
	}
	return names
}

// Validate checks that all columns have the same length and unique names.
func (t *Table) Validate() error {
	rows := t.Rows()
	seen := make(map[string]struct{}, len(t.Columns))
	for i := range t.Columns {
		c := &t.Columns[i]
		if c.Len() != rows {
			return fmt.Errorf("%w: column %q has %d rows, expected %d", ErrRaggedTable, c.Name, c.Len(), rows)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}
