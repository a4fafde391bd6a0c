package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindMissing Kind = iota
	KindText
	KindNumber
	KindBool
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// MissingText is the textual form of an absent cell.
const MissingText = "nan"

// DateLayout is the textual form of a date cell.
const DateLayout = "2006-01-02 15:04:05"

// Value is a single cell. The zero Value is missing.
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
	t    time.Time
}

// Missing returns an absent cell.
func Missing() Value { return Value{} }

// Text returns a text cell.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric cell.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean cell.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Date returns a date cell.
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// AsText returns the text payload and whether the value is text.
func (v Value) AsText() (string, bool) { return v.text, v.kind == KindText }

// AsNumber returns the numeric payload and whether the value is a number.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool returns the boolean payload and whether the value is a boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsDate returns the date payload and whether the value is a date.
func (v Value) AsDate() (time.Time, bool) { return v.t, v.kind == KindDate }

// String renders the value as text. Numbers are rendered as floats
// ("1.0", "2.5"); use Column.Format for integer columns.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return formatFloat(v.num)
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	case KindDate:
		return v.t.Format(DateLayout)
	default:
		return MissingText
	}
}

// Finite reports whether a numeric value is a finite number.
// Non-numeric values are always finite.
func (v Value) Finite() bool {
	if v.kind != KindNumber {
		return true
	}
	return !math.IsNaN(v.num) && !math.IsInf(v.num, 0)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return MissingText
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
