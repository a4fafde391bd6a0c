package loader

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/dataaudit/internal/table"
)

// numericRegex matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var integerRegex = regexp.MustCompile(`^[+-]?\d+$`)

// parseNumber parses s as a finite decimal number. Surrounding whitespace is
// ignored; hex, infinities and digit separators are not numbers.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// maxExactInteger is the largest magnitude a float64 cell holds without
// rounding (2^53).
const maxExactInteger = 1 << 53

// isIntegerText reports whether s is an integer whose magnitude is at most
// 2^53, so it survives storage as float64 unchanged.
func isIntegerText(s string) bool {
	s = strings.TrimSpace(s)
	if !integerRegex.MatchString(s) {
		return false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return err == nil && n >= -maxExactInteger && n <= maxExactInteger
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "True", "TRUE", "true":
		return true, true
	case "False", "FALSE", "false":
		return false, true
	default:
		return false, false
	}
}

// inferType picks the column type from already-typed values.
func inferType(values []table.Value) table.ColumnType {
	var (
		missing, present int
		kinds            = map[table.Kind]int{}
		integral         = true
	)
	for _, v := range values {
		if v.IsMissing() {
			missing++
			continue
		}
		present++
		kinds[v.Kind()]++
		if f, ok := v.AsNumber(); ok && (f != math.Trunc(f) || math.Abs(f) > maxExactInteger) {
			integral = false
		}
	}

	switch {
	case present == 0:
		if len(values) == 0 {
			return table.TypeText
		}
		return table.TypeFloat
	case kinds[table.KindNumber] == present:
		if integral && missing == 0 {
			return table.TypeInteger
		}
		return table.TypeFloat
	case kinds[table.KindBool] == present && missing == 0:
		return table.TypeBool
	case kinds[table.KindDate] == present:
		return table.TypeDate
	default:
		return table.TypeText
	}
}

// normalizeHeader names blank header cells "Unnamed: i" and renames
// repeated names to "name.1", "name.2", ...
func normalizeHeader(header []string) []string {
	names := make([]string, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		names[i] = h
	}

	taken := make(map[string]bool, len(names))
	for _, n := range names {
		taken[n] = false
	}
	counts := make(map[string]int, len(names))
	for i, n := range names {
		if !taken[n] {
			taken[n] = true
			continue
		}
		k := counts[n]
		if k == 0 {
			k = 1
		}
		candidate := n + "." + strconv.Itoa(k)
		for {
			if _, exists := taken[candidate]; !exists {
				break
			}
			k++
			candidate = n + "." + strconv.Itoa(k)
		}
		counts[n] = k + 1
		taken[candidate] = true
		names[i] = candidate
	}
	return names
}

// dateLayouts are the textual date forms recognized in date-typed cells.
var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"1/2/2006",
	"01/02/2006",
	"1-2-2006",
	"01-02-2006",
	"1.2.2006",
	"01.02.2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"20060102",
	"1/2/06",
	"01/02/06",
	"1-2-06",
	"1.2.06",
	"01.02.06",
}

func parseTextDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
