package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/dataaudit/internal/table"
)

// readDelimited parses CSV input. The first record is the header; short rows
// are padded with missing cells and long rows are rejected.
func readDelimited(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(wrapDelimited(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, err
	}

	names := normalizeHeader(header)
	raw := make([][]string, len(names))

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) > len(names) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("expected %d fields in line %d, saw %d", len(names), line, len(record))
		}
		for i := range names {
			cell := ""
			if i < len(record) {
				cell = record[i]
			}
			raw[i] = append(raw[i], cell)
		}
	}

	cols := make([]table.Column, len(names))
	for i, name := range names {
		cols[i] = delimitedColumn(name, raw[i])
	}
	return table.New(cols...), nil
}

// delimitedColumn converts the raw texts of one column. A column becomes
// numeric or boolean only when every non-missing cell parses; otherwise all
// cells stay text.
func delimitedColumn(name string, raw []string) table.Column {
	var (
		missing int
		present int
		allNum  = true
		allInt  = true
		allBool = true
	)
	for _, s := range raw {
		if IsMissingToken(s) {
			missing++
			continue
		}
		present++
		if allNum {
			if _, ok := parseNumber(s); !ok {
				allNum, allInt = false, false
			} else if allInt && !isIntegerText(s) {
				allInt = false
			}
		}
		if allBool {
			if _, ok := parseBool(s); !ok {
				allBool = false
			}
		}
	}

	values := make([]table.Value, len(raw))
	col := table.Column{Name: name, Values: values}

	switch {
	case present == 0:
		if len(raw) > 0 {
			col.Type = table.TypeFloat
		}
		return col

	case allNum:
		for i, s := range raw {
			if f, ok := parseNumber(s); ok && !IsMissingToken(s) {
				values[i] = table.Number(f)
			}
		}
		col.Type = table.TypeFloat
		if allInt && missing == 0 {
			col.Type = table.TypeInteger
		}

	case allBool:
		for i, s := range raw {
			if b, ok := parseBool(s); ok {
				values[i] = table.Bool(b)
			}
		}
		if missing == 0 {
			col.Type = table.TypeBool
		}

	default:
		for i, s := range raw {
			if !IsMissingToken(s) {
				values[i] = table.Text(s)
			}
		}
	}
	return col
}
