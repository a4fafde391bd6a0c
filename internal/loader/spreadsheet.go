package loader

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/dataaudit/internal/table"
)

// readSpreadsheet parses the first worksheet of a workbook. The first row is
// the header; numeric cells carrying a date number format become dates.
func readSpreadsheet(r io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoColumns
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	rows = trimEmptyRows(rows)
	if len(rows) == 0 {
		return nil, ErrNoColumns
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	header := make([]string, width)
	copy(header, rows[0])
	names := normalizeHeader(header)

	cr := newCellReader(f, sheet)
	values := make([][]table.Value, width)
	for c := range values {
		values[c] = make([]table.Value, len(rows)-1)
	}
	for r, row := range rows[1:] {
		for c, raw := range row {
			v, err := cr.value(c+1, r+2, raw)
			if err != nil {
				return nil, err
			}
			values[c][r] = v
		}
	}

	cols := make([]table.Column, width)
	for c, name := range names {
		cols[c] = table.Column{Name: name, Type: inferType(values[c]), Values: values[c]}
	}
	return table.New(cols...), nil
}

func trimEmptyRows(rows [][]string) [][]string {
	for len(rows) > 0 && isEmptyRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// cellReader converts raw cell text to typed values using the cell's stored
// type and number format.
type cellReader struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	isDate   map[int]bool
}

func newCellReader(f *excelize.File, sheet string) *cellReader {
	cr := &cellReader{f: f, sheet: sheet, isDate: map[int]bool{}}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		cr.date1904 = *props.Date1904
	}
	return cr
}

func (cr *cellReader) value(col, row int, raw string) (table.Value, error) {
	if raw == "" {
		return table.Missing(), nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return table.Missing(), err
	}
	typ, err := cr.f.GetCellType(cr.sheet, cell)
	if err != nil {
		return table.Missing(), fmt.Errorf("cell %s: %w", cell, err)
	}

	switch typ {
	case excelize.CellTypeBool:
		return table.Bool(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return textValue(raw), nil
	case excelize.CellTypeDate:
		if t, ok := parseTextDate(raw); ok {
			return table.Date(t), nil
		}
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return textValue(raw), nil
	}
	if cr.dateFormatted(cell) {
		t, err := excelize.ExcelDateToTime(n, cr.date1904)
		if err == nil {
			return table.Date(t), nil
		}
	}
	return table.Number(n), nil
}

func textValue(s string) table.Value {
	if IsMissingToken(s) {
		return table.Missing()
	}
	return table.Text(s)
}

// dateFormatted reports whether the style applied to cell is a date or time
// number format.
func (cr *cellReader) dateFormatted(cell string) bool {
	idx, err := cr.f.GetCellStyle(cr.sheet, cell)
	if err != nil || idx == 0 {
		return false
	}
	if d, ok := cr.isDate[idx]; ok {
		return d
	}
	d := false
	if style, err := cr.f.GetStyle(idx); err == nil && style != nil {
		d = isDateNumFmt(style.NumFmt)
		if style.CustomNumFmt != nil {
			d = isDateFormatCode(*style.CustomNumFmt)
		}
	}
	cr.isDate[idx] = d
	return d
}

func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode looks for date tokens outside quoted literals and
// bracketed sections of a custom format code.
func isDateFormatCode(code string) bool {
	var quoted, bracket bool
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracket = true
		case r == ']':
			bracket = false
		case bracket:
		case r == 'y' || r == 'd':
			return true
		}
	}
	return false
}
