package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/dataaudit/internal/table"
)

func loadCSV(t *testing.T, content string) *table.Table {
	t.Helper()
	tbl, err := New(0).LoadReader(strings.NewReader(content), FormatDelimited)
	require.NoError(t, err)
	return tbl
}

func labels(tbl *table.Table) []string {
	out := make([]string, tbl.Width())
	for i := range tbl.Columns {
		out[i] = tbl.Columns[i].Type.Label()
	}
	return out
}

func TestFormatFromExtension(t *testing.T) {
	tests := []struct {
		ext     string
		want    Format
		wantErr bool
	}{
		{".csv", FormatDelimited, false},
		{"CSV", FormatDelimited, false},
		{".xlsx", FormatSpreadsheet, false},
		{".XLS", FormatSpreadsheet, false},
		{".txt", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			got, err := FormatFromExtension(tt.ext)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadDelimited_Types(t *testing.T) {
	tbl := loadCSV(t, "id,name,score,active,notes\n1,Ann,2.5,True,\n2,TBD,,False,x\n3,,4,true,\n")

	assert.Equal(t, []string{"id", "name", "score", "active", "notes"}, tbl.ColumnNames())
	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, []string{"int64", "object", "float64", "bool", "object"}, labels(tbl))

	assert.Equal(t, "1", tbl.Columns[0].Format(0))
	assert.Equal(t, "nan", tbl.Columns[1].Format(2))
	assert.Equal(t, "2.5", tbl.Columns[2].Format(0))
	assert.Equal(t, "4.0", tbl.Columns[2].Format(2))
	assert.Equal(t, "True", tbl.Columns[3].Format(0))
}

func TestReadDelimited_IntegerWithMissingBecomesFloat(t *testing.T) {
	tbl := loadCSV(t, "n\n1\nNA\n3\n")
	col := tbl.Columns[0]

	assert.Equal(t, table.TypeFloat, col.Type)
	assert.True(t, col.Values[1].IsMissing())
	assert.Equal(t, "1.0", col.Format(0))
}

func TestReadDelimited_IntegerBeyondFloatPrecisionBecomesFloat(t *testing.T) {
	tbl := loadCSV(t, "id,small\n9223372036854775807,9007199254740992\n1,-9007199254740992\n")

	big := tbl.Columns[0]
	assert.Equal(t, table.TypeFloat, big.Type)
	assert.Equal(t, 9223372036854775807.0, big.Export(0))
	assert.Equal(t, "9223372036854775808.0", big.Format(0))
	assert.Equal(t, "1.0", big.Format(1))

	small := tbl.Columns[1]
	assert.Equal(t, table.TypeInteger, small.Type)
	assert.Equal(t, int64(-9007199254740992), small.Export(1))
}

func TestReadDelimited_AllMissingColumn(t *testing.T) {
	tbl := loadCSV(t, "a,b\n1,\n2,\n")
	assert.Equal(t, "float64", tbl.Columns[1].Type.Label())

	empty := loadCSV(t, "a,b\n")
	assert.Equal(t, 0, empty.Rows())
	assert.Equal(t, []string{"object", "object"}, labels(empty))
}

func TestReadDelimited_BoolWithMissingIsObject(t *testing.T) {
	tbl := loadCSV(t, "flag\nTrue\n\nFalse\n")
	col := tbl.Columns[0]

	assert.Equal(t, table.TypeText, col.Type)
	assert.Equal(t, "True", col.Format(0))
	assert.Equal(t, "nan", col.Format(1))
}

func TestReadDelimited_MissingTokens(t *testing.T) {
	tbl := loadCSV(t, "v\nNA\nN/A\nnull\n#N/A\nna\nNone\n")
	col := tbl.Columns[0]

	for i := 0; i < 4; i++ {
		assert.True(t, col.Values[i].IsMissing(), "row %d", i)
	}
	assert.False(t, col.Values[4].IsMissing(), "lowercase na is text")
	assert.True(t, col.Values[5].IsMissing())
}

func TestReadDelimited_Header(t *testing.T) {
	tbl := loadCSV(t, "a,a,,a.1,a\n1,2,3,4,5\n")
	assert.Equal(t, []string{"a", "a.2", "Unnamed: 2", "a.1", "a.3"}, tbl.ColumnNames())
}

func TestReadDelimited_ShortRowsPadded(t *testing.T) {
	tbl := loadCSV(t, "a,b,c\n1,x\n2,y,z\n")

	require.Equal(t, 2, tbl.Rows())
	assert.True(t, tbl.Columns[2].Values[0].IsMissing())
	assert.Equal(t, "z", tbl.Columns[2].Format(1))
}

func TestReadDelimited_BOM(t *testing.T) {
	tbl := loadCSV(t, "\xEF\xBB\xBFname\nAnn\n")
	assert.Equal(t, []string{"name"}, tbl.ColumnNames())
}

func TestReadDelimited_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		is      error
	}{
		{"empty", "", "no columns to parse from file", ErrNoColumns},
		{"too many fields", "a,b\n1,2\n3,4,5\n", "expected 2 fields in line 3, saw 3", nil},
		{"invalid utf8", "a,b\n1,\xff\xfe\n", "invalid UTF-8 byte 0xff", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(0).LoadReader(strings.NewReader(tt.content), FormatDelimited)
			require.Error(t, err)

			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, FormatDelimited, le.Format)
			assert.Contains(t, err.Error(), tt.want)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestLoad_SizeLimit(t *testing.T) {
	_, err := New(8).LoadReader(strings.NewReader("a,b\n1,2\n3,4\n"), FormatDelimited)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestLoad_Path(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n3,4,5\n"), 0o644))

	_, err := Load(path, FormatDelimited)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, path, le.Path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"), FormatDelimited)
	assert.True(t, errors.As(err, &le))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" -3.5 ", -3.5, true},
		{"1e3", 1000, true},
		{".5", 0.5, true},
		{"0x10", 0, false},
		{"1,000", 0, false},
		{"inf", 0, false},
		{"1e999", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func buildWorkbook(t *testing.T, fill func(f *excelize.File)) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	fill(f)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadSpreadsheet(t *testing.T) {
	buf := buildWorkbook(t, func(f *excelize.File) {
		rows := [][]any{
			{"id", "name", "price", "active"},
			{1, "Ann", 2.5, true},
			{2, "TBD", nil, false},
			{3, "#N/A", 4, true},
		}
		for r, row := range rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue("Sheet1", cell, v))
			}
		}
	})

	tbl, err := New(0).LoadReader(buf, FormatSpreadsheet)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "price", "active"}, tbl.ColumnNames())
	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, []string{"int64", "object", "float64", "bool"}, labels(tbl))
	assert.True(t, tbl.Columns[1].Values[2].IsMissing())
	assert.True(t, tbl.Columns[2].Values[1].IsMissing())
	assert.Equal(t, "TBD", tbl.Columns[1].Format(1))
}

func TestReadSpreadsheet_Dates(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	buf := buildWorkbook(t, func(f *excelize.File) {
		style, err := f.NewStyle(&excelize.Style{NumFmt: 14})
		require.NoError(t, err)

		require.NoError(t, f.SetCellValue("Sheet1", "A1", "due"))
		require.NoError(t, f.SetCellValue("Sheet1", "A2", day))
		require.NoError(t, f.SetCellStyle("Sheet1", "A2", "A2", style))
		require.NoError(t, f.SetCellValue("Sheet1", "A3", day.AddDate(0, 0, 1)))
		require.NoError(t, f.SetCellStyle("Sheet1", "A3", "A3", style))
	})

	tbl, err := New(0).LoadReader(buf, FormatSpreadsheet)
	require.NoError(t, err)

	col := tbl.Columns[0]
	assert.Equal(t, "datetime64[ns]", col.Type.Label())
	got, ok := col.Values[0].AsDate()
	require.True(t, ok)
	assert.True(t, day.Equal(got))
	assert.Equal(t, "2024-03-16 00:00:00", col.Format(1))
}

func TestReadSpreadsheet_WideRowsAndEmptySheet(t *testing.T) {
	buf := buildWorkbook(t, func(f *excelize.File) {
		require.NoError(t, f.SetCellValue("Sheet1", "A1", "a"))
		require.NoError(t, f.SetCellValue("Sheet1", "A2", "x"))
		require.NoError(t, f.SetCellValue("Sheet1", "C2", "y"))
	})
	tbl, err := New(0).LoadReader(buf, FormatSpreadsheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "Unnamed: 1", "Unnamed: 2"}, tbl.ColumnNames())

	empty := buildWorkbook(t, func(*excelize.File) {})
	_, err = New(0).LoadReader(empty, FormatSpreadsheet)
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestReadSpreadsheet_NotAWorkbook(t *testing.T) {
	_, err := New(0).LoadReader(strings.NewReader("id,name\n1,Ann\n"), FormatSpreadsheet)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, FormatSpreadsheet, le.Format)
}

func TestIsDateFormatCode(t *testing.T) {
	assert.True(t, isDateFormatCode("yyyy-mm-dd"))
	assert.True(t, isDateFormatCode("[$-409]d-mmm"))
	assert.False(t, isDateFormatCode("0.00"))
	assert.False(t, isDateFormatCode(`0.0 "days"`))
	assert.False(t, isDateFormatCode("[Red]0.00"))
}
