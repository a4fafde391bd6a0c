// Package loader turns an uploaded file into a table.Table.
//
// Two formats are supported: delimited text (CSV) and spreadsheets (XLSX,
// read with excelize). Every failure is reported as a *LoadError carrying the
// parser's message; a partial table is never returned.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JonMunkholm/dataaudit/internal/table"
)

// Format is the kind of file being loaded.
type Format int

const (
	FormatDelimited Format = iota + 1
	FormatSpreadsheet
)

func (f Format) String() string {
	switch f {
	case FormatDelimited:
		return "delimited"
	case FormatSpreadsheet:
		return "spreadsheet"
	default:
		return "unknown"
	}
}

// DefaultMaxFileSize is used when a Loader has no explicit limit (100MB).
const DefaultMaxFileSize int64 = 100 * 1024 * 1024

var (
	// ErrUnsupportedFormat is returned for extensions with no reader.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoColumns is returned for input without a header row.
	ErrNoColumns = errors.New("no columns to parse from file")

	// ErrFileTooLarge is returned when the input exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")
)

// FormatFromExtension maps a file extension (with or without the leading
// dot, any case) to a Format.
func FormatFromExtension(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "csv":
		return FormatDelimited, nil
	case "xlsx", "xls":
		return FormatSpreadsheet, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// LoadError wraps any failure to produce a table.
type LoadError struct {
	Path   string
	Format Format
	Err    error
}

// Error returns the underlying parser message unchanged.
func (e *LoadError) Error() string {
	return e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader reads files into tables.
type Loader struct {
	// MaxFileSize caps the number of bytes read. Zero means DefaultMaxFileSize.
	MaxFileSize int64
}

// New returns a Loader with the given size limit.
func New(maxFileSize int64) *Loader {
	return &Loader{MaxFileSize: maxFileSize}
}

// Load reads the file at path using the default Loader.
func Load(path string, format Format) (*table.Table, error) {
	return (&Loader{}).Load(path, format)
}

// Load opens path and parses it as format.
func (l *Loader) Load(path string, format Format) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Format: format, Err: err}
	}
	defer f.Close()

	t, err := l.LoadReader(f, format)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return t, nil
}

// LoadReader parses r as format.
func (l *Loader) LoadReader(r io.Reader, format Format) (*table.Table, error) {
	limited := NewLimitReader(r, l.maxFileSize())

	var (
		t   *table.Table
		err error
	)
	switch format {
	case FormatDelimited:
		t, err = readDelimited(limited)
	case FormatSpreadsheet:
		t, err = readSpreadsheet(limited)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, &LoadError{Format: format, Err: err}
	}

	if err := t.Validate(); err != nil {
		return nil, &LoadError{Format: format, Err: err}
	}
	return t, nil
}

func (l *Loader) maxFileSize() int64 {
	if l.MaxFileSize <= 0 {
		return DefaultMaxFileSize
	}
	return l.MaxFileSize
}

// missingTokens are cell texts read as absent values.
var missingTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissingToken reports whether a raw cell text denotes a missing value.
// Matching is exact and case-sensitive.
func IsMissingToken(s string) bool {
	_, ok := missingTokens[s]
	return ok
}
