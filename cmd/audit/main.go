// Command audit prints the completeness report for a local CSV or XLSX file.
//
// Usage:
//
//	audit [-format csv|xlsx|xls] [-pretty] [-summary] <file>
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/dataaudit/internal/analysis"
	"github.com/JonMunkholm/dataaudit/internal/loader"
	"github.com/JonMunkholm/dataaudit/internal/logging"
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", "", "file format: csv, xlsx or xls (default: from the file extension)")
	pretty := fs.Bool("pretty", false, "indent the JSON report")
	summary := fs.Bool("summary", false, "print a per-column summary table instead of JSON")
	maxSize := fs.Int64("max-size", loader.DefaultMaxFileSize, "maximum file size in bytes")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: audit [flags] <file>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	path := fs.Arg(0)

	logger := logging.New(stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	ext := *format
	if ext == "" {
		ext = filepath.Ext(path)
	}
	f, err := loader.FormatFromExtension(ext)
	if err != nil {
		fmt.Fprintf(stderr, "audit: %v\n", err)
		return 1
	}

	tbl, err := loader.New(*maxSize).Load(path, f)
	if err != nil {
		logger.Error("load failed", "path", path, "format", f.String(), "error", err)
		fmt.Fprintf(stderr, "audit: %v\n", err)
		return 1
	}
	report, err := analysis.Analyze(tbl)
	if err != nil {
		var ae *analysis.AnalysisError
		if errors.As(err, &ae) {
			logger.Error("analysis failed", "path", path, "column", ae.Column, "row", ae.Row)
		}
		fmt.Fprintf(stderr, "audit: %v\n", err)
		return 1
	}
	logger.Debug("file analyzed", "path", path, "rows", report.TotalRows, "columns", report.TotalColumns)

	if *summary {
		err = writeSummary(stdout, report)
	} else {
		err = writeJSON(stdout, report, *pretty)
	}
	if err != nil {
		fmt.Fprintf(stderr, "audit: %v\n", err)
		return 1
	}
	return 0
}

func writeJSON(w io.Writer, report *analysis.Report, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(report)
}

func writeSummary(w io.Writer, report *analysis.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tTYPE\tMISSING\tMISSING %\tTBD\tTBD %")
	for _, name := range report.Columns {
		typ, _ := report.DataTypes.Get(name)
		missing, _ := report.MissingValues.Get(name)
		missingPct, _ := report.MissingPercentage.Get(name)
		tbd, _ := report.TBDValues.Get(name)
		tbdPct, _ := report.TBDPercentage.Get(name)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f\t%d\t%.1f\n", name, typ, missing, missingPct, tbd, tbdPct)
	}

	s := report.Summary()
	fmt.Fprintf(tw, "TOTAL\t%d rows\t%d\t%.1f\t%d\t%.1f\n", s.Rows, s.Missing, s.MissingPercentage, s.TBD, s.TBDPercentage)
	return tw.Flush()
}
