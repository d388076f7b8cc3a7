// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchscale aggregates thread-scaling benchmark measurements and
// derives speedup and parallel efficiency.
//
// Usage:
//
//	benchscale [flags] [file...]
//
// Each input file is a measurement CSV with one row per benchmark
// execution; see the benchcsv package for the format. If no files are
// given, benchscale reads results/raw/last.csv. A file named "-"
// reads standard input. With -db and -batch, benchscale reads an
// archived batch instead of files.
//
// Benchscale groups the rows by (backend, variant, threads), reduces
// each group's chosen timing column to a single value (-metric,
// -agg), and derives each configuration's speedup and parallel
// efficiency relative to its series' single-thread run, falling back
// to the smallest measured thread count when no single-thread run
// exists. Rows can be restricted to chosen backends or variants
// before aggregation (-backends, -variants).
//
// It writes aggregated.csv and aggregated_with_speedup.csv plus six
// chart PNGs into -outdir, prints the derived table to stdout in the
// chosen -format, and reports baseline fallbacks, degenerate
// baselines, and superlinear speedups on stderr.
//
// Example:
//
//	benchscale -metric total_ms -agg median results/raw/last.csv
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/scalebench/benchagg"
	"golang.org/x/scalebench/benchchart"
	"golang.org/x/scalebench/benchcsv"
	scale "golang.org/x/scalebench/benchscale"
	"golang.org/x/scalebench/storage/db"

	_ "github.com/go-sql-driver/mysql"
	_ "golang.org/x/scalebench/storage/db/sqlite3"
)

// defaultInput is read when no input files are named.
const defaultInput = "results/raw/last.csv"

var aggNames = map[string]benchagg.Aggregation{
	"median": benchagg.Median,
	"mean":   benchagg.Mean,
}

func main() {
	log.SetPrefix("benchscale: ")
	log.SetFlags(0)
	if err := benchscale(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

// benchscale runs the benchscale command. It's a separate function
// for testing.
func benchscale(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("benchscale", flag.ExitOnError)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), `Usage: benchscale [flags] [file...]

benchscale reads thread-scaling benchmark measurements from CSV files,
aggregates them, derives speedup and parallel efficiency, and writes
tables and charts. If no files are given, it reads %s.
A file named - reads standard input.

`, defaultInput)
		flags.PrintDefaults()
	}
	outdir := flags.String("outdir", "results", "write tables and charts to `dir`")
	metricFlag := flags.String("metric", "total_ms", "aggregate timing `column`: total_ms, gen_ms, or hist_ms")
	aggFlag := flags.String("agg", "median", "reduce each group with `func`: median or mean")
	backends := flags.String("backends", "", "keep only rows whose backend is in this comma-separated `list`")
	variants := flags.String("variants", "", "keep only rows whose variant is in this comma-separated `list`")
	format := flags.String("format", "text", "print the table to stdout in `format`: text, csv, or html")
	quiet := flags.Bool("q", false, "don't print the table to stdout")
	dbFlag := flags.String("db", "", "read measurements from the archive `driver:dsn`")
	batch := flags.String("batch", "", "read measurements from archive batch `id` (requires -db)")
	flags.Parse(args)

	metric, err := benchcsv.ParseMetric(*metricFlag)
	if err != nil {
		return err
	}
	agg := aggNames[*aggFlag]
	if agg == nil {
		return fmt.Errorf("unknown aggregation %q (must be median or mean)", *aggFlag)
	}
	switch *format {
	case "text", "csv", "html":
	default:
		return fmt.Errorf("unknown format %q (must be text, csv, or html)", *format)
	}
	if (*dbFlag == "") != (*batch == "") {
		return errors.New("-db and -batch must be used together")
	}
	if *batch != "" && flags.NArg() > 0 {
		return errors.New("file arguments make no sense with -db and -batch")
	}

	keepBackend := keepSet(*backends)
	keepVariant := keepSet(*variants)

	b := scale.NewBuilder(metric, agg)
	var read, kept int
	add := func(m *benchcsv.Measurement) {
		read++
		if keepBackend != nil && !keepBackend[m.Backend] {
			return
		}
		if keepVariant != nil && !keepVariant[m.Variant] {
			return
		}
		b.Add(m)
		kept++
	}

	if *batch != "" {
		driverName, dataSourceName, err := splitDB(*dbFlag)
		if err != nil {
			return err
		}
		d, err := db.OpenSQL(driverName, dataSourceName)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer d.Close()
		ms, err := d.Measurements(context.Background(), *batch)
		if err != nil {
			return err
		}
		for _, m := range ms {
			add(m)
		}
	} else {
		paths := flags.Args()
		if len(paths) == 0 {
			paths = []string{defaultInput}
		}
		dropped := 0
		files := benchcsv.Files{Paths: paths, AllowStdin: true}
		for files.Scan() {
			switch rec := files.Result().(type) {
			case *benchcsv.RowError:
				// Non-fatal row error. Warn but keep going.
				fmt.Fprintln(wErr, rec)
				dropped++
			case *benchcsv.Measurement:
				add(rec)
			}
		}
		if err := files.Err(); err != nil {
			return err
		}
		if dropped > 0 {
			fmt.Fprintf(wErr, "benchscale: dropped %d invalid row(s)\n", dropped)
		}
	}

	if kept == 0 {
		if read > 0 {
			return errors.New("no rows left after filtering")
		}
		return errors.New("no measurements")
	}

	tab, err := b.ToTable()
	if err != nil {
		return err
	}
	for _, n := range tab.Notices {
		fmt.Fprintf(wErr, "benchscale: %s\n", n)
	}

	if err := os.MkdirAll(*outdir, 0777); err != nil {
		return err
	}
	base := filepath.Join(*outdir, "aggregated.csv")
	if err := writeFile(base, tab.WriteBaseCSV); err != nil {
		return err
	}
	fmt.Fprintf(wErr, "benchscale: wrote %s\n", base)
	full := filepath.Join(*outdir, "aggregated_with_speedup.csv")
	if err := writeFile(full, tab.WriteCSV); err != nil {
		return err
	}
	fmt.Fprintf(wErr, "benchscale: wrote %s\n", full)

	charts, err := benchchart.Render(tab, *outdir)
	if err != nil {
		return err
	}
	fmt.Fprintf(wErr, "benchscale: wrote %d charts to %s\n", len(charts), *outdir)

	if *quiet {
		return nil
	}
	switch *format {
	case "csv":
		return tab.WriteCSV(w)
	case "html":
		var buf bytes.Buffer
		buf.WriteString(htmlHeader)
		scale.FormatHTML(&buf, tab)
		buf.WriteString(htmlFooter)
		_, err := w.Write(buf.Bytes())
		return err
	}
	return tab.ToText(w)
}

// keepSet parses a comma-separated filter flag. A nil result means
// keep everything.
func keepSet(s string) map[string]bool {
	if s == "" {
		return nil
	}
	keep := make(map[string]bool)
	for _, name := range strings.Split(s, ",") {
		keep[strings.TrimSpace(name)] = true
	}
	return keep
}

// splitDB splits a -db flag value of the form driver:dsn.
func splitDB(s string) (driverName, dataSourceName string, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid database %q (want driver:dsn)", s)
	}
	return parts[0], parts[1], nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var htmlHeader = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Thread Scaling Results</title>
<style>
.benchscale { border-collapse: collapse; }
.benchscale th:nth-child(1) { text-align: left; }
.benchscale tbody td:nth-child(1n+3) { text-align: right; padding: 0em 1em; }
.benchscale tr th { border-top: 1px solid #666; border-bottom: 1px solid #ccc; }
</style>
</head>
<body>
`
var htmlFooter = `</body>
</html>
`
