// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchsave archives benchmark measurements in a local database.
//
// Usage:
//
//	benchsave [-v] [-db driver:dsn] file...
//
// Each input file is a measurement CSV; see the benchcsv package for
// the format. Benchsave stores the rows of all input files as a
// single batch and prints the new batch's ID. A file named "-" reads
// standard input.
//
//	benchsave -list
//
// lists the stored batches with their upload time and row count.
//
//	benchsave -export batchID
//
// writes a stored batch back to stdout as a canonical measurement
// CSV.
//
// The default database is an SQLite file, results/scalebench.db,
// created on first use. A MySQL database can be named instead, for
// example
//
//	benchsave -db mysql:user:password@/scalebench results/raw/last.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/scalebench/benchcsv"
	"golang.org/x/scalebench/internal/texttab"
	"golang.org/x/scalebench/storage/db"

	_ "github.com/go-sql-driver/mysql"
	_ "golang.org/x/scalebench/storage/db/sqlite3"
)

// defaultDB is used when no -db flag is given.
const defaultDB = "sqlite3:results/scalebench.db"

func main() {
	log.SetPrefix("benchsave: ")
	log.SetFlags(0)
	if err := benchsave(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

// benchsave runs the benchsave command. It's a separate function for
// testing.
func benchsave(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("benchsave", flag.ExitOnError)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), `Usage:	benchsave [flags] file...
	benchsave -list
	benchsave -export batchID

`)
		flags.PrintDefaults()
	}
	dbName := flags.String("db", defaultDB, "save benchmarks to database at `driver:dsn`")
	list := flags.Bool("list", false, "list stored batches and exit")
	export := flags.String("export", "", "write batch `id` to stdout as CSV and exit")
	verbose := flags.Bool("v", false, "print verbose log messages")
	flags.Parse(args)

	files := flags.Args()
	switch {
	case *list && *export != "":
		return errors.New("-list and -export are mutually exclusive")
	case (*list || *export != "") && len(files) > 0:
		return errors.New("file arguments make no sense with -list or -export")
	case !*list && *export == "" && len(files) == 0:
		return errors.New("no files to save")
	}

	d, err := openDB(*dbName)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := context.Background()
	switch {
	case *list:
		return listBatches(ctx, d, w)
	case *export != "":
		return exportBatch(ctx, d, w, *export)
	}
	return save(ctx, d, w, wErr, files, *verbose)
}

// openDB opens the database named by a driver:dsn flag value. For
// file-backed SQLite databases it creates the containing directory
// first.
func openDB(name string) (*db.DB, error) {
	parts := strings.SplitN(name, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid database %q (want driver:dsn)", name)
	}
	driverName, dataSourceName := parts[0], parts[1]
	if driverName == "sqlite3" && dataSourceName != ":memory:" {
		if dir := filepath.Dir(dataSourceName); dir != "." {
			if err := os.MkdirAll(dir, 0777); err != nil {
				return nil, err
			}
		}
	}
	return db.OpenSQL(driverName, dataSourceName)
}

// save stores the rows of all input files as one new batch and prints
// the batch's ID to w.
func save(ctx context.Context, d *db.DB, w, wErr io.Writer, files []string, verbose bool) error {
	start := time.Now()

	batch, err := d.NewBatch(ctx)
	if err != nil {
		return err
	}
	defer batch.Abort()

	rows, dropped := 0, 0
	in := benchcsv.Files{Paths: files, AllowStdin: true}
	for in.Scan() {
		switch rec := in.Result().(type) {
		case *benchcsv.RowError:
			// Skip invalid rows, like the readers do.
			fmt.Fprintln(wErr, rec)
			dropped++
		case *benchcsv.Measurement:
			if err := batch.InsertMeasurement(rec); err != nil {
				return err
			}
			rows++
		}
	}
	if err := in.Err(); err != nil {
		return err
	}
	if dropped > 0 {
		fmt.Fprintf(wErr, "benchsave: dropped %d invalid row(s)\n", dropped)
	}
	if rows == 0 {
		return errors.New("no measurements to save")
	}
	if err := batch.Commit(); err != nil {
		return err
	}

	if verbose {
		s := ""
		if len(files) != 1 {
			s = "s"
		}
		fmt.Fprintf(wErr, "benchsave: %d rows from %d file%s saved in %.2f seconds.\n", rows, len(files), s, time.Since(start).Seconds())
	}
	fmt.Fprintf(w, "%s\n", batch.ID)
	return nil
}

// listBatches prints one line per stored batch.
func listBatches(ctx context.Context, d *db.DB, w io.Writer) error {
	batches, err := d.ListBatches(ctx)
	if err != nil {
		return err
	}
	lm := texttab.LeftMargin("  ")
	var tbl texttab.Table
	tbl.Row().
		Cell("batch").
		Cell("uploaded", lm).
		Cell("rows", texttab.Right, lm)
	for _, b := range batches {
		tbl.Row().
			Cell(b.ID).
			Cell(b.Time.UTC().Format("2006-01-02 15:04:05"), lm).
			Cell(strconv.Itoa(b.Rows), texttab.Right, lm)
	}
	return tbl.Format(w)
}

// exportBatch writes a stored batch to w as a canonical measurement
// CSV.
func exportBatch(ctx context.Context, d *db.DB, w io.Writer, id string) error {
	ms, err := d.Measurements(ctx, id)
	if err != nil {
		return err
	}
	if len(ms) == 0 {
		return fmt.Errorf("batch %s is empty", id)
	}
	out := benchcsv.NewWriter(w)
	for _, m := range ms {
		if err := out.Write(m); err != nil {
			return err
		}
	}
	return out.Flush()
}
