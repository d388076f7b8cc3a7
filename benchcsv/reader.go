// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// RequiredColumns lists the columns every measurement file must
// provide, in canonical order. Files may carry additional columns and
// may order columns freely; only the header names matter.
var RequiredColumns = []string{
	"backend", "variant", "threads",
	"N", "bins", "min", "max", "seed",
	"gen_ms", "hist_ms", "total_ms", "sum_hist",
}

// Indexes into RequiredColumns and Reader.cols.
const (
	colBackend = iota
	colVariant
	colThreads
	colN
	colBins
	colMin
	colMax
	colSeed
	colGenMS
	colHistMS
	colTotalMS
	colSumHist
	numCols
)

// A Reader reads the measurement CSV format.
//
// Its API is modeled on bufio.Scanner. To minimize allocation, a
// Reader retains ownership of the Measurement it returns; a caller
// should copy anything it needs to retain across calls to Scan.
//
// To construct a new Reader, either call NewReader, or call Reset on
// a zeroed Reader.
type Reader struct {
	c        *csv.Reader
	fileName string
	err      error // current I/O or header error

	// cols maps each required column to its field index in this
	// file. It is nil until the header row has been read.
	cols []int

	line int
	rec  Record
	m    Measurement
}

// A RowError represents an invalid row in a measurement file.
type RowError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *RowError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

var noRow = &RowError{"", 0, "Reader.Scan has not been called"}

// NewReader constructs a reader to parse the measurement CSV format
// from r. fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.c = csv.NewReader(ior)
	r.c.TrimLeadingSpace = true
	r.c.ReuseRecord = true
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.err = nil
	r.cols = nil
	r.line = 0
	r.rec = noRow
	r.m = Measurement{}
}

// newRowError returns a *RowError at the Reader's current position.
func (r *Reader) newRowError(msg string) *RowError {
	return &RowError{r.fileName, r.line, msg}
}

// Scan advances the reader to the next row and reports whether one
// was read. The caller should use the Result method to get the parsed
// row. If Scan reaches EOF or an I/O error occurs, it returns false,
// in which case the caller should use the Err method to check for
// errors. A missing or incomplete header row is reported through Err;
// invalid data rows are reported as non-fatal *RowError records.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	if r.cols == nil {
		if err := r.readHeader(); err != nil {
			r.err = err
			return false
		}
	}

	fields, err := r.c.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			// Malformed CSV rows are non-fatal. Report the row
			// and keep scanning.
			r.line = perr.Line
			r.rec = r.newRowError(perr.Err.Error())
			return true
		}
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
		return false
	}
	r.line, _ = r.c.FieldPos(0)
	if rerr := r.parseRow(fields); rerr != nil {
		r.rec = rerr
	} else {
		r.rec = &r.m
	}
	return true
}

// readHeader consumes the header row and resolves the field index of
// every required column. Extra columns are ignored; if the same
// column name appears twice, the first occurrence wins.
func (r *Reader) readHeader() error {
	hdr, err := r.c.Read()
	if err == io.EOF {
		return fmt.Errorf("%s: missing header row", r.fileName)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", r.fileName, err)
	}
	line, _ := r.c.FieldPos(0)

	cols := make([]int, numCols)
	for i := range cols {
		cols[i] = -1
	}
	for j, name := range hdr {
		for i, want := range RequiredColumns {
			if name == want && cols[i] < 0 {
				cols[i] = j
			}
		}
	}
	var missing []string
	for i, pos := range cols {
		if pos < 0 {
			missing = append(missing, RequiredColumns[i])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s:%d: missing required columns: %s", r.fileName, line, strings.Join(missing, ", "))
	}
	r.cols = cols
	return nil
}

// parseRow parses one data row into r.m, returning a *RowError if any
// field fails validation.
func (r *Reader) parseRow(fields []string) *RowError {
	m := &r.m
	*m = Measurement{fileName: r.fileName, line: r.line}

	m.Backend = fields[r.cols[colBackend]]
	if m.Backend == "" {
		return r.newRowError("missing backend")
	}
	m.Variant = fields[r.cols[colVariant]]
	if m.Variant == "" {
		return r.newRowError("missing variant")
	}

	var err error
	m.Threads, err = strconv.Atoi(fields[r.cols[colThreads]])
	if err != nil {
		return r.newRowError("parsing threads: " + errMsg(err))
	}
	if m.Threads < 1 {
		return r.newRowError(fmt.Sprintf("threads must be at least 1 (have %d)", m.Threads))
	}

	for _, f := range []struct {
		col int
		dst *int64
	}{
		{colN, &m.N},
		{colBins, &m.Bins},
		{colMin, &m.Min},
		{colMax, &m.Max},
		{colSeed, &m.Seed},
	} {
		*f.dst, err = strconv.ParseInt(fields[r.cols[f.col]], 10, 64)
		if err != nil {
			return r.newRowError("parsing " + RequiredColumns[f.col] + ": " + errMsg(err))
		}
	}

	for _, f := range []struct {
		col int
		dst *float64
	}{
		{colGenMS, &m.GenMS},
		{colHistMS, &m.HistMS},
		{colTotalMS, &m.TotalMS},
	} {
		v, err := strconv.ParseFloat(fields[r.cols[f.col]], 64)
		if err != nil {
			return r.newRowError("parsing " + RequiredColumns[f.col] + ": " + errMsg(err))
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return r.newRowError(RequiredColumns[f.col] + " is not finite")
		}
		if v < 0 {
			return r.newRowError(RequiredColumns[f.col] + " is negative")
		}
		*f.dst = v
	}

	m.SumHist, err = strconv.ParseUint(fields[r.cols[colSumHist]], 10, 64)
	if err != nil {
		return r.newRowError("parsing sum_hist: " + errMsg(err))
	}
	return nil
}

// errMsg returns a compact message for strconv errors.
func errMsg(err error) string {
	if err, ok := err.(*strconv.NumError); ok {
		return err.Err.Error()
	}
	return err.Error()
}

// A Record is a single record read from a measurement file. It may be
// a *Measurement or a *RowError.
type Record interface {
	// Pos returns the position of this record as a file name and a
	// 1-based line number within that file. If this record was not
	// read from a file, it returns "", 0.
	Pos() (fileName string, line int)
}

var _ Record = (*Measurement)(nil)
var _ Record = (*RowError)(nil)

// Result returns the record that was just read by Scan. This is
// either a *Measurement or a *RowError indicating an invalid row.
//
// Row errors are non-fatal, so the caller can continue to call Scan.
//
// If this returns a *Measurement, the caller should not retain the
// Measurement, as it will be overwritten by the next call to Scan.
func (r *Reader) Result() Record {
	return r.rec
}

// Err returns the first fatal error encountered by the Reader: a
// non-EOF I/O error, or a missing or incomplete header row.
func (r *Reader) Err() error {
	return r.err
}
