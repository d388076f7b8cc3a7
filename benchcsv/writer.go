// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// A Writer writes the measurement CSV format.
type Writer struct {
	c           *csv.Writer
	wroteHeader bool
}

// NewWriter returns a writer that writes measurements to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{c: csv.NewWriter(w)}
}

// Write writes Record rec to w, emitting the canonical header row
// before the first measurement. *RowError records are ignored.
func (w *Writer) Write(rec Record) error {
	switch rec := rec.(type) {
	case *Measurement:
		return w.writeMeasurement(rec)
	case *RowError:
		// Ignore
		return nil
	}
	return fmt.Errorf("unknown Record type %T", rec)
}

func (w *Writer) writeMeasurement(m *Measurement) error {
	if !w.wroteHeader {
		w.wroteHeader = true
		if err := w.c.Write(RequiredColumns); err != nil {
			return err
		}
	}
	return w.c.Write([]string{
		m.Backend,
		m.Variant,
		strconv.Itoa(m.Threads),
		strconv.FormatInt(m.N, 10),
		strconv.FormatInt(m.Bins, 10),
		strconv.FormatInt(m.Min, 10),
		strconv.FormatInt(m.Max, 10),
		strconv.FormatInt(m.Seed, 10),
		strconv.FormatFloat(m.GenMS, 'g', -1, 64),
		strconv.FormatFloat(m.HistMS, 'g', -1, 64),
		strconv.FormatFloat(m.TotalMS, 'g', -1, 64),
		strconv.FormatUint(m.SumHist, 10),
	})
}

// Flush writes any buffered rows to the underlying io.Writer and
// returns the first error encountered while writing, if any.
func (w *Writer) Flush() error {
	w.c.Flush()
	return w.c.Error()
}
