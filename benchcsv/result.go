// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchcsv provides a reader and writer for the scaling
// benchmark measurement format.
//
// A measurement file is a CSV file with one row per benchmark
// execution and a required header row naming at least the twelve
// measurement columns:
//
//	backend,variant,threads,N,bins,min,max,seed,gen_ms,hist_ms,total_ms,sum_hist
//
// Columns may appear in any order and unknown columns are ignored.
// The reader is structured as a streaming operation so consumers can
// process arbitrarily many rows without holding them all in memory.
// Rows that fail validation produce non-fatal *RowError records so a
// single bad row does not poison a whole file.
//
// This package is designed to be used with the higher-level packages
// benchagg and benchscale.
package benchcsv

// A Measurement is a single benchmark execution read from a
// measurement file.
//
// Measurements are mutated in place and reused by Reader to reduce
// allocation; see the Reader documentation.
type Measurement struct {
	// Backend names the implementation that was measured,
	// e.g. "seq", "openmp", or "threads".
	Backend string

	// Variant names the synchronization strategy within the
	// backend, e.g. "private", "atomic", or "mutex".
	Variant string

	// Threads is the number of worker threads the run used.
	// It is always at least 1.
	Threads int

	// N, Bins, Min, Max, and Seed describe the generated input.
	// They are carried through unmodified and never interpreted.
	N    int64
	Bins int64
	Min  int64
	Max  int64
	Seed int64

	// GenMS, HistMS, and TotalMS are the measured phase times in
	// milliseconds. After validation they are finite and
	// non-negative.
	GenMS   float64
	HistMS  float64
	TotalMS float64

	// SumHist is the run's histogram checksum, carried through so
	// results can be cross-checked for correctness.
	SumHist uint64

	// fileName and line record where this Measurement was read from.
	fileName string
	line     int
}

// Pos returns the file name and line number of a Measurement that was
// read by a Reader. For Measurements that were not read from a file,
// it returns "", 0.
func (m *Measurement) Pos() (fileName string, line int) {
	return m.fileName, m.line
}

// Clone makes a copy of Measurement that shares no state with m.
func (m *Measurement) Clone() *Measurement {
	m2 := *m
	return &m2
}

// A Metric identifies one of the three timing columns of a
// Measurement.
type Metric int

const (
	MetricTotal Metric = iota // total_ms
	MetricGen                 // gen_ms
	MetricHist                // hist_ms
)

// ParseMetric returns the Metric named by a timing column name.
func ParseMetric(col string) (Metric, error) {
	switch col {
	case "total_ms":
		return MetricTotal, nil
	case "gen_ms":
		return MetricGen, nil
	case "hist_ms":
		return MetricHist, nil
	}
	return 0, &badMetricError{col}
}

type badMetricError struct {
	col string
}

func (e *badMetricError) Error() string {
	return "unknown timing column " + e.col + " (must be total_ms, gen_ms, or hist_ms)"
}

// String returns the CSV column name of this Metric.
func (m Metric) String() string {
	switch m {
	case MetricTotal:
		return "total_ms"
	case MetricGen:
		return "gen_ms"
	case MetricHist:
		return "hist_ms"
	}
	return "?"
}

// ValueOf returns the value of this timing column in meas.
func (m Metric) ValueOf(meas *Measurement) float64 {
	switch m {
	case MetricTotal:
		return meas.TotalMS
	case MetricGen:
		return meas.GenMS
	case MetricHist:
		return meas.HistMS
	}
	panic("bad Metric")
}
