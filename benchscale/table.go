// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchscale

import "golang.org/x/scalebench/benchcsv"

// A GroupKey identifies one aggregation bucket: a benchmark
// configuration at a specific thread count. Measurements sharing a
// GroupKey are pooled into one aggregated point.
type GroupKey struct {
	Backend string
	Variant string
	Threads int
}

// A Ratio is a derived metric value that may be undefined.
//
// Undefined ratios arise when a series' baseline time is not
// positive. Consumers must check Defined before using Value; no NaN
// sentinel is ever stored in a Ratio.
type Ratio struct {
	Value   float64
	Defined bool
}

// A Point is one row of a derived table: an aggregated configuration
// together with its derived scaling metrics. Points are created once
// by ToTable and are immutable thereafter.
type Point struct {
	GroupKey

	// TimeMS is the aggregated time of this configuration in
	// milliseconds: the configured reduction of the configured
	// timing column over every measurement with this GroupKey.
	TimeMS float64

	// Speedup is the series' baseline time divided by TimeMS, and
	// Efficiency is Speedup divided by Threads. Both are undefined
	// when the series' baseline time is not positive.
	Speedup    Ratio
	Efficiency Ratio

	// RefThreads is the thread count of the point that was used
	// as this point's series baseline.
	RefThreads int
}

// A Table is the result of aggregating and deriving a set of
// measurements.
type Table struct {
	// Metric is the timing column that was aggregated.
	Metric benchcsv.Metric

	// AggLabel is the label of the reduction that produced the
	// TimeMS values, such as "median" or "mean".
	AggLabel string

	// Points holds one row per distinct GroupKey among the input
	// measurements, ordered by backend, then variant, then
	// ascending threads, regardless of input order.
	Points []Point

	// Notices reports baseline substitutions, degenerate baselines,
	// and implausible results observed while deriving Points, in
	// deterministic order: per-series notices in series order, then
	// superlinear notices in table order.
	Notices []Notice
}

// A Series is the set of Points sharing a backend and variant,
// ordered by ascending threads. Baselines and derived metrics never
// cross series boundaries.
type Series struct {
	Backend string
	Variant string

	// Points aliases the corresponding run of Table.Points.
	Points []Point
}

// Series returns the table's points grouped into series, one per
// (backend, variant) pair, in table order.
func (t *Table) Series() []Series {
	var series []Series
	for lo := 0; lo < len(t.Points); {
		hi := lo + 1
		for hi < len(t.Points) && t.Points[hi].Backend == t.Points[lo].Backend && t.Points[hi].Variant == t.Points[lo].Variant {
			hi++
		}
		series = append(series, Series{t.Points[lo].Backend, t.Points[lo].Variant, t.Points[lo:hi]})
		lo = hi
	}
	return series
}
