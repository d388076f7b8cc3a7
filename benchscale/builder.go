// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchscale computes thread-scaling tables from benchmark
// measurements.
//
// A Builder pools measurements by (backend, variant, threads),
// reduces each pool's chosen timing column to a single value, and
// derives speedup and parallel efficiency for every (backend,
// variant) series relative to that series' baseline run. The result
// is a sorted Table plus a list of structured Notices describing
// baseline substitutions, degenerate baselines, and physically
// implausible results.
package benchscale

import (
	"errors"
	"sort"

	"golang.org/x/scalebench/benchagg"
	"golang.org/x/scalebench/benchcsv"
)

// A Builder collects measurements into aggregation groups.
type Builder struct {
	metric benchcsv.Metric
	agg    benchagg.Aggregation

	// groups maps each observed GroupKey to the timing values
	// accumulated for it.
	groups map[GroupKey][]float64
}

// NewBuilder returns a Builder that reduces the metric timing column
// with agg. Configuration is fixed for the Builder's lifetime; there
// is no process-wide state.
func NewBuilder(metric benchcsv.Metric, agg benchagg.Aggregation) *Builder {
	return &Builder{
		metric: metric,
		agg:    agg,
		groups: make(map[GroupKey][]float64),
	}
}

// Add accumulates one measurement into its aggregation group. Only
// the grouping fields and the configured timing column are consulted;
// the measurement's other columns are pooled away, not propagated.
func (b *Builder) Add(m *benchcsv.Measurement) {
	key := GroupKey{m.Backend, m.Variant, m.Threads}
	b.groups[key] = append(b.groups[key], b.metric.ValueOf(m))
}

// ToTable reduces every group to one aggregated point, derives
// speedup and efficiency for each (backend, variant) series, and
// scans the finished table for superlinear results.
//
// Every GroupKey observed by Add yields exactly one Point. ToTable
// returns an error only if no measurements were ever added; all other
// conditions surface as Notices on a fully populated Table.
func (b *Builder) ToTable() (*Table, error) {
	if len(b.groups) == 0 {
		return nil, errors.New("no measurements")
	}

	keys := make([]GroupKey, 0, len(b.groups))
	for k := range b.groups {
		keys = append(keys, k)
	}
	sortKeys(keys)

	t := &Table{
		Metric:   b.metric,
		AggLabel: b.agg.Label(),
		Points:   make([]Point, len(keys)),
	}
	for i, k := range keys {
		t.Points[i] = Point{
			GroupKey: k,
			TimeMS:   b.agg.Aggregate(benchagg.NewSample(b.groups[k])),
		}
	}

	t.Notices = derive(t)
	return t, nil
}

// sortKeys sorts keys by backend, then variant, then ascending
// threads. This is the ordering of Table.Points and of all renderings
// of a table.
func sortKeys(keys []GroupKey) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Backend != b.Backend {
			return a.Backend < b.Backend
		}
		if a.Variant != b.Variant {
			return a.Variant < b.Variant
		}
		return a.Threads < b.Threads
	})
}
