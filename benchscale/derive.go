// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchscale

import (
	"runtime"
	"sync"
)

// derive computes speedup and efficiency for every series in t and
// returns the notices produced. On return every Point in t.Points has
// its Speedup, Efficiency, and RefThreads fields set.
//
// Notices are ordered by series in table order; within a series a
// baseline fallback precedes a degenerate baseline. Superlinear
// notices follow all per-series notices, in point order.
func derive(t *Table) []Notice {
	series := t.Series()

	// Derive each series in parallel. Each goroutine writes only
	// its own sub-slice of t.Points and its own notices slot, so
	// no locking is needed, but all of them must finish before the
	// superlinear scan reads the table.
	notices := make([][]Notice, len(series))
	limit := make(chan struct{}, 2*runtime.GOMAXPROCS(-1))
	var wg sync.WaitGroup
	wg.Add(len(series))
	for i, s := range series {
		limit <- struct{}{}
		i, s := i, s
		go func() {
			notices[i] = deriveSeries(s.Points)
			<-limit
			wg.Done()
		}()
	}
	wg.Wait()

	var out []Notice
	for _, ns := range notices {
		out = append(out, ns...)
	}
	out = append(out, superlinear(t.Points)...)
	return out
}

// deriveSeries fills in the derived fields of one series. points must
// be sorted by ascending threads and non-empty.
//
// The baseline is the series' single-thread point if it has one, and
// otherwise its smallest-thread point, which produces a fallback
// notice. A baseline time that is not positive leaves every ratio in
// the series undefined.
func deriveSeries(points []Point) []Notice {
	var notices []Notice

	base := points[0]
	for i := range points {
		points[i].RefThreads = base.Threads
	}
	if base.Threads != 1 {
		notices = append(notices, Notice{
			Kind:    BaselineFallback,
			Backend: base.Backend,
			Variant: base.Variant,
			Threads: base.Threads,
		})
	}

	tref := base.TimeMS
	if tref <= 0 {
		notices = append(notices, Notice{
			Kind:    NonPositiveBaseline,
			Backend: base.Backend,
			Variant: base.Variant,
			Value:   tref,
		})
		return notices
	}

	for i := range points {
		p := &points[i]
		speedup := tref / p.TimeMS
		p.Speedup = Ratio{speedup, true}
		p.Efficiency = Ratio{speedup / float64(p.Threads), true}
	}
	return notices
}

// superlinear scans a finished table for points whose speedup exceeds
// their thread count. This runs over the whole table, not per series,
// so it sees fallback baselines and undefined ratios uniformly: an
// undefined speedup is never superlinear.
func superlinear(points []Point) []Notice {
	var notices []Notice
	for i := range points {
		p := &points[i]
		if !p.Speedup.Defined || p.Speedup.Value <= float64(p.Threads) {
			continue
		}
		notices = append(notices, Notice{
			Kind:    Superlinear,
			Backend: p.Backend,
			Variant: p.Variant,
			Threads: p.Threads,
			Value:   p.Speedup.Value,
		})
	}
	return notices
}
