// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchscale

import "fmt"

// A NoticeKind classifies a Notice.
type NoticeKind int

const (
	// BaselineFallback reports that a series has no single-thread
	// point, so its smallest thread count was used as the baseline.
	BaselineFallback NoticeKind = iota

	// NonPositiveBaseline reports that a series' baseline time is
	// zero or negative, leaving speedup and efficiency undefined
	// for every point of the series.
	NonPositiveBaseline

	// Superlinear reports a point whose speedup exceeds its thread
	// count. This is physically implausible and usually an
	// artifact of small problem sizes, timer resolution, or
	// virtualization noise.
	Superlinear
)

// A Notice is a structured diagnostic produced while deriving a
// Table. Notices are not errors: the table they accompany is complete,
// and callers choose whether to log, display, or assert on them.
type Notice struct {
	Kind    NoticeKind
	Backend string
	Variant string

	// Threads is the substituted baseline thread count for
	// BaselineFallback notices and the affected point's thread
	// count for Superlinear notices. It is zero for
	// NonPositiveBaseline notices.
	Threads int

	// Value is the offending baseline time for NonPositiveBaseline
	// notices and the speedup for Superlinear notices. It is zero
	// for BaselineFallback notices.
	Value float64
}

func (n Notice) String() string {
	switch n.Kind {
	case BaselineFallback:
		return fmt.Sprintf("%s-%s: no single-thread point; using threads=%d as baseline", n.Backend, n.Variant, n.Threads)
	case NonPositiveBaseline:
		return fmt.Sprintf("%s-%s: non-positive baseline time (%v); speedup and efficiency undefined", n.Backend, n.Variant, n.Value)
	case Superlinear:
		return fmt.Sprintf("%s-%s @ %d threads: superlinear speedup=%.2f", n.Backend, n.Variant, n.Threads, n.Value)
	}
	return fmt.Sprintf("unknown notice kind %d", n.Kind)
}
