// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchagg provides the reductions used to collapse repeated
// benchmark measurements into a single central value.
//
// This package is deliberately small. It doesn't provide confidence
// intervals or significance tests; scaling analysis summarizes each
// configuration to one number and derives ratios from those.
package benchagg

import (
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// A Sample is a set of repeated measurements of a single benchmark
// configuration.
type Sample struct {
	// Values are the measured values, in ascending order.
	Values []float64
}

// NewSample constructs a Sample from a set of measurements.
// It sorts values in place for fast order statistics.
func NewSample(values []float64) *Sample {
	sort.Float64s(values)
	return &Sample{values}
}

func (s *Sample) sample() stats.Sample {
	return stats.Sample{Xs: s.Values, Sorted: true}
}
