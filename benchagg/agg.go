// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import "github.com/aclements/go-moremath/stats"

// An Aggregation reduces a Sample to a single central value.
type Aggregation interface {
	// Label returns the string name of this reduction, such as
	// "median" or "mean".
	Label() string

	// Aggregate returns the central value of Sample s. The result
	// depends only on the multiset of values in s, never on the
	// order they were collected in. It is NaN if s is empty.
	Aggregate(s *Sample) float64
}

// Median reduces a sample to the value splitting its lower and upper
// halves, interpolating between the two middle values when the sample
// size is even.
var Median = median{}

type median struct{}

var _ Aggregation = median{}

func (median) Label() string {
	return "median"
}

func (median) Aggregate(s *Sample) float64 {
	return s.sample().Quantile(0.5)
}

// Mean reduces a sample to its arithmetic mean.
var Mean = mean{}

type mean struct{}

var _ Aggregation = mean{}

func (mean) Label() string {
	return "mean"
}

func (mean) Aggregate(s *Sample) float64 {
	return stats.Mean(s.Values)
}
