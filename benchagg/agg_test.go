// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"math"
	"reflect"
	"testing"
)

func TestMedian(t *testing.T) {
	for _, test := range []struct {
		values []float64
		want   float64
	}{
		{[]float64{5}, 5},
		{[]float64{1, 2}, 1.5},
		{[]float64{50, 60, 100}, 60},
		{[]float64{1, 2, 3, 4}, 2.5},
		// Order must not matter.
		{[]float64{100, 50, 60}, 60},
	} {
		got := Median.Aggregate(NewSample(test.values))
		if got != test.want {
			t.Errorf("median%v = %v, want %v", test.values, got, test.want)
		}
	}
}

func TestMean(t *testing.T) {
	for _, test := range []struct {
		values []float64
		want   float64
	}{
		{[]float64{5}, 5},
		{[]float64{1, 2, 3}, 2},
		{[]float64{30, 31, 35}, 32},
	} {
		got := Mean.Aggregate(NewSample(test.values))
		if got != test.want {
			t.Errorf("mean%v = %v, want %v", test.values, got, test.want)
		}
	}
}

func TestEmptySample(t *testing.T) {
	for _, agg := range []Aggregation{Median, Mean} {
		if got := agg.Aggregate(NewSample(nil)); !math.IsNaN(got) {
			t.Errorf("%s of empty sample = %v, want NaN", agg.Label(), got)
		}
	}
}

func TestLabels(t *testing.T) {
	if got := Median.Label(); got != "median" {
		t.Errorf("Median.Label() = %q, want %q", got, "median")
	}
	if got := Mean.Label(); got != "mean" {
		t.Errorf("Mean.Label() = %q, want %q", got, "mean")
	}
}

func TestNewSampleSorts(t *testing.T) {
	s := NewSample([]float64{3, 1, 2})
	if want := []float64{1, 2, 3}; !reflect.DeepEqual(s.Values, want) {
		t.Errorf("NewSample left values %v, want %v", s.Values, want)
	}
}
