// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchscale

import (
	"strings"
	"testing"
)

func TestWriteBaseCSV(t *testing.T) {
	tab := buildTable(t,
		meas("openmp", "atomic", 1, 1, 2, 0),
		meas("openmp", "atomic", 2, 1, 2, 5),
		meas("openmp", "private", 1, 1, 2, 12.5),
		meas("openmp", "private", 2, 1, 2, 5),
	)
	want := `backend,variant,threads,time_ms
openmp,atomic,1,0
openmp,atomic,2,5
openmp,private,1,12.5
openmp,private,2,5
`
	var buf strings.Builder
	if err := tab.WriteBaseCSV(&buf); err != nil {
		t.Fatalf("WriteBaseCSV: %v", err)
	}
	if got := buf.String(); got != want {
		t.Errorf("WriteBaseCSV wrote:\n%swant:\n%s", got, want)
	}
}

func TestWriteCSV(t *testing.T) {
	// openmp-atomic has a zero baseline, so its derived cells must
	// be empty, not "NaN" or "0".
	tab := buildTable(t,
		meas("openmp", "atomic", 1, 1, 2, 0),
		meas("openmp", "atomic", 2, 1, 2, 5),
		meas("openmp", "private", 1, 1, 2, 12.5),
		meas("openmp", "private", 2, 1, 2, 5),
	)
	want := `backend,variant,threads,time_ms,speedup,efficiency
openmp,atomic,1,0,,
openmp,atomic,2,5,,
openmp,private,1,12.5,1,1
openmp,private,2,5,2.5,1.25
`
	var buf strings.Builder
	if err := tab.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := buf.String(); got != want {
		t.Errorf("WriteCSV wrote:\n%swant:\n%s", got, want)
	}
}
