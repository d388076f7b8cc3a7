// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchscale

import (
	"strings"
	"testing"
)

func TestToText(t *testing.T) {
	tab := buildTable(t,
		meas("openmp", "atomic", 1, 1, 2, 0),
		meas("openmp", "atomic", 2, 1, 2, 5),
		meas("openmp", "private", 1, 1, 2, 100),
		meas("openmp", "private", 2, 1, 2, 50),
	)
	var buf strings.Builder
	if err := tab.ToText(&buf); err != nil {
		t.Fatalf("ToText: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), buf.String())
	}

	// Every header cell is the widest value in its column here, so
	// the header layout is exact: single-space margin after the
	// left-most column, two-space margins before numeric columns.
	wantHeader := "backend variant  threads  median(total_ms)  speedup  efficiency"
	if lines[0] != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}

	wantRows := [][]string{
		{"openmp", "atomic", "1", "0", "?", "?"},
		{"openmp", "atomic", "2", "5", "?", "?"},
		{"openmp", "private", "1", "100", "1.00", "1.00"},
		{"openmp", "private", "2", "50", "2.00", "1.00"},
	}
	for i, want := range wantRows {
		got := strings.Fields(lines[i+1])
		if len(got) != len(want) {
			t.Errorf("row %d = %q, want fields %v", i, lines[i+1], want)
			continue
		}
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("row %d field %d = %q, want %q", i, j, got[j], want[j])
			}
		}
	}

	// Numeric columns are right-aligned: within a column, every
	// value ends at the same offset as the header cell.
	headerEnds := []int{
		strings.Index(lines[0], "threads") + len("threads"),
		strings.Index(lines[0], "median(total_ms)") + len("median(total_ms)"),
		strings.Index(lines[0], "speedup") + len("speedup"),
		strings.Index(lines[0], "efficiency") + len("efficiency"),
	}
	for i, line := range lines[1:] {
		fields := strings.Fields(line)
		off := 0
		var ends []int
		for _, f := range fields {
			idx := strings.Index(line[off:], f) + off
			off = idx + len(f)
			ends = append(ends, off)
		}
		// Fields 2..5 are threads, time, speedup, efficiency.
		for j, wantEnd := range headerEnds {
			if ends[j+2] != wantEnd {
				t.Errorf("row %d column %d ends at %d, want %d:\n%s", i, j+2, ends[j+2], wantEnd, buf.String())
			}
		}
	}
}

func TestTimeLabel(t *testing.T) {
	tab := buildTable(t, meas("seq", "base", 1, 1, 2, 10))
	if got, want := tab.TimeLabel(), "median(total_ms)"; got != want {
		t.Errorf("TimeLabel() = %q, want %q", got, want)
	}
}
