// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"golang.org/x/scalebench/benchagg"
	"golang.org/x/scalebench/benchcsv"
	"golang.org/x/scalebench/benchscale"
)

func table(t *testing.T, ms ...*benchcsv.Measurement) *benchscale.Table {
	t.Helper()
	b := benchscale.NewBuilder(benchcsv.MetricTotal, benchagg.Median)
	for _, m := range ms {
		b.Add(m)
	}
	tab, err := b.ToTable()
	if err != nil {
		t.Fatalf("ToTable: %v", err)
	}
	return tab
}

func meas(backend, variant string, threads int, total float64) *benchcsv.Measurement {
	return &benchcsv.Measurement{
		Backend: backend, Variant: variant, Threads: threads,
		N: 1000, Bins: 16, Max: 255, Seed: 42,
		GenMS: 1, HistMS: 2, TotalMS: total,
		SumHist: 1000,
	}
}

// checkPNG decodes file and checks it has a plausible size.
func checkPNG(t *testing.T, file string) {
	t.Helper()
	f, err := os.Open(file)
	if err != nil {
		t.Fatalf("open %s: %v", file, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", file, err)
	}
	if b := img.Bounds(); b.Dx() < 100 || b.Dy() < 100 {
		t.Errorf("%s is only %dx%d", file, b.Dx(), b.Dy())
	}
}

func TestRender(t *testing.T) {
	tab := table(t,
		meas("openmp", "private", 1, 100),
		meas("openmp", "private", 2, 55),
		meas("openmp", "private", 4, 30),
		meas("threads", "mutex", 1, 120),
		meas("threads", "mutex", 2, 80),
	)
	dir := t.TempDir()
	written, err := Render(tab, dir)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := []string{
		"efficiency_vs_threads.png",
		"efficiency_vs_threads_total_ms.png",
		"speedup_vs_threads.png",
		"speedup_vs_threads_total_ms.png",
		"time_vs_threads.png",
		"time_vs_threads_total_ms.png",
	}
	var got []string
	for _, file := range written {
		got = append(got, filepath.Base(file))
	}
	sort.Strings(got)
	if len(got) != len(want) {
		t.Fatalf("Render wrote %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Render wrote %v, want %v", got, want)
		}
	}

	for _, file := range written {
		checkPNG(t, file)
	}
}

func TestRenderCreatesDir(t *testing.T) {
	tab := table(t, meas("seq", "base", 1, 10))
	dir := filepath.Join(t.TempDir(), "results", "charts")
	if _, err := Render(tab, dir); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "time_vs_threads.png")); err != nil {
		t.Errorf("chart missing: %v", err)
	}
}

func TestRenderAllUndefined(t *testing.T) {
	// A zero baseline leaves every ratio undefined; the speedup and
	// efficiency charts must still be written, just with no series.
	tab := table(t,
		meas("openmp", "private", 1, 0),
		meas("openmp", "private", 2, 5),
	)
	dir := t.TempDir()
	written, err := Render(tab, dir)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(written) != 6 {
		t.Fatalf("Render wrote %d files, want 6", len(written))
	}
	checkPNG(t, filepath.Join(dir, "speedup_vs_threads.png"))
	checkPNG(t, filepath.Join(dir, "efficiency_vs_threads.png"))
}
