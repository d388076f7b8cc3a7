// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchchart renders scaling tables as line charts.
package benchchart

import (
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"golang.org/x/scalebench/benchscale"
)

// Render writes the scaling charts for table t into dir, creating it
// if necessary, and returns the paths written.
//
// It renders time, speedup, and efficiency against thread count, one
// labeled line per (backend, variant) series, writing each chart both
// under a fixed name and under a name that includes the plotted
// timing column. Series whose values are entirely undefined are left
// off the speedup and efficiency charts; if that leaves a chart empty
// it is still written, with axes and title only.
func Render(t *benchscale.Table, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, err
	}

	charts := []struct {
		kind   string
		title  string
		yLabel string
		y      func(p *benchscale.Point) (float64, bool)
	}{
		{"time", "Time vs threads", "Time (ms)",
			func(p *benchscale.Point) (float64, bool) { return p.TimeMS, true }},
		{"speedup", "Speedup vs threads", "Speedup (Tref/Tn)",
			func(p *benchscale.Point) (float64, bool) { return p.Speedup.Value, p.Speedup.Defined }},
		{"efficiency", "Efficiency vs threads", "Efficiency (speedup/n)",
			func(p *benchscale.Point) (float64, bool) { return p.Efficiency.Value, p.Efficiency.Defined }},
	}

	var written []string
	for _, c := range charts {
		pl, err := lineChart(t, c.title, c.yLabel, c.y)
		if err != nil {
			return written, err
		}
		// Write each chart under its plain name and again under a
		// name that records which timing column was plotted.
		names := []string{
			c.kind + "_vs_threads.png",
			c.kind + "_vs_threads_" + t.Metric.String() + ".png",
		}
		for _, name := range names {
			file := filepath.Join(dir, name)
			if err := writePNG(pl, file); err != nil {
				return written, err
			}
			written = append(written, file)
		}
	}
	return written, nil
}

// lineChart builds one chart of y over thread count, one line per
// series. Points where y reports false are dropped; a series with no
// plottable points at all is omitted from the chart and its legend.
func lineChart(t *benchscale.Table, title, yLabel string, y func(*benchscale.Point) (float64, bool)) (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "Threads"
	pl.Y.Label.Text = yLabel
	pl.Legend.Top = true
	pl.Add(plotter.NewGrid())

	for i, s := range t.Series() {
		var xys plotter.XYs
		for j := range s.Points {
			p := &s.Points[j]
			v, ok := y(p)
			if !ok {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(p.Threads), Y: v})
		}
		if len(xys) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, err
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		pl.Add(line, points)
		pl.Legend.Add(s.Backend+"-"+s.Variant, line, points)
	}
	return pl, nil
}

func writePNG(pl *plot.Plot, file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	can := vgimg.PngCanvas{Canvas: vgimg.NewWith(
		vgimg.UseWH(16*vg.Centimeter, 12*vg.Centimeter),
		vgimg.UseDPI(96),
		vgimg.UseBackgroundColor(color.White))}
	pl.Draw(draw.New(can))
	if _, err := can.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
