// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchscale

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteBaseCSV writes the aggregated table to w in CSV format, without
// the derived columns:
//
//	backend,variant,threads,time_ms
//
// Rows appear in table order. Times are written in their shortest
// round-trip form.
func (t *Table) WriteBaseCSV(w io.Writer) error {
	o := csv.NewWriter(w)
	o.Write([]string{"backend", "variant", "threads", "time_ms"})
	for i := range t.Points {
		p := &t.Points[i]
		o.Write([]string{p.Backend, p.Variant, strconv.Itoa(p.Threads), formatFloat(p.TimeMS)})
	}
	o.Flush()
	return o.Error()
}

// WriteCSV writes the extended table to w in CSV format:
//
//	backend,variant,threads,time_ms,speedup,efficiency
//
// Rows appear in table order. Undefined speedup and efficiency values
// are written as empty cells, so consumers cannot mistake them for
// numbers.
func (t *Table) WriteCSV(w io.Writer) error {
	o := csv.NewWriter(w)
	o.Write([]string{"backend", "variant", "threads", "time_ms", "speedup", "efficiency"})
	for i := range t.Points {
		p := &t.Points[i]
		o.Write([]string{
			p.Backend,
			p.Variant,
			strconv.Itoa(p.Threads),
			formatFloat(p.TimeMS),
			formatRatioCSV(p.Speedup),
			formatRatioCSV(p.Efficiency),
		})
	}
	o.Flush()
	return o.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatRatioCSV(r Ratio) string {
	if !r.Defined {
		return ""
	}
	return formatFloat(r.Value)
}
