// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchscale

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/scalebench/internal/texttab"
)

// ToText renders t to a textual representation, assuming a
// fixed-width font. The time column header names the reduction and the
// timing column that produced it, such as "median(total_ms)".
// Undefined speedup and efficiency values render as "?".
func (t *Table) ToText(w io.Writer) error {
	num := []texttab.CellOption{texttab.Right, texttab.LeftMargin("  ")}

	var o texttab.Table
	o.Row().
		Cell("backend").
		Cell("variant").
		Cell("threads", num...).
		Cell(t.TimeLabel(), num...).
		Cell("speedup", num...).
		Cell("efficiency", num...)
	for i := range t.Points {
		p := &t.Points[i]
		o.Row().
			Cell(p.Backend).
			Cell(p.Variant).
			Cell(strconv.Itoa(p.Threads), num...).
			Cell(fmt.Sprintf("%.6g", p.TimeMS), num...).
			Cell(formatRatioText(p.Speedup), num...).
			Cell(formatRatioText(p.Efficiency), num...)
	}
	return o.Format(w)
}

// TimeLabel returns the header label of the table's time column,
// naming both the reduction and the timing column, such as
// "median(total_ms)".
func (t *Table) TimeLabel() string {
	return t.AggLabel + "(" + t.Metric.String() + ")"
}

func formatRatioText(r Ratio) string {
	if !r.Defined {
		return "?"
	}
	return fmt.Sprintf("%.2f", r.Value)
}
