// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchscale

import (
	"bytes"
	"testing"
)

func TestFormatHTML(t *testing.T) {
	tab := buildTable(t,
		meas("openmp", "atomic", 1, 1, 2, 0),
		meas("openmp", "atomic", 2, 1, 2, 5),
		meas("openmp", "private", 1, 1, 2, 100),
		meas("openmp", "private", 2, 1, 2, 50),
	)
	want := `
<table class='benchscale'>
<tr><th>backend<th>variant<th>threads<th>median(total_ms)<th>speedup<th>efficiency
<tr><td>openmp<td>atomic<td>1<td>0<td><td>
<tr><td>openmp<td>atomic<td>2<td>5<td><td>
<tr><td>openmp<td>private<td>1<td>100<td>1.00<td>1.00
<tr><td>openmp<td>private<td>2<td>50<td>2.00<td>1.00
</table>
`
	var buf bytes.Buffer
	FormatHTML(&buf, tab)
	if got := buf.String(); got != want {
		t.Errorf("FormatHTML wrote:\n%swant:\n%s", got, want)
	}
}
