// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchscale

import (
	"bytes"
	"fmt"
	"html/template"
)

var htmlTemplate = template.Must(template.New("").Funcs(template.FuncMap{
	"ratio": func(r Ratio) string {
		if !r.Defined {
			return ""
		}
		return fmt.Sprintf("%.2f", r.Value)
	},
}).Parse(`
<table class='benchscale'>
<tr><th>backend<th>variant<th>threads<th>{{.TimeLabel}}<th>speedup<th>efficiency
{{range .Points -}}
<tr><td>{{.Backend}}<td>{{.Variant}}<td>{{.Threads}}<td>{{printf "%.6g" .TimeMS}}<td>{{ratio .Speedup}}<td>{{ratio .Efficiency}}
{{end -}}
</table>
`))

// FormatHTML appends an HTML formatting of the table to buf.
// Undefined speedup and efficiency values render as empty cells.
func FormatHTML(buf *bytes.Buffer, t *Table) {
	err := htmlTemplate.Execute(buf, t)
	if err != nil {
		// Only possible errors here are template not matching data structure.
		// Don't make caller check - it's our fault.
		panic(err)
	}
}
