// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab does layout of simple text-based tables.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables. Cells are added a row at a
// time; Format computes column widths over all rows and writes the
// aligned result.
//
// Its methods return the Table so callers can chain them to build up
// many cells at once.
type Table struct {
	cells []textCell
	cols  int

	curRow, curCol int
}

type textCell struct {
	row, col   int
	value      string
	leftMargin string
	alignment  align
}

type CellOption func(c *textCell)

// LeftMargin sets the text that separates a cell from the column to
// its left. The default is a single space, or nothing for the
// left-most column and for empty cells.
func LeftMargin(x string) CellOption {
	return func(c *textCell) {
		c.leftMargin = x
	}
}

var (
	Left  CellOption = func(c *textCell) { c.alignment = alignLeft }
	Right            = func(c *textCell) { c.alignment = alignRight }
)

type align int

const (
	alignLeft align = iota
	alignRight
)

func (a align) lpad(s string, w int) string {
	if a == alignRight {
		return fmt.Sprintf("%*s", w, s)
	}
	return s
}

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	if len(t.cells) > 0 {
		t.curRow++
	}
	t.curCol = 0
	return t
}

// Cell adds a cell at the current row and column.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	lMargin := " "
	if t.curCol == 0 || len(value) == 0 {
		// For the left-most column or empty cells, we default
		// to no left margin.
		lMargin = ""
	}
	t.cells = append(t.cells, textCell{t.curRow, t.curCol, value, lMargin, alignLeft})
	for _, o := range opts {
		o(&t.cells[len(t.cells)-1])
	}

	t.curCol++
	if t.curCol > t.cols {
		t.cols = t.curCol
	}

	return t
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Format lays out table t and writes it to w.
func (t *Table) Format(w io.Writer) error {
	// Collect max length margin for each column.
	lmargin := make([]int, t.cols)
	for _, cell := range t.cells {
		lmargin[cell.col] = max(utf8.RuneCountInString(cell.leftMargin), lmargin[cell.col])
	}

	// Compute column widths, including their left margins.
	ws := make([]int, t.cols)
	for _, cell := range t.cells {
		w := utf8.RuneCountInString(cell.value) + lmargin[cell.col]
		ws[cell.col] = max(ws[cell.col], w)
	}

	// Convert column widths into starting offsets. The offset of
	// column i is where i's left margin begins. The slice
	// includes a final offset for the width of the table.
	offs := make([]int, t.cols+1)
	off := 0
	for i, w := range ws {
		offs[i] = off
		off += w
	}
	offs[len(ws)] = off

	// Format the table. Cells are already in top-to-bottom
	// left-to-right order because Row and Cell only move forward.
	row, off := 0, 0
	for _, cell := range t.cells {
		if strings.TrimSpace(cell.value) == "" && strings.TrimSpace(cell.leftMargin) == "" {
			// Skip empty cells. This avoids printing
			// unnecessary trailing spaces if cells appear
			// at the end of a row.
			continue
		}

		// Get to cell's row.
		for cell.row > row {
			if _, err := fmt.Fprintf(w, "\n"); err != nil {
				return err
			}
			row++
			off = 0
		}

		// Space to the cell's starting offset and print its
		// left margin.
		spaces := offs[cell.col] - off
		if _, err := fmt.Fprintf(w, "%*s%*s", spaces, "", lmargin[cell.col], cell.leftMargin); err != nil {
			return err
		}
		off += spaces + lmargin[cell.col]

		// Compute the cell width, excluding the margin we just
		// printed.
		tw := offs[cell.col+1] - offs[cell.col] - lmargin[cell.col]

		// Print cell contents.
		s := cell.alignment.lpad(cell.value, tw)
		if _, err := fmt.Fprintf(w, "%s", s); err != nil {
			return err
		}
		off += utf8.RuneCountInString(s)
	}
	if len(t.cells) > 0 {
		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}
