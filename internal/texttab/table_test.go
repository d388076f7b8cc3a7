// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texttab

import (
	"strings"
	"testing"
)

func TestAlign(t *testing.T) {
	check := func(s string, a align, w int, want string) {
		t.Helper()
		got := a.lpad(s, w)
		if got != want {
			t.Errorf("want %q, got %q", want, got)
		}
	}

	check("abc", alignLeft, 10, "abc")
	check("abc", alignRight, 10, "       abc")
	check("☃", alignRight, 4, "   ☃")
}

func TestTable(t *testing.T) {
	var tab Table
	check := func(want string) {
		t.Helper()
		var gotBuf strings.Builder
		tab.Format(&gotBuf)
		got := gotBuf.String()
		if want != got {
			t.Errorf("want:\n%sgot:\n%s", want, got)
		}
		// Reset tab.
		tab = Table{}
	}

	// Basic test.
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("d").Cell("e").Cell("f")
	check("a b c\nd e f\n")

	// Basic cell padding. Also checks that we don't print
	// unnecessary spaces at the ends of lines.
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("long").Cell("e").Cell("long")
	check("a    b c\nlong e long\n")

	// Cell alignment.
	tab.Row().Cell("a", Left).Cell("b", Right)
	tab.Row().Cell("xxx").Cell("xxx")
	check("a     b\nxxx xxx\n")

	// Margins.
	tab.Row().Cell("a").Cell("b", LeftMargin("  "))
	tab.Row().Cell("c").Cell("d")
	tab.Row().Cell("e").Cell("f", LeftMargin("|"))
	check("a  b\nc  d\ne |f\n")

	// Missing cells at the end.
	tab.Row().Cell("a")
	tab.Row().Cell("d").Cell("e").Cell("f")
	check("a\nd e f\n")

	// Blank rows.
	tab.Row().Cell("a")
	tab.Row()
	tab.Row()
	tab.Row().Cell("b")
	check("a\n\n\nb\n")

	// Empty cells don't leave trailing spaces.
	tab.Row().Cell("a").Cell("")
	tab.Row().Cell("bbb").Cell("c")
	check("a\nbbb c\n")
}
