package main

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestReportTableRoundedAndAligned(t *testing.T) {
	tbl := newReportTable(textCol("Album"), numberCol("Tracks"))
	tbl.add("Blue", "2")
	tbl.add("Kind of Blue", "12")
	tbl.caption = "Albums: 2"
	out := tbl.render()

	if !strings.HasPrefix(out, "╭") {
		t.Fatalf("expected rounded table, got %q", out)
	}
	requireContains(t, out, "│ TRACKS │")
	requireContains(t, out, "│      2 │")
	requireContains(t, out, "│     12 │")
	requireContains(t, out, "Albums: 2")
}

func TestReportTablePadsShortRows(t *testing.T) {
	tbl := newReportTable(textCol("A"), textCol("B"))
	tbl.add("1")
	tbl.add("1", "2", "3")
	out := tbl.render()
	requireContains(t, out, "│ 1 │   │")
	if strings.Contains(out, "3") {
		t.Fatalf("extra cell rendered: %q", out)
	}
}

func TestReportTableWrapsPaths(t *testing.T) {
	long := strings.Repeat("Artist Name/Album Title (Deluxe) ", 4)
	tbl := newReportTable(pathCol("Source"))
	tbl.add(long)
	out := tbl.render()
	for _, line := range strings.Split(out, "\n") {
		if n := utf8.RuneCountInString(line); n > pathWidth+4 {
			t.Fatalf("line of %d runes exceeds path width: %q", n, line)
		}
	}
	requireContains(t, out, "Deluxe")
}

func TestReportTableWithoutColumns(t *testing.T) {
	if got := newReportTable().render(); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
}
