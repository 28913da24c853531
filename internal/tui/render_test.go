package tui

import (
	"strings"
	"testing"
)

func TestBuildCellsCursor(t *testing.T) {
	cells := buildCells([]rune("ab"), []rune("a"), 1, false)
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	if cells[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if cells[1].s != currentWordStyle.Underline(true).Render("b") {
		t.Fatalf("expected underlined cursor on second rune")
	}
}

func TestBuildCellsKeepsTargetOnMistype(t *testing.T) {
	cells := buildCells([]rune("ab"), []rune("ax"), -1, false)
	if cells[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style showing the target rune")
	}
}

func TestBuildCellsWordHighlighting(t *testing.T) {
	cells := buildCells([]rune("one two"), []rune("o"), 1, false)
	if cells[2].s != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style inside current word")
	}
	if cells[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildCellsFlaggedWord(t *testing.T) {
	cells := buildCells([]rune("one two"), []rune("o"), 1, true)
	if cells[2].s != flaggedStyle.Render("e") {
		t.Fatalf("expected flagged style inside current word")
	}
}

func TestBuildCellsMissedSpace(t *testing.T) {
	cells := buildCells([]rune("a b"), []rune("ax"), 2, false)
	if cells[1].s != incorrectStyle.Render(string(missedSpace)) {
		t.Fatalf("expected marker for missed space")
	}
	if !cells[1].isSpace {
		t.Fatalf("missed space should still break lines")
	}
}

func TestWordAt(t *testing.T) {
	target := []rune("ab  cd")
	tests := []struct {
		cursor int
		want   span
	}{
		{-1, span{0, 2}},
		{1, span{0, 2}},
		{2, span{4, 6}},
		{5, span{4, 6}},
		{9, span{4, 6}},
	}
	for _, tc := range tests {
		got, ok := wordAt(target, tc.cursor)
		if !ok || got != tc.want {
			t.Fatalf("wordAt(%d) = %v, want %v", tc.cursor, got, tc.want)
		}
	}
	if _, ok := wordAt([]rune("   "), 0); ok {
		t.Fatalf("expected no word in blank text")
	}
}

func plainCells(s string) []cell {
	cells := make([]cell, 0, len(s))
	for _, r := range s {
		cells = append(cells, cell{s: string(r), width: 1, isSpace: r == ' '})
	}
	return cells
}

func TestWrapCellsBreaksAtSpaces(t *testing.T) {
	got := wrapCells(plainCells("the quick brown fox"), 10)
	want := []string{"the quick", "brown fox"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("wrap = %q, want %q", got, want)
	}
}

func TestWrapCellsHardBreak(t *testing.T) {
	got := wrapCells(plainCells("abcdefgh"), 3)
	want := []string{"abc", "def", "gh"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("wrap = %q, want %q", got, want)
	}
}

func TestWrapCellsWideRunes(t *testing.T) {
	cells := []cell{{s: "日", width: 2}, {s: "本", width: 2}, {s: " ", width: 1, isSpace: true}, {s: "語", width: 2}}
	got := wrapCells(cells, 4)
	if len(got) != 2 || got[0] != "日本" || got[1] != "語" {
		t.Fatalf("unexpected wide wrap: %q", got)
	}
}

func TestWrapCellsZeroWidth(t *testing.T) {
	got := wrapCells(plainCells("ab cd"), 0)
	if len(got) != 1 || got[0] != "ab cd" {
		t.Fatalf("unexpected output: %q", got)
	}
}
