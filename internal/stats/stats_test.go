package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typemaster/internal/integrity"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progression"
)

func TestMetrics(t *testing.T) {
	tests := []struct {
		name    string
		typed   int
		errors  int
		elapsed time.Duration
		wpm     float64
		acc     float64
	}{
		{name: "one minute", typed: 250, errors: 5, elapsed: time.Minute, wpm: 50, acc: 98},
		{name: "half minute", typed: 100, errors: 0, elapsed: 30 * time.Second, wpm: 40, acc: 100},
		{name: "rounding", typed: 53, errors: 1, elapsed: time.Minute, wpm: 11, acc: 98},
		{name: "nothing typed", typed: 0, errors: 0, elapsed: time.Minute, wpm: 0, acc: 100},
		{name: "zero time", typed: 10, errors: 1, elapsed: 0, wpm: 0, acc: 90},
		{name: "clamped", typed: 4, errors: 9, elapsed: time.Minute, wpm: 1, acc: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wpm, acc := Metrics(tt.typed, tt.errors, tt.elapsed)
			if wpm != tt.wpm || acc != tt.acc {
				t.Fatalf("Metrics = (%.0f, %.0f), want (%.0f, %.0f)", wpm, acc, tt.wpm, tt.acc)
			}
		})
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %.2f want %.2f", i, got[i], want[i])
		}
	}
}

func TestXPBarPlain(t *testing.T) {
	if got := XPBar(0.5, 10, false); got != "[#####-----]" {
		t.Fatalf("unexpected bar: %q", got)
	}
	if got := XPBar(2, 4, false); got != "[####]" {
		t.Fatalf("unexpected clamped bar: %q", got)
	}
}

func TestRenderHistory(t *testing.T) {
	ts := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	h := progression.History{
		{Mode: model.ModeNormal, WPM: 42, Accuracy: 97, Difficulty: "easy", Timestamp: ts},
		{Mode: model.ModeChallenge, WPM: 55, Accuracy: 95, Passed: true, TargetWPM: 50, TargetAccuracy: 92, Timestamp: ts.Add(time.Minute)},
		{Mode: model.ModeTimer, WPM: 61, Accuracy: 99, Completed: true, Timestamp: ts.Add(2 * time.Minute)},
	}

	var buf bytes.Buffer
	if err := RenderHistory(&buf, h, model.HistoryConfig{Last: 2}, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "timer") || !strings.Contains(lines[1], "completed") {
		t.Fatalf("newest row should be first: %q", lines[1])
	}
	if !strings.Contains(lines[2], "passed 50/92%") {
		t.Fatalf("unexpected challenge row: %q", lines[2])
	}
}

func TestRenderHistoryTruncatesToWidth(t *testing.T) {
	ts := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	h := progression.History{
		{Mode: model.ModeChallenge, WPM: 55, Accuracy: 95, TargetWPM: 50, TargetAccuracy: 92, Timestamp: ts},
	}
	var buf bytes.Buffer
	if err := RenderHistory(&buf, h, model.HistoryConfig{Width: 30}, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if w := runewidth.StringWidth(line); w > 30 {
			t.Fatalf("line wider than 30 columns (%d): %q", w, line)
		}
		if !strings.HasSuffix(line, "…") {
			t.Fatalf("expected truncation marker: %q", line)
		}
	}
}

func TestTerminalWidthNonTerminal(t *testing.T) {
	if w := TerminalWidth(&bytes.Buffer{}); w != 0 {
		t.Fatalf("expected 0 for a buffer, got %d", w)
	}
}

func TestRenderHistoryFilterAndEmpty(t *testing.T) {
	h := progression.History{{Mode: model.ModeNormal, WPM: 42}}
	var buf bytes.Buffer
	if err := RenderHistory(&buf, h, model.HistoryConfig{Mode: model.ModeTimer}, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No tests found." {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestRenderAchievements(t *testing.T) {
	state := model.ProgressionState{Achievements: map[string]model.AchievementUnlock{
		"first_test": {UnlockedAt: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC), XPReward: 50},
	}}
	var buf bytes.Buffer
	if err := RenderAchievements(&buf, state, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "* First Test") {
		t.Fatalf("expected unlocked marker, got:\n%s", out)
	}
	if !strings.Contains(out, "1/21 unlocked") {
		t.Fatalf("expected unlock count, got:\n%s", out)
	}
}

func TestRenderLessons(t *testing.T) {
	state := model.ProgressionState{CompletedLessons: []string{"home1"}}
	var buf bytes.Buffer
	if err := RenderLessons(&buf, state, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 14 {
		t.Fatalf("expected 14 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "* home1") {
		t.Fatalf("expected home1 completed: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "  home2") {
		t.Fatalf("expected home2 open: %q", lines[2])
	}
}

func TestRenderProfile(t *testing.T) {
	var buf bytes.Buffer
	r := Report{Level: 3, Rank: "Beginner", XP: 100, NextLevelXP: 800, StreakDays: 2, Themes: []string{"midnight"}, AchievementTotal: 21, LessonsTotal: 13}
	if err := RenderProfile(&buf, r, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Level 3  Beginner", "XP 100/800", "Streak: 2 day(s)", "No tests recorded yet.", "Daily challenge: pending"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderVerdict(t *testing.T) {
	var buf bytes.Buffer
	v := integrity.Verdict{Valid: false, Rule: integrity.RuleCopyPaste, Reason: "copy-paste detected", Score: 50}
	if err := RenderVerdict(&buf, v, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "INVALID: copy-paste detected") {
		t.Fatalf("unexpected verdict output: %q", buf.String())
	}
}
