package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typemaster/internal/integrity"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progression"
	"github.com/verte-zerg/typemaster/internal/prompt"
)

const xpBarWidth = 30

type palette struct {
	good   func(...any) string
	warn   func(...any) string
	bad    func(...any) string
	accent func(...any) string
	dim    func(...any) string
}

func newPalette(useColor bool) palette {
	if !useColor {
		return palette{good: fmt.Sprint, warn: fmt.Sprint, bad: fmt.Sprint, accent: fmt.Sprint, dim: fmt.Sprint}
	}
	mk := func(attrs ...color.Attribute) func(...any) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintFunc()
	}
	return palette{
		good:   mk(color.FgGreen),
		warn:   mk(color.FgYellow),
		bad:    mk(color.FgRed, color.Bold),
		accent: mk(color.FgCyan, color.Bold),
		dim:    mk(color.FgHiBlack),
	}
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// XPBar renders level progress. Colored bars use the bubbles progress
// gradient.
func XPBar(pct float64, width int, useColor bool) string {
	if width <= 0 {
		width = xpBarWidth
	}
	if useColor {
		bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(width), progress.WithoutPercentage())
		return bar.ViewAs(pct)
	}
	filled := int(pct * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// RenderProfile prints level, streak and derived statistics.
func RenderProfile(w io.Writer, r Report, useColor bool) error {
	p := newPalette(useColor)
	lines := []string{
		fmt.Sprintf("Level %s  %s", p.accent(strconv.Itoa(r.Level)), r.Rank),
		fmt.Sprintf("XP %d/%d %s", r.XP, r.NextLevelXP, XPBar(r.Progress(), xpBarWidth, useColor)),
		fmt.Sprintf("Streak: %d day(s)", r.StreakDays),
		"",
	}

	if r.Tests == 0 {
		lines = append(lines, "No tests recorded yet.")
	} else {
		lines = append(lines,
			fmt.Sprintf("Tests: %d", r.Tests),
			fmt.Sprintf("Best WPM: %.0f", r.BestWPM),
			fmt.Sprintf("Avg WPM: %.2f", r.AvgWPM),
			fmt.Sprintf("Best Accuracy: %.0f%%", r.BestAccuracy),
			fmt.Sprintf("Avg Accuracy: %.2f%%", r.AvgAccuracy),
			fmt.Sprintf("Perfect Runs: %d", r.PerfectRuns),
		)
		if len(r.RecentWPM) > 1 {
			parts := make([]string, len(r.RecentWPM))
			for i, v := range r.RecentWPM {
				parts[i] = strconv.FormatFloat(v, 'f', 0, 64)
			}
			lines = append(lines, "Recent WPM: "+p.dim(strings.Join(parts, " ")))
		}
	}

	daily := p.warn("pending")
	if r.DailyDone {
		daily = p.good("done")
	}
	lines = append(lines,
		"",
		fmt.Sprintf("Achievements: %d/%d", r.Achievements, r.AchievementTotal),
		fmt.Sprintf("Lessons: %d/%d", r.LessonsDone, r.LessonsTotal),
		"Daily challenge: "+daily,
		"Themes: "+strings.Join(r.Themes, ", "),
	)
	if len(r.Features) > 0 {
		lines = append(lines, "Features: "+strings.Join(r.Features, ", "))
	}
	return writeLines(w, lines)
}

// RenderHistory prints recorded tests, newest first.
func RenderHistory(w io.Writer, h progression.History, cfg model.HistoryConfig, useColor bool) error {
	var filtered progression.History
	for _, rec := range h {
		if cfg.Mode != "" && rec.Mode != cfg.Mode {
			continue
		}
		filtered = append(filtered, rec)
	}
	if cfg.Last > 0 {
		filtered = filtered.Last(cfg.Last)
	}
	if len(filtered) == 0 {
		_, err := fmt.Fprintln(w, "No tests found.")
		return err
	}

	p := newPalette(useColor)
	headers := []string{"When", "Mode", "WPM", "Accuracy", "Errors", "Time", "XP", "Result"}
	rows := make([][]string, 0, len(filtered))
	for i := len(filtered) - 1; i >= 0; i-- {
		rec := filtered[i]
		rows = append(rows, []string{
			rec.Timestamp.Local().Format("2006-01-02 15:04"),
			string(rec.Mode),
			fmt.Sprintf("%.0f", rec.WPM),
			fmt.Sprintf("%.0f%%", rec.Accuracy),
			strconv.Itoa(rec.Errors),
			fmt.Sprintf("%.1fs", rec.DurationSec),
			strconv.Itoa(rec.XPEarned),
			resultLabel(rec),
		})
	}
	lines := tableLines(headers, rows, 2, 3, 4, 5, 6)
	if cfg.Width > 0 {
		for i, line := range lines {
			lines[i] = runewidth.Truncate(line, cfg.Width, "…")
		}
	}
	// Color after layout so escape codes do not skew widths.
	for i := 1; i < len(lines); i++ {
		rec := filtered[len(filtered)-i]
		if rec.Mode == model.ModeChallenge && !rec.Passed {
			lines[i] = p.warn(lines[i])
		}
	}
	lines[0] = p.accent(lines[0])
	return writeLines(w, lines)
}

func resultLabel(rec model.TestRecord) string {
	switch rec.Mode {
	case model.ModeTimer:
		if rec.Completed {
			return "completed"
		}
		return "time up"
	case model.ModeChallenge:
		if rec.Passed {
			return fmt.Sprintf("passed %d/%d%%", rec.TargetWPM, rec.TargetAccuracy)
		}
		return fmt.Sprintf("missed %d/%d%%", rec.TargetWPM, rec.TargetAccuracy)
	default:
		if rec.LessonID != "" {
			return "lesson " + rec.LessonID
		}
		return rec.Difficulty
	}
}

// RenderAchievements prints the catalog with lock state.
func RenderAchievements(w io.Writer, state model.ProgressionState, useColor bool) error {
	p := newPalette(useColor)
	catalog := progression.Catalog()
	headers := []string{"", "Achievement", "Description", "XP", "Unlocked"}
	rows := make([][]string, 0, len(catalog))
	unlocked := make([]bool, 0, len(catalog))
	for _, a := range catalog {
		mark, when := " ", ""
		u, ok := state.Achievements[a.ID]
		if ok {
			mark = "*"
			when = u.UnlockedAt.Local().Format("2006-01-02")
		}
		unlocked = append(unlocked, ok)
		rows = append(rows, []string{mark, a.Name, a.Description, strconv.Itoa(a.XP), when})
	}
	lines := tableLines(headers, rows, 3)
	for i := 1; i < len(lines); i++ {
		if unlocked[i-1] {
			lines[i] = p.good(lines[i])
		} else {
			lines[i] = p.dim(lines[i])
		}
	}
	lines = append(lines, "", fmt.Sprintf("%d/%d unlocked", len(state.Achievements), len(catalog)))
	return writeLines(w, lines)
}

// RenderLessons prints the lesson catalog with completion state.
func RenderLessons(w io.Writer, state model.ProgressionState, useColor bool) error {
	p := newPalette(useColor)
	done := make(map[string]bool, len(state.CompletedLessons))
	for _, id := range state.CompletedLessons {
		done[id] = true
	}
	lessons := prompt.Lessons()
	headers := []string{"", "ID", "Title", "Target WPM", "Category"}
	rows := make([][]string, 0, len(lessons))
	for _, l := range lessons {
		mark := " "
		if done[l.ID] {
			mark = "*"
		}
		rows = append(rows, []string{mark, l.ID, l.Title, strconv.Itoa(l.TargetWPM), l.Category})
	}
	lines := tableLines(headers, rows, 3)
	for i := 1; i < len(lines); i++ {
		if done[lessons[i-1].ID] {
			lines[i] = p.good(lines[i])
		}
	}
	return writeLines(w, lines)
}

// RenderVerdict prints an integrity verdict.
func RenderVerdict(w io.Writer, v integrity.Verdict, useColor bool) error {
	p := newPalette(useColor)
	status := p.good("VALID")
	if !v.Valid {
		status = p.bad("INVALID")
	}
	lines := []string{
		fmt.Sprintf("%s: %s", status, v.Reason),
		fmt.Sprintf("Suspicion score: %d", v.Score),
	}
	if v.Rule != integrity.RuleNone {
		lines = append(lines, "Rule: "+string(v.Rule))
	}
	return writeLines(w, lines)
}
