package progression

import "github.com/verte-zerg/typemaster/internal/model"

// RuleKind tags the predicate an achievement is unlocked by.
type RuleKind int

// Rule kinds.
const (
	RuleTestCount RuleKind = iota
	RuleBestWPM
	RuleBestAccuracy
	RuleStreak
	RuleLessons
	RuleDailyChallenge
	RulePerfectRuns
	RuleLevel
	RuleZeroErrorTests
	RuleTestsAboveWPM
)

// Rule is a tagged, side-effect free unlock predicate.
type Rule struct {
	Kind RuleKind
	// Min is the count or value that must be reached.
	Min float64
	// WPM is the per-test speed used by RuleTestsAboveWPM.
	WPM float64
}

// Snapshot is the read-only view achievement rules are evaluated against.
type Snapshot struct {
	State   model.ProgressionState
	History History
}

// Met reports whether the rule holds for the snapshot.
func (r Rule) Met(s Snapshot) bool {
	switch r.Kind {
	case RuleTestCount:
		return float64(s.History.Count()) >= r.Min
	case RuleBestWPM:
		return s.History.BestWPM() >= r.Min
	case RuleBestAccuracy:
		return s.History.BestAccuracy() >= r.Min
	case RuleStreak:
		return float64(s.State.StreakDays) >= r.Min
	case RuleLessons:
		return float64(len(s.State.CompletedLessons)) >= r.Min
	case RuleDailyChallenge:
		return s.State.DailyChallengeCompleted
	case RulePerfectRuns:
		return float64(s.History.PerfectRuns()) >= r.Min
	case RuleLevel:
		return float64(s.State.Level) >= r.Min
	case RuleZeroErrorTests:
		return float64(s.History.ZeroErrorTests()) >= r.Min
	case RuleTestsAboveWPM:
		return float64(s.History.TestsAtOrAboveWPM(r.WPM)) >= r.Min
	default:
		return false
	}
}

// Achievement is a catalog entry. IDs are stable; stored progress refers to
// them.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Rule        Rule
	XP          int
}

var catalog = []Achievement{
	{ID: "first_test", Name: "First Test", Description: "Complete your first typing test", Icon: "flag", Rule: Rule{Kind: RuleTestCount, Min: 1}, XP: 50},
	{ID: "speed_50", Name: "Speed Demon I", Description: "Achieve 50 WPM", Icon: "gauge", Rule: Rule{Kind: RuleBestWPM, Min: 50}, XP: 100},
	{ID: "speed_75", Name: "Speed Demon II", Description: "Achieve 75 WPM", Icon: "gauge", Rule: Rule{Kind: RuleBestWPM, Min: 75}, XP: 150},
	{ID: "speed_100", Name: "Speed Master", Description: "Achieve 100 WPM", Icon: "gauge-high", Rule: Rule{Kind: RuleBestWPM, Min: 100}, XP: 200},
	{ID: "accuracy_95", Name: "Precision I", Description: "Achieve 95% accuracy", Icon: "bullseye", Rule: Rule{Kind: RuleBestAccuracy, Min: 95}, XP: 100},
	{ID: "accuracy_99", Name: "Precision II", Description: "Achieve 99% accuracy", Icon: "bullseye", Rule: Rule{Kind: RuleBestAccuracy, Min: 99}, XP: 150},
	{ID: "streak_3", Name: "Consistent I", Description: "3-day streak", Icon: "calendar", Rule: Rule{Kind: RuleStreak, Min: 3}, XP: 50},
	{ID: "streak_7", Name: "Consistent II", Description: "7-day streak", Icon: "calendar", Rule: Rule{Kind: RuleStreak, Min: 7}, XP: 100},
	{ID: "streak_30", Name: "Dedicated", Description: "30-day streak", Icon: "calendar", Rule: Rule{Kind: RuleStreak, Min: 30}, XP: 500},
	{ID: "tests_10", Name: "Practiced", Description: "Complete 10 tests", Icon: "keyboard", Rule: Rule{Kind: RuleTestCount, Min: 10}, XP: 100},
	{ID: "tests_50", Name: "Experienced", Description: "Complete 50 tests", Icon: "keyboard", Rule: Rule{Kind: RuleTestCount, Min: 50}, XP: 300},
	{ID: "tests_100", Name: "Veteran", Description: "Complete 100 tests", Icon: "keyboard", Rule: Rule{Kind: RuleTestCount, Min: 100}, XP: 500},
	{ID: "lessons_5", Name: "Student", Description: "Complete 5 lessons", Icon: "graduation-cap", Rule: Rule{Kind: RuleLessons, Min: 5}, XP: 150},
	{ID: "lessons_all", Name: "Scholar", Description: "Complete all lessons", Icon: "graduation-cap", Rule: Rule{Kind: RuleLessons, Min: 13}, XP: 300},
	{ID: "daily_challenge", Name: "Daily Warrior", Description: "Complete daily challenge", Icon: "calendar-day", Rule: Rule{Kind: RuleDailyChallenge}, XP: 50},
	{ID: "perfect_run", Name: "Flawless", Description: "Complete a test with 100% accuracy", Icon: "star", Rule: Rule{Kind: RulePerfectRuns, Min: 1}, XP: 200},
	{ID: "level_10", Name: "Rising Star", Description: "Reach level 10", Icon: "level-up", Rule: Rule{Kind: RuleLevel, Min: 10}, XP: 250},
	{ID: "level_25", Name: "Prodigy", Description: "Reach level 25", Icon: "level-up", Rule: Rule{Kind: RuleLevel, Min: 25}, XP: 500},
	{ID: "level_50", Name: "Legend", Description: "Reach level 50", Icon: "crown", Rule: Rule{Kind: RuleLevel, Min: 50}, XP: 1000},
	{ID: "no_errors", Name: "Error Free", Description: "Complete 3 tests with 0 errors", Icon: "check-circle", Rule: Rule{Kind: RuleZeroErrorTests, Min: 3}, XP: 150},
	{ID: "fast_typer", Name: "Fast Typer", Description: "Complete 10 tests above 80 WPM", Icon: "bolt", Rule: Rule{Kind: RuleTestsAboveWPM, Min: 10, WPM: 80}, XP: 200},
}

// Catalog returns every achievement definition in evaluation order.
func Catalog() []Achievement {
	return append([]Achievement(nil), catalog...)
}

// FindAchievement looks up a definition by id.
func FindAchievement(id string) (Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}
