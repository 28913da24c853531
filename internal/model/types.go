// Package model defines shared data structures.
package model

import "time"

// Mode identifies the kind of typing test.
type Mode string

// Test modes.
const (
	ModeNormal    Mode = "normal"
	ModeTimer     Mode = "timer"
	ModeChallenge Mode = "challenge"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeNormal, ModeTimer, ModeChallenge:
		return true
	default:
		return false
	}
}

// Config defines practice settings.
type Config struct {
	Mode        Mode
	Difficulty  string
	LessonID    string
	Text        string
	DurationSec int
	Lang        string
	Words       int
	CapsPct     float64
	PunctPct    float64
	PunctSet    string
	WordList    string
	Integrity   bool
}

// HistoryConfig defines filters for history output.
type HistoryConfig struct {
	Last  int
	Mode  Mode
	// Width truncates rows to this many columns when > 0.
	Width int
}

// TestRecord is an immutable record of one completed test.
type TestRecord struct {
	ID             string    `json:"id"`
	Mode           Mode      `json:"mode"`
	WPM            float64   `json:"wpm"`
	Accuracy       float64   `json:"accuracy"`
	Errors         int       `json:"errors"`
	Characters     int       `json:"characters"`
	DurationSec    float64   `json:"duration"`
	Difficulty     string    `json:"difficulty,omitempty"`
	LessonID       string    `json:"lessonId,omitempty"`
	TimeLimitSec   int       `json:"timeLimit,omitempty"`
	Completed      bool      `json:"completed"`
	Passed         bool      `json:"passed"`
	TargetWPM      int       `json:"targetWpm,omitempty"`
	TargetAccuracy int       `json:"targetAccuracy,omitempty"`
	XPEarned       int       `json:"xpEarned"`
	SuspicionScore int       `json:"cheatingScore"`
	Timestamp      time.Time `json:"timestamp"`
}

// AchievementUnlock records when an achievement was unlocked.
type AchievementUnlock struct {
	UnlockedAt time.Time `json:"unlockedAt"`
	XPReward   int       `json:"xpReward"`
}

// ProgressionState is the durable player progression.
type ProgressionState struct {
	Level                   int                          `json:"level"`
	XP                      int                          `json:"xp"`
	StreakDays              int                          `json:"streak"`
	LastActiveDate          string                       `json:"lastActiveDate,omitempty"`
	Achievements            map[string]AchievementUnlock `json:"achievements"`
	UnlockedThemes          []string                     `json:"unlockedThemes"`
	UnlockedFeatures        []string                     `json:"unlockedFeatures"`
	CompletedLessons        []string                     `json:"completedLessons"`
	DailyChallengeCompleted bool                         `json:"dailyChallengeCompleted"`
	DailyChallengeDate      string                       `json:"dailyChallengeDate,omitempty"`
}

// Clone returns a deep copy of the state.
func (s ProgressionState) Clone() ProgressionState {
	out := s
	out.Achievements = make(map[string]AchievementUnlock, len(s.Achievements))
	for id, u := range s.Achievements {
		out.Achievements[id] = u
	}
	out.UnlockedThemes = append([]string(nil), s.UnlockedThemes...)
	out.UnlockedFeatures = append([]string(nil), s.UnlockedFeatures...)
	out.CompletedLessons = append([]string(nil), s.CompletedLessons...)
	return out
}

// XPResult describes the effect of an XP award.
type XPResult struct {
	XPAdded      int      `json:"xpAdded"`
	LeveledUp    bool     `json:"leveledUp"`
	NewLevel     int      `json:"newLevel"`
	XPToNext     int      `json:"xpToNext"`
	Unlocked     []string `json:"unlocked,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}
