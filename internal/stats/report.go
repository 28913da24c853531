package stats

import (
	"github.com/verte-zerg/typemaster/internal/progression"
	"github.com/verte-zerg/typemaster/internal/prompt"
)

// RecentWindow is how many recent tests feed the trend line.
const RecentWindow = 10

// Report contains precomputed data for profile rendering.
type Report struct {
	Level          int
	Rank           string
	XP             int
	NextLevelXP    int
	StreakDays     int
	LastActiveDate string

	Tests        int
	BestWPM      float64
	AvgWPM       float64
	BestAccuracy float64
	AvgAccuracy  float64
	PerfectRuns  int
	RecentWPM    []float64

	Achievements     int
	AchievementTotal int
	LessonsDone      int
	LessonsTotal     int
	DailyDone        bool
	Themes           []string
	Features         []string
}

// Progress returns the fraction of the current level completed.
func (r Report) Progress() float64 {
	if r.NextLevelXP <= 0 {
		return 0
	}
	p := float64(r.XP) / float64(r.NextLevelXP)
	if p > 1 {
		return 1
	}
	return p
}

// BuildReport prepares profile data from the ledger.
func BuildReport(l *progression.Ledger) Report {
	state := l.State()
	history := l.History()

	recent := history.Last(RecentWindow)
	wpms := make([]float64, len(recent))
	for i, rec := range recent {
		wpms[i] = rec.WPM
	}

	return Report{
		Level:            state.Level,
		Rank:             progression.Rank(state.Level),
		XP:               state.XP,
		NextLevelXP:      l.XPForNextLevel(),
		StreakDays:       state.StreakDays,
		LastActiveDate:   state.LastActiveDate,
		Tests:            history.Count(),
		BestWPM:          history.BestWPM(),
		AvgWPM:           history.AverageWPM(),
		BestAccuracy:     history.BestAccuracy(),
		AvgAccuracy:      history.AverageAccuracy(),
		PerfectRuns:      history.PerfectRuns(),
		RecentWPM:        MovingAverage(wpms, 3),
		Achievements:     len(state.Achievements),
		AchievementTotal: len(progression.Catalog()),
		LessonsDone:      len(state.CompletedLessons),
		LessonsTotal:     len(prompt.Lessons()),
		DailyDone:        state.DailyChallengeCompleted,
		Themes:           state.UnlockedThemes,
		Features:         state.UnlockedFeatures,
	}
}
