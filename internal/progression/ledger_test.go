package progression

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typemaster/internal/model"
)

type memPersister struct {
	state   model.ProgressionState
	found   bool
	loadErr error
	saveErr error
	saves   int
	records []model.TestRecord
	limit   int
}

func (m *memPersister) LoadState(context.Context) (model.ProgressionState, bool, error) {
	return m.state.Clone(), m.found, m.loadErr
}

func (m *memPersister) SaveState(_ context.Context, state model.ProgressionState) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.state = state
	m.found = true
	return nil
}

func (m *memPersister) AppendRecord(_ context.Context, rec model.TestRecord, limit int) error {
	m.limit = limit
	m.records = append(m.records, rec)
	if len(m.records) > limit {
		m.records = m.records[len(m.records)-limit:]
	}
	return nil
}

func (m *memPersister) ListHistory(context.Context) ([]model.TestRecord, error) {
	return append([]model.TestRecord(nil), m.records...), nil
}

type clock struct {
	t time.Time
}

func (c *clock) Now() time.Time { return c.t }

func (c *clock) addDays(n int) { c.t = c.t.AddDate(0, 0, n) }

func newClock() *clock {
	return &clock{t: time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)}
}

func openLedger(t *testing.T, p *memPersister, c *clock, opts ...Option) *Ledger {
	t.Helper()
	opts = append([]Option{WithClock(c.Now)}, opts...)
	return Open(context.Background(), p, opts...)
}

func TestOpenFirstRunDefaults(t *testing.T) {
	l := openLedger(t, &memPersister{}, newClock())

	s := l.State()
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 0, s.XP)
	assert.Equal(t, []string{DefaultTheme}, s.UnlockedThemes)
	assert.Empty(t, s.Achievements)
	assert.Equal(t, 282, l.XPToNext())
}

func TestOpenUnreadableStateFallsBack(t *testing.T) {
	p := &memPersister{loadErr: errors.New("corrupt json")}
	l := openLedger(t, p, newClock())

	assert.Equal(t, 1, l.Level())
	assert.Equal(t, []string{DefaultTheme}, l.State().UnlockedThemes)
}

func TestOpenNormalizesLoadedState(t *testing.T) {
	p := &memPersister{found: true, state: model.ProgressionState{
		Level:            0,
		XP:               -5,
		CompletedLessons: []string{"top1", "home1", "top1"},
	}}
	l := openLedger(t, p, newClock())

	s := l.State()
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 0, s.XP)
	assert.Equal(t, []string{"home1", "top1"}, s.CompletedLessons)
	assert.Contains(t, s.UnlockedThemes, DefaultTheme)
	assert.NotNil(t, s.Achievements)
}

func TestAddXPLevelsUpExactly(t *testing.T) {
	p := &memPersister{}
	l := openLedger(t, p, newClock())

	res, err := l.AddXP(context.Background(), 282, "test")
	require.NoError(t, err)

	assert.True(t, res.LeveledUp)
	assert.Equal(t, 2, res.NewLevel)
	assert.Equal(t, 0, l.State().XP)
	assert.Equal(t, XPForLevel(3), res.XPToNext)
	assert.Equal(t, 1, p.saves)
	assert.Equal(t, 2, p.state.Level)
}

func TestAddXPMultipleLevels(t *testing.T) {
	l := openLedger(t, &memPersister{}, newClock())

	res, err := l.AddXP(context.Background(), 282+519+10, "test")
	require.NoError(t, err)

	assert.Equal(t, 3, res.NewLevel)
	assert.Equal(t, 10, l.State().XP)
}

func TestAddXPBelowThreshold(t *testing.T) {
	l := openLedger(t, &memPersister{}, newClock())

	res, err := l.AddXP(context.Background(), 40, "test")
	require.NoError(t, err)

	assert.False(t, res.LeveledUp)
	assert.Equal(t, 1, res.NewLevel)
	assert.Equal(t, 242, res.XPToNext)
}

func TestAddXPAppliesLevelUnlocks(t *testing.T) {
	p := &memPersister{found: true, state: model.ProgressionState{Level: 4}}
	l := openLedger(t, p, newClock())

	res, err := l.AddXP(context.Background(), XPForLevel(5), "test")
	require.NoError(t, err)

	assert.Equal(t, 5, res.NewLevel)
	assert.Equal(t, []string{"forest"}, res.Unlocked)
	assert.Equal(t, []string{"forest", DefaultTheme}, l.State().UnlockedThemes)
}

func TestAddXPFeatureUnlock(t *testing.T) {
	p := &memPersister{found: true, state: model.ProgressionState{Level: 24}}
	l := openLedger(t, p, newClock())

	_, err := l.AddXP(context.Background(), XPForLevel(25), "test")
	require.NoError(t, err)

	s := l.State()
	assert.Equal(t, []string{"retro-sounds"}, s.UnlockedFeatures)
	assert.NotContains(t, s.UnlockedThemes, "retro-sounds")
}

func TestAddXPReturnsSaveError(t *testing.T) {
	p := &memPersister{saveErr: errors.New("disk full")}
	l := openLedger(t, p, newClock())

	_, err := l.AddXP(context.Background(), 10, "test")
	require.Error(t, err)
	assert.Equal(t, 10, l.State().XP)
}

func TestUpdateStreak(t *testing.T) {
	c := newClock()
	l := openLedger(t, &memPersister{}, c)
	ctx := context.Background()

	_, err := l.UpdateStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, l.State().StreakDays)

	_, err = l.UpdateStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, l.State().StreakDays, "same day keeps streak")

	c.addDays(1)
	_, err = l.UpdateStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, l.State().StreakDays)

	c.addDays(2)
	_, err = l.UpdateStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, l.State().StreakDays, "gap resets streak")
	assert.Equal(t, "2024-05-13", l.State().LastActiveDate)
}

func TestUpdateStreakUnlocksStreakAchievement(t *testing.T) {
	c := newClock()
	l := openLedger(t, &memPersister{}, c)
	ctx := context.Background()

	var got []string
	for i := 0; i < 3; i++ {
		ids, err := l.UpdateStreak(ctx)
		require.NoError(t, err)
		got = append(got, ids...)
		c.addDays(1)
	}

	assert.Equal(t, []string{"streak_3"}, got)
	assert.Equal(t, 50, l.State().XP)
}

func TestCheckAchievementsUnlocksOnce(t *testing.T) {
	l := openLedger(t, &memPersister{}, newClock())
	ctx := context.Background()

	_, err := l.RecordTest(ctx, model.TestRecord{Mode: model.ModeNormal, WPM: 55, Accuracy: 90, Errors: 2})
	require.NoError(t, err)

	ids, err := l.CheckAchievements(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first_test", "speed_50"}, ids)
	assert.Equal(t, 150, l.State().XP)

	ids, err = l.CheckAchievements(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, 150, l.State().XP)

	unlock := l.State().Achievements["speed_50"]
	assert.Equal(t, 100, unlock.XPReward)
	assert.False(t, unlock.UnlockedAt.IsZero())
}

func TestCheckAchievementsUsesSingleSnapshot(t *testing.T) {
	p := &memPersister{found: true, state: model.ProgressionState{Level: 9}}
	custom := []Achievement{
		{ID: "first", Rule: Rule{Kind: RuleTestCount, Min: 1}, XP: XPForLevel(10)},
		{ID: "ten", Rule: Rule{Kind: RuleLevel, Min: 10}, XP: 1},
	}
	l := openLedger(t, p, newClock(), WithCatalog(custom))
	ctx := context.Background()

	_, err := l.RecordTest(ctx, model.TestRecord{WPM: 30, Accuracy: 80, Errors: 1})
	require.NoError(t, err)

	ids, err := l.CheckAchievements(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, ids)
	assert.Equal(t, 10, l.Level())

	ids, err = l.CheckAchievements(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ten"}, ids)
}

func TestCompleteDailyChallengeOncePerDay(t *testing.T) {
	c := newClock()
	l := openLedger(t, &memPersister{}, c)
	ctx := context.Background()

	res, ok, err := l.CompleteDailyChallenge(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, DailyChallengeXP, res.XPAdded)
	assert.Equal(t, []string{"daily_challenge"}, res.Achievements)
	assert.Equal(t, 100, l.State().XP)
	assert.True(t, l.DailyChallengeDone())

	_, ok, err = l.CompleteDailyChallenge(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 100, l.State().XP)

	c.addDays(1)
	assert.False(t, l.DailyChallengeDone())
	_, ok, err = l.CompleteDailyChallenge(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 150, l.State().XP)
}

func TestCompleteLessonIdempotent(t *testing.T) {
	l := openLedger(t, &memPersister{}, newClock())
	ctx := context.Background()

	ok, err := l.CompleteLesson(ctx, "home1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, l.LessonCompleted("home1"))
	assert.Equal(t, LessonXP, l.State().XP)

	ok, err = l.CompleteLesson(ctx, "home1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, LessonXP, l.State().XP)
	assert.Equal(t, []string{"home1"}, l.State().CompletedLessons)
}

func TestRecordTestFillsIdentity(t *testing.T) {
	c := newClock()
	p := &memPersister{}
	l := openLedger(t, p, c)

	rec, err := l.RecordTest(context.Background(), model.TestRecord{WPM: 40})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, c.t, rec.Timestamp)
	require.Len(t, p.records, 1)
	assert.Equal(t, rec.ID, p.records[0].ID)
}

func TestRecordTestCapsHistory(t *testing.T) {
	p := &memPersister{}
	l := openLedger(t, p, newClock())
	ctx := context.Background()

	for i := 0; i < HistoryLimit+5; i++ {
		_, err := l.RecordTest(ctx, model.TestRecord{WPM: float64(i)})
		require.NoError(t, err)
	}

	h := l.History()
	require.Len(t, h, HistoryLimit)
	assert.Equal(t, 5.0, h[0].WPM)
	assert.Equal(t, float64(HistoryLimit+4), h[len(h)-1].WPM)
	assert.Equal(t, HistoryLimit, p.limit)
}

func TestOpenReloadsHistory(t *testing.T) {
	p := &memPersister{records: []model.TestRecord{{ID: "a", WPM: 61}, {ID: "b", WPM: 48}}}
	l := openLedger(t, p, newClock())

	assert.Equal(t, 2, l.History().Count())
	assert.Equal(t, 61.0, l.History().BestWPM())
}

func TestStateIsACopy(t *testing.T) {
	l := openLedger(t, &memPersister{}, newClock())

	s := l.State()
	s.UnlockedThemes[0] = "mutated"
	s.Achievements["x"] = model.AchievementUnlock{}

	assert.Equal(t, []string{DefaultTheme}, l.State().UnlockedThemes)
	assert.Empty(t, l.State().Achievements)
}
