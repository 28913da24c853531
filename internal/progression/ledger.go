// Package progression keeps the player's durable progress: XP and levels,
// daily streaks, level unlocks, achievements and the recent test history.
package progression

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typemaster/internal/model"
)

// XP granted by fixed rewards.
const (
	DailyChallengeXP = 50
	LessonXP         = 25
)

const dateLayout = "2006-01-02"

// Persister is the durable store behind a Ledger.
type Persister interface {
	// LoadState returns the stored state; found is false when nothing has
	// been saved yet.
	LoadState(ctx context.Context) (state model.ProgressionState, found bool, err error)
	SaveState(ctx context.Context, state model.ProgressionState) error
	AppendRecord(ctx context.Context, rec model.TestRecord, limit int) error
	ListHistory(ctx context.Context) ([]model.TestRecord, error)
}

// Ledger owns the progression state. Exactly one Ledger should exist per
// process; it is not safe for concurrent use.
type Ledger struct {
	store   Persister
	now     func() time.Time
	logger  *slog.Logger
	catalog []Achievement

	state   model.ProgressionState
	history History
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source used for streaks and timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithCatalog replaces the achievement catalog.
func WithCatalog(catalog []Achievement) Option {
	return func(l *Ledger) {
		l.catalog = catalog
	}
}

// DefaultState returns the progression of a new player.
func DefaultState() model.ProgressionState {
	return model.ProgressionState{
		Level:          1,
		Achievements:   map[string]model.AchievementUnlock{},
		UnlockedThemes: []string{DefaultTheme},
	}
}

// Open loads the ledger from store. Unreadable state or history falls back
// to defaults.
func Open(ctx context.Context, store Persister, opts ...Option) *Ledger {
	l := &Ledger{
		store:   store,
		now:     time.Now,
		logger:  slog.Default(),
		catalog: catalog,
		state:   DefaultState(),
	}
	for _, opt := range opts {
		opt(l)
	}

	state, found, err := store.LoadState(ctx)
	switch {
	case err != nil:
		l.logger.Warn("failed to load progression, using defaults", slog.Any("error", err))
	case found:
		l.state = normalize(state)
	}

	records, err := store.ListHistory(ctx)
	if err != nil {
		l.logger.Warn("failed to load history, starting empty", slog.Any("error", err))
		records = nil
	}
	l.history = History(nil).appendAll(records, HistoryLimit)
	l.expireDailyChallenge()
	return l
}

func normalize(s model.ProgressionState) model.ProgressionState {
	s = s.Clone()
	if s.Level < 1 {
		s.Level = 1
	}
	if s.XP < 0 {
		s.XP = 0
	}
	if s.StreakDays < 0 {
		s.StreakDays = 0
	}
	s.UnlockedThemes, _ = addToSet(normalizeSet(s.UnlockedThemes), DefaultTheme)
	s.UnlockedFeatures = normalizeSet(s.UnlockedFeatures)
	s.CompletedLessons = normalizeSet(s.CompletedLessons)
	return s
}

// State returns a copy of the current progression.
func (l *Ledger) State() model.ProgressionState {
	l.expireDailyChallenge()
	return l.state.Clone()
}

// History returns a copy of the recorded tests, oldest first.
func (l *Ledger) History() History {
	return append(History(nil), l.history...)
}

// Level returns the current level.
func (l *Ledger) Level() int {
	return l.state.Level
}

// XPForNextLevel returns the XP requirement of the next level.
func (l *Ledger) XPForNextLevel() int {
	return XPForLevel(l.state.Level + 1)
}

// XPToNext returns the XP still missing for the next level.
func (l *Ledger) XPToNext() int {
	return l.XPForNextLevel() - l.state.XP
}

// Rank returns the rank label of the current level.
func (l *Ledger) Rank() string {
	return Rank(l.state.Level)
}

// DailyChallengeDone reports whether today's challenge was completed.
func (l *Ledger) DailyChallengeDone() bool {
	l.expireDailyChallenge()
	return l.state.DailyChallengeCompleted
}

// LessonCompleted reports whether the lesson was already completed.
func (l *Ledger) LessonCompleted(id string) bool {
	return containsSorted(l.state.CompletedLessons, id)
}

// AddXP awards XP, applies level-ups and unlocks, updates the streak and
// persists.
func (l *Ledger) AddXP(ctx context.Context, amount int, source string) (model.XPResult, error) {
	res := l.addXP(amount)
	l.logger.Debug("xp awarded",
		slog.Int("amount", amount),
		slog.String("source", source),
		slog.Int("level", res.NewLevel),
		slog.Int("xp_to_next", res.XPToNext),
	)
	return res, l.save(ctx)
}

// UpdateStreak records activity for today and persists when the streak
// changed. It returns achievements unlocked as a result.
func (l *Ledger) UpdateStreak(ctx context.Context) ([]string, error) {
	changed, ids, _ := l.updateStreak()
	if !changed {
		return nil, nil
	}
	return ids, l.save(ctx)
}

// CheckAchievements unlocks every achievement whose rule currently holds and
// returns the newly unlocked ids.
func (l *Ledger) CheckAchievements(ctx context.Context) ([]string, error) {
	ids, _ := l.checkAchievements()
	if len(ids) == 0 {
		return nil, nil
	}
	return ids, l.save(ctx)
}

// CompleteDailyChallenge marks today's challenge done and grants its XP.
// It reports false without granting anything when already done today.
func (l *Ledger) CompleteDailyChallenge(ctx context.Context) (model.XPResult, bool, error) {
	if l.DailyChallengeDone() {
		return model.XPResult{NewLevel: l.state.Level, XPToNext: l.XPToNext()}, false, nil
	}
	l.state.DailyChallengeCompleted = true
	l.state.DailyChallengeDate = l.today()
	res := l.addXP(DailyChallengeXP)
	l.logger.Info("daily challenge completed", slog.String("date", l.state.DailyChallengeDate))
	return res, true, l.save(ctx)
}

// CompleteLesson records a completed lesson and grants its XP once.
func (l *Ledger) CompleteLesson(ctx context.Context, lessonID string) (bool, error) {
	lessons, added := addToSet(l.state.CompletedLessons, lessonID)
	if !added {
		return false, nil
	}
	l.state.CompletedLessons = lessons
	l.addXP(LessonXP)
	l.logger.Info("lesson completed", slog.String("lesson", lessonID))
	return true, l.save(ctx)
}

// RecordTest appends a completed test to the history. Missing ids and
// timestamps are filled in.
func (l *Ledger) RecordTest(ctx context.Context, rec model.TestRecord) (model.TestRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = l.now()
	}
	l.history = l.history.Append(rec, HistoryLimit)
	if err := l.store.AppendRecord(ctx, rec, HistoryLimit); err != nil {
		return rec, fmt.Errorf("failed to save test record: %w", err)
	}
	return rec, nil
}

func (l *Ledger) addXP(amount int) model.XPResult {
	if amount < 0 {
		amount = 0
	}
	oldLevel := l.state.Level
	unlocked := l.grantXP(amount)
	_, ids, more := l.updateStreak()
	return model.XPResult{
		XPAdded:      amount,
		LeveledUp:    l.state.Level > oldLevel,
		NewLevel:     l.state.Level,
		XPToNext:     l.XPToNext(),
		Unlocked:     append(unlocked, more...),
		Achievements: ids,
	}
}

// grantXP adds XP and walks the level curve. It never touches streaks or
// achievements.
func (l *Ledger) grantXP(amount int) []string {
	var unlocked []string
	l.state.XP += amount
	for next := l.XPForNextLevel(); l.state.XP >= next; next = l.XPForNextLevel() {
		l.state.Level++
		l.state.XP -= next
		l.logger.Info("level up", slog.Int("level", l.state.Level), slog.String("rank", l.Rank()))
		unlocked = append(unlocked, l.applyLevelUnlocks(l.state.Level)...)
	}
	return unlocked
}

func (l *Ledger) applyLevelUnlocks(level int) []string {
	var unlocked []string
	for _, u := range unlocksAt(level) {
		var added bool
		switch u.Kind {
		case UnlockTheme:
			l.state.UnlockedThemes, added = addToSet(l.state.UnlockedThemes, u.Name)
		case UnlockFeature:
			l.state.UnlockedFeatures, added = addToSet(l.state.UnlockedFeatures, u.Name)
		}
		if added {
			unlocked = append(unlocked, u.Name)
		}
	}
	return unlocked
}

func (l *Ledger) updateStreak() (changed bool, ids, unlocked []string) {
	now := l.now()
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	switch l.state.LastActiveDate {
	case today:
		return false, nil, nil
	case yesterday:
		l.state.StreakDays++
	default:
		l.state.StreakDays = 1
	}
	l.state.LastActiveDate = today
	l.logger.Debug("streak updated", slog.Int("streak", l.state.StreakDays))

	ids, unlocked = l.checkAchievements()
	return true, ids, unlocked
}

// checkAchievements evaluates locked achievements against a snapshot taken
// before any of them unlock, so one unlock cannot enable another in the same
// pass.
func (l *Ledger) checkAchievements() (ids, unlocked []string) {
	l.expireDailyChallenge()
	snap := Snapshot{State: l.state.Clone(), History: l.History()}
	for _, a := range l.catalog {
		if _, ok := l.state.Achievements[a.ID]; ok {
			continue
		}
		if !a.Rule.Met(snap) {
			continue
		}
		l.state.Achievements[a.ID] = model.AchievementUnlock{UnlockedAt: l.now(), XPReward: a.XP}
		ids = append(ids, a.ID)
		l.logger.Info("achievement unlocked", slog.String("id", a.ID), slog.Int("xp", a.XP))
		unlocked = append(unlocked, l.grantXP(a.XP)...)
	}
	return ids, unlocked
}

func (l *Ledger) expireDailyChallenge() {
	if l.state.DailyChallengeCompleted && l.state.DailyChallengeDate != l.today() {
		l.state.DailyChallengeCompleted = false
	}
}

func (l *Ledger) today() string {
	return l.now().Format(dateLayout)
}

func (l *Ledger) save(ctx context.Context) error {
	if err := l.store.SaveState(ctx, l.state.Clone()); err != nil {
		return fmt.Errorf("failed to save progression: %w", err)
	}
	return nil
}

func (h History) appendAll(records []model.TestRecord, limit int) History {
	out := h
	for _, r := range records {
		out = out.Append(r, limit)
	}
	return out
}

func addToSet(set []string, v string) ([]string, bool) {
	i := sort.SearchStrings(set, v)
	if i < len(set) && set[i] == v {
		return set, false
	}
	out := make([]string, 0, len(set)+1)
	out = append(out, set[:i]...)
	out = append(out, v)
	out = append(out, set[i:]...)
	return out, true
}

func containsSorted(set []string, v string) bool {
	i := sort.SearchStrings(set, v)
	return i < len(set) && set[i] == v
}

func normalizeSet(set []string) []string {
	out := make([]string, 0, len(set))
	for _, v := range set {
		out, _ = addToSet(out, v)
	}
	return out
}
