// Package session runs one typing test from first keystroke to recorded
// result.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/typemaster/internal/integrity"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/prompt"
	"github.com/verte-zerg/typemaster/internal/stats"
)

// ErrCompleted is returned when a finished session is completed again.
var ErrCompleted = errors.New("session already completed")

// ErrNotStarted is returned when Finish is called before Start.
var ErrNotStarted = errors.New("session not started")

// Progress is the part of the progression ledger a session writes to.
type Progress interface {
	AddXP(ctx context.Context, amount int, source string) (model.XPResult, error)
	RecordTest(ctx context.Context, rec model.TestRecord) (model.TestRecord, error)
	CompleteDailyChallenge(ctx context.Context) (model.XPResult, bool, error)
	CompleteLesson(ctx context.Context, lessonID string) (bool, error)
	CheckAchievements(ctx context.Context) ([]string, error)
	Level() int
}

type phase int

const (
	phaseIdle phase = iota
	phaseRunning
	phaseDone
)

// Result is the measured outcome of an attempt.
type Result struct {
	WPM         float64
	Accuracy    float64
	DurationSec float64
	Characters  int
	Errors      int
	// Completed is false when a timer test ran out of time.
	Completed bool
}

// Outcome is what completing a session produced.
type Outcome struct {
	Result  Result
	Verdict integrity.Verdict
	// Record is zero when the verdict is invalid.
	Record          model.TestRecord
	XPEarned        int
	XP              model.XPResult
	Passed          bool
	DailyCompleted  bool
	LessonCompleted bool
	Achievements    []string
	LeveledUp       bool
	Level           int
}

// Session owns the evaluator for one test.
type Session struct {
	progress  Progress
	eval      *integrity.Evaluator
	prompt    prompt.Prompt
	integrity bool
	now       func() time.Time
	logger    *slog.Logger

	phase   phase
	started time.Time
	input   string
	errors  int
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithIntegrity toggles integrity checks. Enabled by default.
func WithIntegrity(enabled bool) Option {
	return func(s *Session) {
		s.integrity = enabled
	}
}

// New returns an idle session for p.
func New(progress Progress, eval *integrity.Evaluator, p prompt.Prompt, opts ...Option) *Session {
	s := &Session{
		progress:  progress,
		eval:      eval,
		prompt:    p,
		integrity: true,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prompt returns the reference text and targets.
func (s *Session) Prompt() prompt.Prompt {
	return s.prompt
}

// Start resets the evaluator against the prompt and starts the clock.
func (s *Session) Start() {
	s.eval.Begin(s.prompt.Text)
	s.phase = phaseRunning
	s.started = s.now()
	s.input = ""
	s.errors = 0
}

// Running reports whether input is being accepted.
func (s *Session) Running() bool {
	return s.phase == phaseRunning
}

// OnKeystroke records keystroke timing. Call it before OnTextChanged for the
// same input event.
func (s *Session) OnKeystroke() {
	if s.phase != phaseRunning || !s.integrity {
		return
	}
	s.eval.RecordKeystroke()
}

// OnPaste records an explicit paste event.
func (s *Session) OnPaste() {
	if s.phase != phaseRunning || !s.integrity {
		return
	}
	s.eval.RecordPaste()
	s.logger.Warn("paste detected during test", slog.String("mode", string(s.prompt.Mode)))
}

// OnTextChanged updates the typed text and returns the live suspicion flag.
func (s *Session) OnTextChanged(current string) bool {
	if s.phase != phaseRunning {
		return false
	}
	if s.prompt.Mode == model.ModeNormal {
		s.errors += mismatchesFrom(current, s.prompt.Text, utf8.RuneCountInString(s.input))
	} else {
		s.errors = mismatchesFrom(current, s.prompt.Text, 0)
	}
	s.input = current
	if !s.integrity {
		return false
	}
	return s.eval.OnTextChanged(current)
}

// Input returns the typed text.
func (s *Session) Input() string {
	return s.input
}

// Errors returns the mistype count. Normal mode counts every mistyped rune,
// including ones later corrected; other modes count current mismatches.
func (s *Session) Errors() int {
	return s.errors
}

// Flagged reports whether the live suspicion score crossed the threshold.
func (s *Session) Flagged() bool {
	return s.integrity && s.eval.Flagged()
}

// TextDone reports whether the whole prompt has been typed.
func (s *Session) TextDone() bool {
	return utf8.RuneCountInString(s.input) >= utf8.RuneCountInString(s.prompt.Text)
}

// Elapsed returns the running time, capped at the time limit.
func (s *Session) Elapsed() time.Duration {
	if s.started.IsZero() {
		return 0
	}
	d := s.now().Sub(s.started)
	if s.prompt.TimeLimit > 0 && d > s.prompt.TimeLimit {
		d = s.prompt.TimeLimit
	}
	return d
}

// Live returns the current WPM and accuracy.
func (s *Session) Live() (wpm, accuracy float64) {
	return stats.Metrics(utf8.RuneCountInString(s.input), s.errors, s.Elapsed())
}

// Finish measures the attempt and completes the session. timedOut marks a
// timer test that ran out of time.
func (s *Session) Finish(ctx context.Context, timedOut bool) (Outcome, error) {
	if s.phase == phaseIdle {
		return Outcome{}, ErrNotStarted
	}
	elapsed := s.Elapsed()
	typed := utf8.RuneCountInString(s.input)
	wpm, acc := stats.Metrics(typed, s.errors, elapsed)
	return s.Complete(ctx, Result{
		WPM:         wpm,
		Accuracy:    acc,
		DurationSec: elapsed.Seconds(),
		Characters:  typed,
		Errors:      s.errors,
		Completed:   !timedOut,
	})
}

// Complete validates res and, when valid, awards XP, records the test and
// applies lesson and daily challenge completion.
func (s *Session) Complete(ctx context.Context, res Result) (Outcome, error) {
	if s.phase == phaseDone {
		return Outcome{}, ErrCompleted
	}
	s.phase = phaseDone
	startLevel := s.progress.Level()

	out := Outcome{Result: res, Level: startLevel}
	if s.integrity {
		s.eval.DetectPatternCheating(s.input)
		out.Verdict = s.eval.ValidateResult(res.WPM, res.Accuracy, res.DurationSec)
	} else {
		out.Verdict = integrity.Verdict{Valid: true, Reason: "integrity checks disabled"}
	}
	if !out.Verdict.Valid {
		s.logger.Warn("result rejected",
			slog.String("rule", string(out.Verdict.Rule)),
			slog.Int("score", out.Verdict.Score),
			slog.Float64("wpm", res.WPM),
		)
		return out, nil
	}

	p := s.prompt
	if p.Challenge != nil {
		out.Passed = p.Challenge.Passed(res.WPM, res.Accuracy)
	}
	out.XPEarned = XPFor(p.Mode, res, out.Passed)

	xp, err := s.progress.AddXP(ctx, out.XPEarned, string(p.Mode))
	if err != nil {
		return out, err
	}
	out.XP = xp
	out.Achievements = append(out.Achievements, xp.Achievements...)

	rec, err := s.progress.RecordTest(ctx, s.record(res, out))
	if err != nil {
		return out, err
	}
	out.Record = rec

	if p.Challenge != nil && out.Passed {
		daily, ok, err := s.progress.CompleteDailyChallenge(ctx)
		if err != nil {
			return out, fmt.Errorf("failed to complete daily challenge: %w", err)
		}
		out.DailyCompleted = ok
		out.Achievements = append(out.Achievements, daily.Achievements...)
	}
	if p.Lesson != nil && res.WPM >= float64(p.Lesson.TargetWPM) {
		ok, err := s.progress.CompleteLesson(ctx, p.Lesson.ID)
		if err != nil {
			return out, fmt.Errorf("failed to complete lesson: %w", err)
		}
		out.LessonCompleted = ok
	}

	ids, err := s.progress.CheckAchievements(ctx)
	if err != nil {
		return out, err
	}
	out.Achievements = append(out.Achievements, ids...)

	out.Level = s.progress.Level()
	out.LeveledUp = out.Level > startLevel
	s.logger.Info("test recorded",
		slog.String("id", rec.ID),
		slog.String("mode", string(p.Mode)),
		slog.Float64("wpm", res.WPM),
		slog.Float64("accuracy", res.Accuracy),
		slog.Int("xp", out.XPEarned),
	)
	return out, nil
}

func (s *Session) record(res Result, out Outcome) model.TestRecord {
	p := s.prompt
	rec := model.TestRecord{
		Mode:           p.Mode,
		WPM:            res.WPM,
		Accuracy:       res.Accuracy,
		Errors:         res.Errors,
		Characters:     res.Characters,
		DurationSec:    res.DurationSec,
		Difficulty:     p.Difficulty,
		XPEarned:       out.XPEarned,
		SuspicionScore: out.Verdict.Score,
	}
	switch {
	case p.Mode == model.ModeTimer:
		rec.TimeLimitSec = int(p.TimeLimit / time.Second)
		rec.Completed = res.Completed
	case p.Challenge != nil:
		rec.Passed = out.Passed
		rec.TargetWPM = p.Challenge.TargetWPM
		rec.TargetAccuracy = p.Challenge.TargetAccuracy
		rec.Completed = true
	default:
		rec.Completed = true
	}
	if p.Lesson != nil {
		rec.LessonID = p.Lesson.ID
		rec.TargetWPM = p.Lesson.TargetWPM
	}
	return rec
}

// XPFor returns the base XP of a valid result.
func XPFor(mode model.Mode, res Result, passed bool) int {
	var xp float64
	switch mode {
	case model.ModeTimer:
		xp = res.WPM*0.3 + res.Accuracy*0.2
		if res.Completed {
			xp += 20
		}
	case model.ModeChallenge:
		xp = res.WPM*0.2 + res.Accuracy*0.1
		if passed {
			xp += 50
		}
	default:
		xp = res.WPM*0.5 + res.Accuracy*0.3
	}
	return int(math.Floor(xp))
}

// mismatchesFrom counts positions from start on where input differs from
// target.
func mismatchesFrom(input, target string, start int) int {
	a, b := []rune(input), []rune(target)
	n := min(len(a), len(b))
	errs := 0
	for i := max(start, 0); i < n; i++ {
		if a[i] != b[i] {
			errs++
		}
	}
	return errs
}
