package integrity

import (
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

// State is the lifecycle position of an Evaluator within one test.
type State int

// Evaluator states.
const (
	StateIdle State = iota
	StateActive
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Evaluator accumulates a suspicion score for one typing test. It is not
// safe for concurrent use; each test session owns its own instance.
type Evaluator struct {
	th     Thresholds
	now    func() time.Time
	logger *slog.Logger

	state     State
	reference string

	timings     *TimingWindow
	lastKeyTime time.Time
	score       int
	copyPaste   bool

	lastText     string
	lastTextTime time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		e.now = now
	}
}

// WithLogger sets the logger used for penalty events.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// New returns an idle Evaluator.
func New(th Thresholds, opts ...Option) *Evaluator {
	e := &Evaluator{
		th:      th,
		now:     time.Now,
		logger:  slog.Default(),
		timings: NewTimingWindow(th.WindowSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Begin resets the evaluator for a new test against the given prompt text.
func (e *Evaluator) Begin(reference string) {
	e.Reset()
	e.reference = reference
}

// Reset returns to idle and clears every accumulator.
func (e *Evaluator) Reset() {
	e.state = StateIdle
	e.timings.Clear()
	e.lastKeyTime = time.Time{}
	e.score = 0
	e.copyPaste = false
	e.lastText = ""
	e.lastTextTime = time.Time{}
}

// State returns the current lifecycle state.
func (e *Evaluator) State() State {
	return e.state
}

// Score returns the accumulated suspicion score.
func (e *Evaluator) Score() int {
	return e.score
}

// CopyPasteDetected reports whether pasted input was seen in this test.
func (e *Evaluator) CopyPasteDetected() bool {
	return e.copyPaste
}

// LastText returns the input text seen by the previous text check.
func (e *Evaluator) LastText() string {
	return e.lastText
}

// Timings returns the current keystroke interval window, oldest first.
func (e *Evaluator) Timings() []time.Duration {
	return e.timings.Samples()
}

// Flagged reports whether the live score has reached the cheating threshold.
func (e *Evaluator) Flagged() bool {
	return e.score >= e.th.CheatingThreshold
}

// RecordKeystroke registers one keystroke. The first keystroke of a test
// only stamps the time.
func (e *Evaluator) RecordKeystroke() {
	if e.state == StateFinalized {
		return
	}
	e.state = StateActive
	now := e.now()
	if !e.lastKeyTime.IsZero() {
		delta := now.Sub(e.lastKeyTime)
		e.timings.Add(delta)
		if delta < e.th.MinInterval {
			e.penalize(e.th.MinIntervalPenalty, "fast keystroke", slog.Duration("delta", delta))
		}
		if delta < e.th.ExtremeInterval {
			e.penalize(e.th.ExtremePenalty, "extreme keystroke", slog.Duration("delta", delta))
		}
	}
	e.lastKeyTime = now
}

// RecordPaste registers an explicit paste event from the input widget.
func (e *Evaluator) RecordPaste() {
	if e.state == StateFinalized {
		return
	}
	e.state = StateActive
	e.copyPaste = true
	e.penalize(e.th.PastePenalty, "paste event")
}

// OnTextChanged runs DetectCopyPaste against the text seen by the previous
// check.
func (e *Evaluator) OnTextChanged(current string) bool {
	return e.DetectCopyPaste(current, e.lastText)
}

// DetectCopyPaste inspects a text change. It returns true when the change
// looks pasted, otherwise whether the live score crossed the threshold.
func (e *Evaluator) DetectCopyPaste(current, previous string) bool {
	if e.state == StateFinalized {
		return e.Flagged()
	}
	e.state = StateActive
	now := e.now()
	defer func() {
		e.lastText = current
		e.lastTextTime = now
	}()

	added := utf8.RuneCountInString(current) - utf8.RuneCountInString(previous)
	elapsed, hasPrev := time.Duration(0), !e.lastTextTime.IsZero()
	if hasPrev {
		elapsed = now.Sub(e.lastTextTime)
	}

	if hasPrev && added > e.th.BurstChars && elapsed < e.th.BurstWindow {
		e.copyPaste = true
		e.penalize(e.th.BurstPenalty, "text burst", slog.Int("added", added), slog.Duration("elapsed", elapsed))
		return true
	}

	if hasPrev && added > e.th.SourceMatchChars && elapsed < e.th.SourceMatchWindow {
		if appended := appendedText(current, previous); strings.Contains(e.reference, appended) {
			e.copyPaste = true
			e.penalize(e.th.SourceMatchPenalty, "source match", slog.Int("added", added))
			return true
		}
	}

	if e.timings.Len() >= e.th.RhythmMinSamples {
		mean, variance := e.timings.Stats()
		if variance < e.th.RhythmMaxVariance && mean < millis(e.th.RhythmMaxMean) {
			e.penalize(e.th.RhythmPenalty, "uniform rhythm", slog.Float64("mean_ms", mean), slog.Float64("variance", variance))
		}
		if mean < millis(e.th.RobotMaxMean) {
			e.penalize(e.th.RobotPenalty, "robotic rhythm", slog.Float64("mean_ms", mean))
		}
	}

	return e.Flagged()
}

// DetectPatternCheating looks for repeated chunks in the typed text.
// Repetition already present in the reference text is not penalized.
func (e *Evaluator) DetectPatternCheating(text string) bool {
	runes := []rune(text)
	if len(runes) < e.th.PatternMinText {
		return false
	}
	if patterns := ForeignPatterns(text, e.reference, e.th.PatternMinLength); len(patterns) > 0 {
		e.penalize(e.th.PatternPenalty, "repeating pattern", slog.String("pattern", patterns[0]))
		return true
	}
	if RepeatRatio(runes) > e.th.RepeatRatio && RepeatRatio([]rune(e.reference)) <= e.th.RepeatRatio {
		e.penalize(e.th.RepeatRatioPenalty, "repeated characters")
	}
	return false
}

// ValidateResult is the final gate for a completed test.
func (e *Evaluator) ValidateResult(wpm, accuracy, durationSec float64) Verdict {
	e.state = StateFinalized
	switch {
	case wpm > e.th.MaxHumanWPM:
		return invalid(RuleWorldRecord, e.score)
	case wpm > e.th.MaxSustainedWPM && durationSec > e.th.SustainedAfterSec:
		return invalid(RuleSustainedSpeed, e.score)
	case wpm > e.th.PerfectSpeedWPM && accuracy > e.th.PerfectAccuracy:
		return invalid(RulePerfectSpeed, e.score)
	case e.copyPaste:
		return invalid(RuleCopyPaste, e.score)
	case e.score >= e.th.CheatingThreshold:
		return invalid(RuleSuspicious, e.score)
	default:
		return Verdict{Valid: true, Rule: RuleNone, Reason: RuleNone.Reason(), Score: e.score}
	}
}

func (e *Evaluator) penalize(points int, reason string, attrs ...any) {
	e.score += points
	args := append([]any{slog.String("reason", reason), slog.Int("points", points), slog.Int("score", e.score)}, attrs...)
	e.logger.Debug("integrity penalty", args...)
}

func appendedText(current, previous string) string {
	runes := []rune(current)
	n := utf8.RuneCountInString(previous)
	if n >= len(runes) {
		return ""
	}
	return string(runes[n:])
}
