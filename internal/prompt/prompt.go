// Package prompt chooses the text a typing test is run against: generated
// words, built-in sentences, custom text, lessons, timer paragraphs or the
// daily challenge.
package prompt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/typemaster/internal/model"
)

// DifficultyWords selects generated words instead of a sentence set.
const DifficultyWords = "words"

// DifficultyCustom marks a prompt built from user-supplied text.
const DifficultyCustom = "custom"

// Prompt is the reference text for one test and its mode-specific targets.
type Prompt struct {
	Mode       model.Mode
	Text       string
	Difficulty string
	Lesson     *Lesson
	Challenge  *Challenge
	TimeLimit  time.Duration
}

// Source builds prompts from practice settings.
type Source struct {
	gen   *Generator
	words []string
	now   func() time.Time
}

// NewSource returns a Source drawing generated text from words.
func NewSource(gen *Generator, words []string, now func() time.Time) *Source {
	if gen == nil {
		gen = NewGenerator()
	}
	if now == nil {
		now = time.Now
	}
	return &Source{gen: gen, words: words, now: now}
}

// Build returns the prompt for cfg.
func (s *Source) Build(cfg model.Config) (Prompt, error) {
	mode := cfg.Mode
	if mode == "" {
		mode = model.ModeNormal
	}
	if !mode.Valid() {
		return Prompt{}, fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	if cfg.Text != "" {
		return buildCustom(mode, cfg)
	}

	switch {
	case mode == model.ModeChallenge:
		c := DailyChallenge(s.now())
		return Prompt{Mode: mode, Text: c.Text, Challenge: &c}, nil

	case cfg.LessonID != "":
		lesson, ok := FindLesson(cfg.LessonID)
		if !ok {
			return Prompt{}, fmt.Errorf("unknown lesson %q", cfg.LessonID)
		}
		return Prompt{Mode: model.ModeNormal, Text: lesson.Text, Lesson: &lesson}, nil

	case mode == model.ModeTimer:
		if cfg.DurationSec <= 0 {
			return Prompt{}, errors.New("timer duration must be > 0")
		}
		return Prompt{
			Mode:      mode,
			Text:      TimerParagraph(cfg.DurationSec),
			TimeLimit: time.Duration(cfg.DurationSec) * time.Second,
		}, nil
	}

	if cfg.Difficulty == "" || cfg.Difficulty == DifficultyWords {
		return s.buildWords(cfg)
	}
	set, ok := Sentences(cfg.Difficulty)
	if !ok {
		return Prompt{}, fmt.Errorf("unknown difficulty %q (expected %s or %s)", cfg.Difficulty, DifficultyWords, strings.Join(Difficulties(), ", "))
	}
	return Prompt{Mode: mode, Text: s.gen.Pick(set), Difficulty: cfg.Difficulty}, nil
}

func (s *Source) buildWords(cfg model.Config) (Prompt, error) {
	if len(s.words) == 0 {
		return Prompt{}, errors.New("word list is empty")
	}
	if cfg.Words <= 0 {
		return Prompt{}, errors.New("words must be > 0")
	}
	words := s.gen.Words(s.words, cfg.Words, cfg.CapsPct, cfg.PunctPct, []rune(cfg.PunctSet))
	return Prompt{Mode: model.ModeNormal, Text: strings.Join(words, " "), Difficulty: DifficultyWords}, nil
}

// CustomText collapses runs of whitespace in user-supplied text to single
// spaces.
func CustomText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func buildCustom(mode model.Mode, cfg model.Config) (Prompt, error) {
	if mode == model.ModeChallenge {
		return Prompt{}, errors.New("custom text cannot be used in challenge mode")
	}
	if cfg.LessonID != "" {
		return Prompt{}, errors.New("custom text cannot be combined with a lesson")
	}
	text := CustomText(cfg.Text)
	if text == "" {
		return Prompt{}, errors.New("custom text is empty")
	}
	p := Prompt{Mode: mode, Text: text, Difficulty: DifficultyCustom}
	if mode == model.ModeTimer {
		if cfg.DurationSec <= 0 {
			return Prompt{}, errors.New("timer duration must be > 0")
		}
		p.TimeLimit = time.Duration(cfg.DurationSec) * time.Second
	}
	return p, nil
}
