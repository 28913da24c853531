// Package integrity scores typing input for signs of paste or scripted typing
// and validates completed results.
package integrity

import (
	"fmt"
	"time"
)

// Thresholds configures the heuristics. DefaultThresholds matches the
// values results were historically validated with.
type Thresholds struct {
	// Keystroke timing.
	WindowSize         int
	MinInterval        time.Duration
	MinIntervalPenalty int
	ExtremeInterval    time.Duration
	ExtremePenalty     int

	// Text bursts.
	BurstChars         int
	BurstWindow        time.Duration
	BurstPenalty       int
	SourceMatchChars   int
	SourceMatchWindow  time.Duration
	SourceMatchPenalty int
	PastePenalty       int

	// Rhythm of the timing window.
	RhythmMinSamples   int
	RhythmMaxVariance  float64
	RhythmMaxMean      time.Duration
	RhythmPenalty      int
	RobotMaxMean       time.Duration
	RobotPenalty       int
	PatternMinText     int
	PatternMinLength   int
	PatternPenalty     int
	RepeatRatio        float64
	RepeatRatioPenalty int

	// Final gate.
	MaxHumanWPM       float64
	MaxSustainedWPM   float64
	SustainedAfterSec float64
	PerfectSpeedWPM   float64
	PerfectAccuracy   float64
	CheatingThreshold int
}

// DefaultThresholds returns the stock heuristic configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		WindowSize:         20,
		MinInterval:        30 * time.Millisecond,
		MinIntervalPenalty: 5,
		ExtremeInterval:    10 * time.Millisecond,
		ExtremePenalty:     15,

		BurstChars:         3,
		BurstWindow:        100 * time.Millisecond,
		BurstPenalty:       20,
		SourceMatchChars:   10,
		SourceMatchWindow:  500 * time.Millisecond,
		SourceMatchPenalty: 15,
		PastePenalty:       50,

		RhythmMinSamples:   5,
		RhythmMaxVariance:  100,
		RhythmMaxMean:      80 * time.Millisecond,
		RhythmPenalty:      10,
		RobotMaxMean:       40 * time.Millisecond,
		RobotPenalty:       20,
		PatternMinText:     20,
		PatternMinLength:   5,
		PatternPenalty:     25,
		RepeatRatio:        0.3,
		RepeatRatioPenalty: 10,

		MaxHumanWPM:       220,
		MaxSustainedWPM:   180,
		SustainedAfterSec: 30,
		PerfectSpeedWPM:   150,
		PerfectAccuracy:   99.9,
		CheatingThreshold: 50,
	}
}

// Validate reports the first nonsensical value.
func (t Thresholds) Validate() error {
	if t.WindowSize <= 0 {
		return fmt.Errorf("window size must be > 0")
	}
	if t.MinInterval < 0 || t.ExtremeInterval < 0 {
		return fmt.Errorf("keystroke intervals must be >= 0")
	}
	if t.MaxHumanWPM <= 0 || t.MaxSustainedWPM <= 0 {
		return fmt.Errorf("wpm limits must be > 0")
	}
	if t.CheatingThreshold <= 0 {
		return fmt.Errorf("cheating threshold must be > 0")
	}
	if t.RhythmMinSamples <= 0 {
		return fmt.Errorf("rhythm sample count must be > 0")
	}
	return nil
}
