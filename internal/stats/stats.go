// Package stats contains result metrics and text reporting.
package stats

import (
	"math"
	"time"
)

// Metrics computes the recorded WPM and accuracy of an attempt. WPM counts
// five typed characters as a word. An attempt with nothing typed is 100%
// accurate.
func Metrics(typed, errors int, elapsed time.Duration) (wpm, accuracy float64) {
	accuracy = 100
	if typed > 0 {
		accuracy = math.Round((1 - float64(errors)/float64(typed)) * 100)
		accuracy = math.Max(0, math.Min(100, accuracy))
	}
	minutes := elapsed.Minutes()
	if minutes <= 0 {
		return 0, accuracy
	}
	wpm = math.Round((float64(typed) / 5.0) / minutes)
	return wpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}
