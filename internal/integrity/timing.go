package integrity

import "time"

// TimingWindow keeps the most recent inter-keystroke intervals.
type TimingWindow struct {
	size    int
	samples []time.Duration
}

// NewTimingWindow returns an empty window holding at most size samples.
func NewTimingWindow(size int) *TimingWindow {
	if size <= 0 {
		size = 1
	}
	return &TimingWindow{size: size, samples: make([]time.Duration, 0, size)}
}

// Add appends a sample, evicting the oldest one when full.
func (w *TimingWindow) Add(d time.Duration) {
	if len(w.samples) == w.size {
		copy(w.samples, w.samples[1:])
		w.samples = w.samples[:len(w.samples)-1]
	}
	w.samples = append(w.samples, d)
}

// Len returns the number of stored samples.
func (w *TimingWindow) Len() int {
	return len(w.samples)
}

// Samples returns a copy of the samples, oldest first.
func (w *TimingWindow) Samples() []time.Duration {
	out := make([]time.Duration, len(w.samples))
	copy(out, w.samples)
	return out
}

// Clear drops all samples.
func (w *TimingWindow) Clear() {
	w.samples = w.samples[:0]
}

// Stats returns the mean and population variance of the samples in
// milliseconds.
func (w *TimingWindow) Stats() (mean, variance float64) {
	if len(w.samples) == 0 {
		return 0, 0
	}
	var sum float64
	for _, s := range w.samples {
		sum += millis(s)
	}
	n := float64(len(w.samples))
	mean = sum / n
	for _, s := range w.samples {
		d := millis(s) - mean
		variance += d * d
	}
	return mean, variance / n
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
