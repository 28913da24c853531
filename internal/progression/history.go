package progression

import "github.com/verte-zerg/typemaster/internal/model"

// HistoryLimit is the number of most recent tests kept.
const HistoryLimit = 100

// History is an ordered log of completed tests, oldest first. Queries are
// recomputed on every call.
type History []model.TestRecord

// Append returns h with rec added, dropping the oldest records beyond limit.
func (h History) Append(rec model.TestRecord, limit int) History {
	out := make(History, 0, len(h)+1)
	out = append(out, h...)
	out = append(out, rec)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Count returns the number of recorded tests.
func (h History) Count() int {
	return len(h)
}

// BestWPM returns the highest WPM recorded.
func (h History) BestWPM() float64 {
	best := 0.0
	for _, r := range h {
		if r.WPM > best {
			best = r.WPM
		}
	}
	return best
}

// BestAccuracy returns the highest accuracy recorded.
func (h History) BestAccuracy() float64 {
	best := 0.0
	for _, r := range h {
		if r.Accuracy > best {
			best = r.Accuracy
		}
	}
	return best
}

// PerfectRuns counts tests finished with 100% accuracy.
func (h History) PerfectRuns() int {
	return h.countWhere(func(r model.TestRecord) bool { return r.Accuracy == 100 })
}

// ZeroErrorTests counts tests without a single error.
func (h History) ZeroErrorTests() int {
	return h.countWhere(func(r model.TestRecord) bool { return r.Errors == 0 })
}

// TestsAtOrAboveWPM counts tests with WPM of at least wpm.
func (h History) TestsAtOrAboveWPM(wpm float64) int {
	return h.countWhere(func(r model.TestRecord) bool { return r.WPM >= wpm })
}

// AverageWPM returns the mean WPM, or 0 for an empty history.
func (h History) AverageWPM() float64 {
	if len(h) == 0 {
		return 0
	}
	var sum float64
	for _, r := range h {
		sum += r.WPM
	}
	return sum / float64(len(h))
}

// AverageAccuracy returns the mean accuracy, or 0 for an empty history.
func (h History) AverageAccuracy() float64 {
	if len(h) == 0 {
		return 0
	}
	var sum float64
	for _, r := range h {
		sum += r.Accuracy
	}
	return sum / float64(len(h))
}

// Last returns the most recent n records, oldest first.
func (h History) Last(n int) History {
	if n <= 0 || n >= len(h) {
		return append(History(nil), h...)
	}
	return append(History(nil), h[len(h)-n:]...)
}

func (h History) countWhere(pred func(model.TestRecord) bool) int {
	n := 0
	for _, r := range h {
		if pred(r) {
			n++
		}
	}
	return n
}
