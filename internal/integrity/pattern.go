package integrity

import (
	"strings"
	"unicode/utf8"
)

// RepeatingPatterns returns every substring of at least two runes that is
// immediately followed by an identical copy of itself, shortest first.
func RepeatingPatterns(text string) []string {
	runes := []rune(text)
	var patterns []string
	for size := 2; size <= len(runes)/2; size++ {
		for i := 0; i+2*size <= len(runes); i++ {
			if equalRunes(runes[i:i+size], runes[i+size:i+2*size]) {
				patterns = append(patterns, string(runes[i:i+size]))
			}
		}
	}
	return patterns
}

// ForeignPatterns returns the repeating patterns of at least minLen runes in
// text whose doubled form does not occur in reference.
func ForeignPatterns(text, reference string, minLen int) []string {
	var out []string
	for _, p := range RepeatingPatterns(text) {
		if utf8.RuneCountInString(p) < minLen {
			continue
		}
		if reference != "" && strings.Contains(reference, p+p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// RepeatRatio is the share of runes equal to their predecessor.
func RepeatRatio(runes []rune) float64 {
	if len(runes) == 0 {
		return 0
	}
	repeats := 0
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] {
			repeats++
		}
	}
	return float64(repeats) / float64(len(runes))
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
