package prompt

import (
	"hash/fnv"
	"math/rand"
	"time"
)

const dailyChallengeText = "Complete this daily challenge to earn bonus XP and achievements. This text contains a mix of words, numbers (123), and symbols (!@#) to test your all-around typing skills. Type as fast as you can while maintaining high accuracy to complete the challenge successfully!"

// Challenge is the daily challenge for one calendar day.
type Challenge struct {
	Date           string
	Text           string
	TargetWPM      int
	TargetAccuracy int
}

// Passed reports whether a result meets both targets.
func (c Challenge) Passed(wpm, accuracy float64) bool {
	return wpm >= float64(c.TargetWPM) && accuracy >= float64(c.TargetAccuracy)
}

// DailyChallenge returns the challenge for the local calendar day of t.
// Targets are stable for the whole day: WPM in [40,69], accuracy in [90,99].
func DailyChallenge(t time.Time) Challenge {
	date := t.Format("2006-01-02")
	h := fnv.New64a()
	_, _ = h.Write([]byte(date))
	rnd := rand.New(rand.NewSource(int64(h.Sum64())))
	return Challenge{
		Date:           date,
		Text:           dailyChallengeText,
		TargetWPM:      rnd.Intn(30) + 40,
		TargetAccuracy: rnd.Intn(10) + 90,
	}
}
