package progression

import "math"

// XPForLevel returns the XP needed to advance into level.
func XPForLevel(level int) int {
	return int(math.Floor(100 * math.Pow(float64(level), 1.5)))
}

// UnlockKind separates cosmetic themes from feature toggles.
type UnlockKind string

// Unlock kinds.
const (
	UnlockTheme   UnlockKind = "theme"
	UnlockFeature UnlockKind = "feature"
)

// LevelUnlock is granted the first time a level is reached.
type LevelUnlock struct {
	Level int
	Kind  UnlockKind
	Name  string
}

// DefaultTheme is available from level 1.
const DefaultTheme = "midnight"

var levelUnlocks = []LevelUnlock{
	{Level: 5, Kind: UnlockTheme, Name: "forest"},
	{Level: 10, Kind: UnlockTheme, Name: "sunset"},
	{Level: 15, Kind: UnlockTheme, Name: "ocean"},
	{Level: 20, Kind: UnlockTheme, Name: "matrix"},
	{Level: 25, Kind: UnlockFeature, Name: "retro-sounds"},
	{Level: 30, Kind: UnlockFeature, Name: "custom-cursors"},
}

// LevelUnlocks returns the level-gated unlock table.
func LevelUnlocks() []LevelUnlock {
	return append([]LevelUnlock(nil), levelUnlocks...)
}

func unlocksAt(level int) []LevelUnlock {
	var out []LevelUnlock
	for _, u := range levelUnlocks {
		if u.Level == level {
			out = append(out, u)
		}
	}
	return out
}

type rank struct {
	minLevel int
	name     string
}

var ranks = []rank{
	{minLevel: 1, name: "Beginner"},
	{minLevel: 5, name: "Novice"},
	{minLevel: 10, name: "Intermediate"},
	{minLevel: 20, name: "Advanced"},
	{minLevel: 30, name: "Expert"},
	{minLevel: 40, name: "Master"},
	{minLevel: 50, name: "Grandmaster"},
}

// Rank returns the label for the highest rank threshold level meets.
func Rank(level int) string {
	for i := len(ranks) - 1; i >= 0; i-- {
		if level >= ranks[i].minLevel {
			return ranks[i].name
		}
	}
	return ranks[0].name
}
