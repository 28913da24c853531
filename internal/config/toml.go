// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/typemaster/internal/integrity"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice  PracticeConfig  `toml:"practice"`
	Integrity IntegrityConfig `toml:"integrity"`
	Store     StoreConfig     `toml:"store"`
	Log       LogConfig       `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Mode       *string  `toml:"mode"`
	Difficulty *string  `toml:"difficulty"`
	Duration   *int     `toml:"duration"`
	Lang       *string  `toml:"lang"`
	Words      *int     `toml:"words"`
	CapsPct    *float64 `toml:"caps"`
	PunctPct   *float64 `toml:"punct"`
	PunctSet   *string  `toml:"punct-set"`
	WordList   *string  `toml:"wordlist"`
	Text       *string  `toml:"text"`
	AntiCheat  *bool    `toml:"anti-cheat"`
}

// IntegrityConfig overrides integrity thresholds. Intervals are milliseconds.
type IntegrityConfig struct {
	WindowSize        *int     `toml:"window-size"`
	MinIntervalMs     *int     `toml:"min-interval-ms"`
	ExtremeIntervalMs *int     `toml:"extreme-interval-ms"`
	BurstChars        *int     `toml:"burst-chars"`
	BurstWindowMs     *int     `toml:"burst-window-ms"`
	PastePenalty      *int     `toml:"paste-penalty"`
	MaxHumanWPM       *float64 `toml:"max-human-wpm"`
	MaxSustainedWPM   *float64 `toml:"max-sustained-wpm"`
	SustainedAfterSec *float64 `toml:"sustained-after-sec"`
	PerfectSpeedWPM   *float64 `toml:"perfect-speed-wpm"`
	PerfectAccuracy   *float64 `toml:"perfect-accuracy"`
	CheatingThreshold *int     `toml:"cheating-threshold"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver *string `toml:"driver"`
	Path   *string `toml:"path"`
	DSN    *string `toml:"dsn"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
	File   *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Thresholds applies the overrides to base and validates the result.
func (c IntegrityConfig) Thresholds(base integrity.Thresholds) (integrity.Thresholds, error) {
	th := base
	setInt(&th.WindowSize, c.WindowSize)
	setMillis(&th.MinInterval, c.MinIntervalMs)
	setMillis(&th.ExtremeInterval, c.ExtremeIntervalMs)
	setInt(&th.BurstChars, c.BurstChars)
	setMillis(&th.BurstWindow, c.BurstWindowMs)
	setInt(&th.PastePenalty, c.PastePenalty)
	setFloat(&th.MaxHumanWPM, c.MaxHumanWPM)
	setFloat(&th.MaxSustainedWPM, c.MaxSustainedWPM)
	setFloat(&th.SustainedAfterSec, c.SustainedAfterSec)
	setFloat(&th.PerfectSpeedWPM, c.PerfectSpeedWPM)
	setFloat(&th.PerfectAccuracy, c.PerfectAccuracy)
	setInt(&th.CheatingThreshold, c.CheatingThreshold)
	if err := th.Validate(); err != nil {
		return integrity.Thresholds{}, fmt.Errorf("invalid [integrity] config: %w", err)
	}
	return th, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setMillis(dst *time.Duration, v *int) {
	if v != nil {
		*dst = time.Duration(*v) * time.Millisecond
	}
}
