// Package export writes progression and test history to portable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/verte-zerg/typemaster/internal/model"
)

// Format is an export file format.
type Format string

// Export formats.
const (
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCSV, FormatParquet:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q: must be json, csv or parquet", s)
	}
}

// Bundle is everything a user owns.
type Bundle struct {
	ExportedAt  time.Time              `json:"exportedAt"`
	Progression model.ProgressionState `json:"progression"`
	History     []model.TestRecord     `json:"history"`
}

// Write encodes b in format f. CSV and Parquet carry the history only.
func Write(w io.Writer, f Format, b Bundle) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, b)
	case FormatCSV:
		return WriteCSV(w, b.History)
	case FormatParquet:
		return WriteParquet(w, b.History)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// WriteJSON writes the bundle as indented JSON.
func WriteJSON(w io.Writer, b Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to encode json export: %w", err)
	}
	return nil
}

var csvHeader = []string{
	"id", "timestamp", "mode", "wpm", "accuracy", "errors", "characters",
	"duration", "difficulty", "lesson", "time_limit", "completed", "passed",
	"target_wpm", "target_accuracy", "xp_earned", "cheating_score",
}

// WriteCSV writes one row per test.
func WriteCSV(w io.Writer, records []model.TestRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.ID,
			r.Timestamp.UTC().Format(time.RFC3339),
			string(r.Mode),
			strconv.FormatFloat(r.WPM, 'f', -1, 64),
			strconv.FormatFloat(r.Accuracy, 'f', -1, 64),
			strconv.Itoa(r.Errors),
			strconv.Itoa(r.Characters),
			strconv.FormatFloat(r.DurationSec, 'f', 2, 64),
			r.Difficulty,
			r.LessonID,
			strconv.Itoa(r.TimeLimitSec),
			strconv.FormatBool(r.Completed),
			strconv.FormatBool(r.Passed),
			strconv.Itoa(r.TargetWPM),
			strconv.Itoa(r.TargetAccuracy),
			strconv.Itoa(r.XPEarned),
			strconv.Itoa(r.SuspicionScore),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write csv export: %w", err)
	}
	return nil
}

// TestRow is the Parquet schema of a test record.
type TestRow struct {
	ID             string    `parquet:"id,snappy"`
	Timestamp      time.Time `parquet:"timestamp,snappy"`
	Mode           string    `parquet:"mode,snappy,dict"`
	WPM            float64   `parquet:"wpm,snappy"`
	Accuracy       float64   `parquet:"accuracy,snappy"`
	Errors         int32     `parquet:"errors,snappy"`
	Characters     int32     `parquet:"characters,snappy"`
	DurationSec    float64   `parquet:"duration_sec,snappy"`
	Difficulty     *string   `parquet:"difficulty,optional,snappy"`
	LessonID       *string   `parquet:"lesson_id,optional,snappy"`
	TimeLimitSec   int32     `parquet:"time_limit_sec,snappy"`
	Completed      bool      `parquet:"completed"`
	Passed         bool      `parquet:"passed"`
	TargetWPM      int32     `parquet:"target_wpm,snappy"`
	TargetAccuracy int32     `parquet:"target_accuracy,snappy"`
	XPEarned       int32     `parquet:"xp_earned,snappy"`
	CheatingScore  int32     `parquet:"cheating_score,snappy"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ToRows converts records to the Parquet schema.
func ToRows(records []model.TestRecord) []TestRow {
	rows := make([]TestRow, len(records))
	for i, r := range records {
		rows[i] = TestRow{
			ID:             r.ID,
			Timestamp:      r.Timestamp.UTC(),
			Mode:           string(r.Mode),
			WPM:            r.WPM,
			Accuracy:       r.Accuracy,
			Errors:         int32(r.Errors),
			Characters:     int32(r.Characters),
			DurationSec:    r.DurationSec,
			Difficulty:     optional(r.Difficulty),
			LessonID:       optional(r.LessonID),
			TimeLimitSec:   int32(r.TimeLimitSec),
			Completed:      r.Completed,
			Passed:         r.Passed,
			TargetWPM:      int32(r.TargetWPM),
			TargetAccuracy: int32(r.TargetAccuracy),
			XPEarned:       int32(r.XPEarned),
			CheatingScore:  int32(r.SuspicionScore),
		}
	}
	return rows
}

// WriteParquet writes the history as a Parquet file.
func WriteParquet(w io.Writer, records []model.TestRecord) error {
	writer := parquet.NewGenericWriter[TestRow](w)
	if _, err := writer.Write(ToRows(records)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
