package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/typemaster/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "nested", "typemaster.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return s
}

func TestLoadStateMissing(t *testing.T) {
	s := openTestStore(t)
	_, found, err := s.LoadState(context.Background())
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if found {
		t.Fatalf("expected no stored state")
	}
}

func TestSaveAndLoadState(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	unlocked := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	want := model.ProgressionState{
		Level:          3,
		XP:             120,
		StreakDays:     2,
		LastActiveDate: "2024-05-01",
		Achievements: map[string]model.AchievementUnlock{
			"first_test": {UnlockedAt: unlocked, XPReward: 50},
		},
		UnlockedThemes:   []string{"midnight"},
		CompletedLessons: []string{"home1"},
	}
	if err := s.SaveState(ctx, want); err != nil {
		t.Fatalf("save state: %v", err)
	}
	want.XP = 150
	if err := s.SaveState(ctx, want); err != nil {
		t.Fatalf("overwrite state: %v", err)
	}

	got, found, err := s.LoadState(ctx)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if !found {
		t.Fatalf("expected stored state")
	}
	if got.Level != 3 || got.XP != 150 || got.StreakDays != 2 {
		t.Fatalf("unexpected state: %+v", got)
	}
	if u, ok := got.Achievements["first_test"]; !ok || !u.UnlockedAt.Equal(unlocked) || u.XPReward != 50 {
		t.Fatalf("unexpected achievement: %+v", got.Achievements)
	}
	if len(got.CompletedLessons) != 1 || got.CompletedLessons[0] != "home1" {
		t.Fatalf("unexpected lessons: %v", got.CompletedLessons)
	}
}

func TestGetJSONCorrupt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)`, progressionKey, "{not json", "x"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, _, err := s.LoadState(ctx)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestGetJSONNotFound(t *testing.T) {
	s := openTestStore(t)
	var v map[string]int
	if err := s.GetJSON(context.Background(), "missing", &v); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAppendRecordTrims(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		rec := model.TestRecord{
			ID:        fmt.Sprintf("rec-%d", i),
			Mode:      model.ModeNormal,
			WPM:       float64(40 + i),
			Accuracy:  95,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.AppendRecord(ctx, rec, 5); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	n, err := s.CountHistory(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 records, got %d", n)
	}

	records, err := s.ListHistory(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	if records[0].ID != "rec-2" || records[4].ID != "rec-6" {
		t.Fatalf("unexpected order: first=%s last=%s", records[0].ID, records[4].ID)
	}
	if records[4].WPM != 46 || !records[4].Timestamp.Equal(base.Add(6*time.Minute)) {
		t.Fatalf("unexpected record: %+v", records[4])
	}
}

func TestAppendRecordDuplicateIDRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	rec := model.TestRecord{ID: "dup", Mode: model.ModeTimer, Timestamp: time.Now()}
	if err := s.AppendRecord(ctx, rec, 100); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendRecord(ctx, rec, 100); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	n, err := s.CountHistory(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 record, got %d", n)
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := Open(Options{Driver: "mysql"}); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
	if _, err := Open(Options{Driver: DriverPostgres}); err == nil {
		t.Fatalf("expected error for missing dsn")
	}
}

func TestRebind(t *testing.T) {
	got := postgresDialect.rebind(`SELECT a FROM t WHERE b = ? AND c = ?`)
	want := `SELECT a FROM t WHERE b = $1 AND c = $2`
	if got != want {
		t.Fatalf("rebind = %q, want %q", got, want)
	}
	if sqliteDialect.rebind(want) != want {
		t.Fatalf("sqlite rebind should be identity")
	}
}
