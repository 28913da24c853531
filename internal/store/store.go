// Package store handles SQLite and PostgreSQL persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver.
	_ "modernc.org/sqlite"             // SQLite driver.

	"github.com/verte-zerg/typemaster/internal/model"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const progressionKey = "progression"

var (
	// ErrNotFound is returned when a key has never been written.
	ErrNotFound = errors.New("store: key not found")
	// ErrCorrupt is returned when a stored value cannot be decoded.
	ErrCorrupt = errors.New("store: corrupt value")
)

// Options selects the backend.
type Options struct {
	Driver string
	// Path is the SQLite database file.
	Path string
	// DSN is the PostgreSQL connection string.
	DSN string
}

// Store wraps database access for progression state and test history.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open opens or creates the database and applies migrations.
func Open(opts Options) (*Store, error) {
	var (
		db  *sql.DB
		d   dialect
		err error
	)
	switch opts.Driver {
	case "", DriverSQLite:
		if opts.Path == "" {
			return nil, errors.New("sqlite path is required")
		}
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, err
		}
		db, err = sql.Open("sqlite", opts.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database %q: %w", opts.Path, err)
		}
		db.SetMaxOpenConns(1)
		d = sqliteDialect
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, errors.New("postgres dsn is required")
		}
		db, err = sql.Open("pgx", opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		d = postgresDialect
	default:
		return nil, fmt.Errorf("unsupported store driver %q: must be sqlite or postgres", opts.Driver)
	}

	store := &Store{db: db, dialect: d}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Driver returns the backend name.
func (s *Store) Driver() string {
	return s.dialect.name
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

// GetJSON decodes the value stored under key into dst.
func (s *Store) GetJSON(ctx context.Context, key string, dst any) error {
	var raw string
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`SELECT value FROM kv WHERE key = ?`), key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return nil
}

// SetJSON stores v under key, replacing any previous value.
func (s *Store) SetJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, s.dialect.rebind(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		key, string(raw), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// LoadState returns the saved progression. found is false on first run.
func (s *Store) LoadState(ctx context.Context) (model.ProgressionState, bool, error) {
	var state model.ProgressionState
	err := s.GetJSON(ctx, progressionKey, &state)
	if errors.Is(err, ErrNotFound) {
		return model.ProgressionState{}, false, nil
	}
	if err != nil {
		return model.ProgressionState{}, false, err
	}
	return state, true, nil
}

// SaveState persists the progression.
func (s *Store) SaveState(ctx context.Context, state model.ProgressionState) error {
	return s.SetJSON(ctx, progressionKey, state)
}

// AppendRecord stores a test record and keeps only the most recent limit
// records.
func (s *Store) AppendRecord(ctx context.Context, rec model.TestRecord, limit int) (err error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode test record: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx, s.dialect.rebind(
		`INSERT INTO test_history (id, mode, wpm, accuracy, recorded_at, data)
		 VALUES (?, ?, ?, ?, ?, ?)`),
		rec.ID,
		string(rec.Mode),
		rec.WPM,
		rec.Accuracy,
		rec.Timestamp.UTC().Format(time.RFC3339Nano),
		string(raw),
	)
	if err != nil {
		return fmt.Errorf("failed to insert test record: %w", err)
	}

	if limit > 0 {
		_, err = tx.ExecContext(ctx, s.dialect.rebind(
			`DELETE FROM test_history WHERE seq NOT IN (
				SELECT seq FROM test_history ORDER BY seq DESC LIMIT ?
			)`), limit)
		if err != nil {
			return fmt.Errorf("failed to trim history: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

// ListHistory returns stored test records, oldest first.
func (s *Store) ListHistory(ctx context.Context) ([]model.TestRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM test_history ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.TestRecord
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var rec model.TestRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("%w: history: %v", ErrCorrupt, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// CountHistory returns the number of stored test records.
func (s *Store) CountHistory(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM test_history`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type dialect struct {
	name     string
	schema   []string
	numbered bool
}

// rebind rewrites ? placeholders as $n for drivers that need numbered ones.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var sqliteDialect = dialect{
	name: DriverSQLite,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS test_history (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			mode TEXT NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			recorded_at TEXT NOT NULL,
			data TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_test_history_recorded_at ON test_history(recorded_at);`,
	},
}

var postgresDialect = dialect{
	name:     DriverPostgres,
	numbered: true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS test_history (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			mode TEXT NOT NULL,
			wpm DOUBLE PRECISION NOT NULL,
			accuracy DOUBLE PRECISION NOT NULL,
			recorded_at TEXT NOT NULL,
			data TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_test_history_recorded_at ON test_history(recorded_at);`,
	},
}
