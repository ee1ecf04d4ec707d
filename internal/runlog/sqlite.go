// Package runlog archives completed runs to a local SQLite database so
// past tool choices and failure patterns stay inspectable.
package runlog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"reelforge/internal/core"

	_ "modernc.org/sqlite"
)

//go:embed migrations/001_initial_schema.sql
var migrationV1 string

// Store implements core.RunStore over SQLite.
type Store struct {
	dbPath string
	db     *sql.DB
	mu     sync.RWMutex
}

// Open creates the database file if needed, applies migrations, and
// returns a ready store.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating run log directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening run log database: %w", err)
	}

	s := &Store{dbPath: dbPath, db: db}
	if err := s.migrate(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("running migrations: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		// Table doesn't exist yet, run initial migration.
		version = 0
	}

	if version < 1 {
		if _, err := s.db.Exec(migrationV1); err != nil {
			return fmt.Errorf("applying migration v1: %w", err)
		}
	}
	return nil
}

// SaveRun persists a run record and its attempt history in one transaction.
func (s *Store) SaveRun(ctx context.Context, rec *core.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec == nil || rec.ID == "" {
		return core.ErrValidation("run_record", "record must have an ID")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, topic, style, quality, scene_count,
			estimated_cost, estimated_time, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			topic = excluded.topic,
			style = excluded.style,
			quality = excluded.quality,
			scene_count = excluded.scene_count,
			estimated_cost = excluded.estimated_cost,
			estimated_time = excluded.estimated_time,
			created_at = excluded.created_at
	`,
		rec.ID, rec.Topic, string(rec.Style), string(rec.Quality),
		rec.SceneCount, rec.EstimatedCost, rec.EstimatedTime, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting run: %w", err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM run_attempts WHERE run_id = ?", rec.ID)
	if err != nil {
		return fmt.Errorf("clearing existing attempts: %w", err)
	}

	for _, a := range rec.Attempts {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_attempts (
				run_id, scene_number, tool, status,
				failure_kind, error, attempt_number, duration_ms
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			rec.ID, a.SceneNumber, a.Tool, string(a.Status),
			nullableString(string(a.FailureKind)), nullableString(a.Err),
			a.AttemptNumber, a.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("inserting attempt for scene %d: %w", a.SceneNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// LoadRun retrieves one run with its full attempt history. Returns
// a not-found error when no run has the given ID.
func (s *Store) LoadRun(ctx context.Context, id string) (*core.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec core.RunRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, topic, style, quality, scene_count,
		       estimated_cost, estimated_time, created_at
		FROM runs WHERE id = ?
	`, id).Scan(
		&rec.ID, &rec.Topic, &rec.Style, &rec.Quality,
		&rec.SceneCount, &rec.EstimatedCost, &rec.EstimatedTime, &rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound("run", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT scene_number, tool, status, failure_kind, error,
		       attempt_number, duration_ms
		FROM run_attempts WHERE run_id = ?
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("loading attempts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a core.ExecutionAttempt
		var failureKind, errStr sql.NullString
		var durationMS int64
		err := rows.Scan(&a.SceneNumber, &a.Tool, &a.Status, &failureKind, &errStr,
			&a.AttemptNumber, &durationMS)
		if err != nil {
			return nil, fmt.Errorf("scanning attempt: %w", err)
		}
		if failureKind.Valid {
			a.FailureKind = core.FailureKind(failureKind.String)
		}
		if errStr.Valid {
			a.Err = errStr.String
		}
		a.Duration = time.Duration(durationMS) * time.Millisecond
		rec.Attempts = append(rec.Attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attempts: %w", err)
	}

	return &rec, nil
}

// RecentRuns lists the newest runs first, without attempt histories.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]core.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, topic, style, quality, scene_count,
		       estimated_cost, estimated_time, created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var records []core.RunRecord
	for rows.Next() {
		var rec core.RunRecord
		err := rows.Scan(
			&rec.ID, &rec.Topic, &rec.Style, &rec.Quality,
			&rec.SceneCount, &rec.EstimatedCost, &rec.EstimatedTime, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return records, nil
}

func nullableString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

var _ core.RunStore = (*Store)(nil)
