// Package store handles SQLite persistence of exported analysis runs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/pentrust/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// createdAtLayout keeps a fixed-width fraction so text order matches time order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned when a run ID is not in the store.
var ErrRunNotFound = errors.New("run not found")

// RunInfo is one row of the run history.
type RunInfo struct {
	ID                string
	CreatedAt         time.Time
	Pages             int
	MeanClarity       float64
	MeanEmpathy       float64
	MeanAccessibility float64
}

// Store wraps SQLite access for exported runs.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			pages INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_records (
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			identifier TEXT NOT NULL,
			clarity INTEGER NOT NULL,
			empathy INTEGER NOT NULL,
			accessibility INTEGER NOT NULL,
			reading_level TEXT NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_run_records_identifier ON run_records(identifier);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveBatch stores a batch and its records in one transaction. Saving the
// same run twice replaces the earlier copy.
func (s *Store) SaveBatch(ctx context.Context, batch model.Batch) (err error) {
	if batch.RunID == "" {
		return errors.New("batch has no run id")
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

	if _, err = tx.ExecContext(ctx, `DELETE FROM run_records WHERE run_id = ?`, batch.RunID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, created_at, pages) VALUES (?, ?, ?)`,
		batch.RunID,
		batch.CreatedAt.UTC().Format(createdAtLayout),
		batch.Len(),
	); err != nil {
		return err
	}

	if batch.Len() > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO run_records (run_id, position, identifier, clarity, empathy, accessibility, reading_level, payload)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, rec := range batch.Records {
			payload, merr := json.Marshal(rec)
			if merr != nil {
				err = fmt.Errorf("failed to encode record %q: %w", rec.Identifier, merr)
				return err
			}
			if _, err = stmt.ExecContext(ctx, batch.RunID, i, string(rec.Identifier),
				rec.Scores.Clarity, rec.Scores.Empathy, rec.Scores.Accessibility,
				string(rec.ReadingLevel), string(payload)); err != nil {
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	query := `SELECT r.id, r.created_at, r.pages,
		COALESCE(AVG(rr.clarity), 0), COALESCE(AVG(rr.empathy), 0), COALESCE(AVG(rr.accessibility), 0)
		FROM runs r
		LEFT JOIN run_records rr ON rr.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []RunInfo
	for rows.Next() {
		var info RunInfo
		var createdAt string
		if err := rows.Scan(&info.ID, &createdAt, &info.Pages, &info.MeanClarity, &info.MeanEmpathy, &info.MeanAccessibility); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		info.CreatedAt = parsed
		runs = append(runs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// LoadRun restores a saved batch with its records in original order.
func (s *Store) LoadRun(ctx context.Context, id string) (model.Batch, error) {
	var createdAt string
	err := s.db.QueryRowContext(ctx, `SELECT created_at FROM runs WHERE id = ?`, id).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Batch{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return model.Batch{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.Batch{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM run_records WHERE run_id = ? ORDER BY position ASC`, id)
	if err != nil {
		return model.Batch{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	batch := model.Batch{RunID: id, CreatedAt: parsed, Records: []model.Record{}}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return model.Batch{}, err
		}
		var rec model.Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return model.Batch{}, fmt.Errorf("failed to decode record: %w", err)
		}
		batch.Records = append(batch.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return model.Batch{}, err
	}
	return batch, nil
}

// DeleteRun removes a run and its records.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM run_records WHERE run_id = ?`, id)
	return err
}
