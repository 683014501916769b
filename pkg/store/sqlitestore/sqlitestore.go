// Package sqlitestore implements store.Store on an embedded SQLite database.
//
// All records live in a single results table keyed by name. Each Put is a
// single upsert statement, which SQLite applies atomically.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/adrestia/pdv/pkg/result"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// FileName is the database file created under the root directory.
const FileName = "results.db"

const schema = `
CREATE TABLE IF NOT EXISTS results (
    name TEXT PRIMARY KEY,
    outcome TEXT NOT NULL,
    time REAL NOT NULL
);
`

// Store persists records in SQLite.
type Store struct {
	dir    string
	db     *sql.DB
	logger *logrus.Logger
}

// New returns a Store whose database lives under dir. Call Init before use.
func New(dir string, logger *logrus.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logger,
	}
}

// Path returns the database file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Init creates the root directory, opens the database and applies the
// schema. Calling it again on an open store only re-applies the schema.
func (s *Store) Init(ctx context.Context) error {
	if s.dir == "" {
		return fmt.Errorf("%w: results directory is not set", result.ErrStorageUnavailable)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("%w: create %s: %v", result.ErrStorageUnavailable, s.dir, err)
	}

	if s.db == nil {
		dsn := s.Path() + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return fmt.Errorf("%w: open sqlite db: %v", result.ErrStorageUnavailable, err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return fmt.Errorf("%w: ping sqlite db: %v", result.ErrStorageUnavailable, err)
		}
		s.db = db
		s.logger.Infof("Opened results database %s", s.Path())
	}

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: apply schema: %v", result.ErrStorageUnavailable, err)
	}
	return nil
}

// Put upserts rec.
func (s *Store) Put(ctx context.Context, rec result.Record) error {
	if err := result.ValidateName(rec.Name); err != nil {
		return err
	}
	if s.db == nil {
		return fmt.Errorf("%w: store is not initialized", result.ErrStorageUnavailable)
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO results (name, outcome, time) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET outcome = excluded.outcome, time = excluded.time`,
		rec.Name, string(rec.Outcome), result.Seconds(rec.Time),
	)
	if err != nil {
		s.logger.Errorf("Failed to store result for %s: %v", rec.Name, err)
		return fmt.Errorf("upsert %s: %w", rec.Name, err)
	}

	s.logger.Debugf("Stored %s=%s in %s", rec.Name, rec.Outcome, s.Path())
	return nil
}

// All streams every row. Row order is whatever SQLite returns.
func (s *Store) All(ctx context.Context) iter.Seq2[result.Record, error] {
	return func(yield func(result.Record, error) bool) {
		if s.db == nil {
			yield(result.Record{}, fmt.Errorf("%w: store is not initialized", result.ErrStorageUnavailable))
			return
		}

		rows, err := s.db.QueryContext(ctx, `SELECT name, outcome, time FROM results`)
		if err != nil {
			yield(result.Record{}, fmt.Errorf("query results: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var (
				name    string
				outcome string
				ts      float64
			)
			if err := rows.Scan(&name, &outcome, &ts); err != nil {
				if !yield(result.Record{}, fmt.Errorf("%w: %v", result.ErrCorruptRecord, err)) {
					return
				}
				continue
			}
			s.logger.Debugf("Sampling %s from %s", name, s.Path())

			rec := result.Record{
				Name:    name,
				Outcome: result.Outcome(outcome),
				Time:    result.FromSeconds(ts),
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil && !errors.Is(err, context.Canceled) {
			yield(result.Record{}, fmt.Errorf("iterate results: %w", err))
		}
	}
}

// Clear deletes every row and returns the number deleted.
func (s *Store) Clear(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("%w: store is not initialized", result.ErrStorageUnavailable)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM results`)
	if err != nil {
		return 0, fmt.Errorf("delete results: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	s.logger.Infof("Cleared %d records from %s", n, s.Path())
	return int(n), nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
