package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fr4nk3nst1ner/brsalaries/internal/models"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS result_entry (
	id       INTEGER PRIMARY KEY,
	player   TEXT NOT NULL,
	status   TEXT NOT NULL,
	reason   TEXT NOT NULL DEFAULT '',
	salaries TEXT NOT NULL DEFAULT '{}'
);`

// SQLiteStore keeps the checkpoint in a sqlite database. Each Save is one
// transaction, so a crash leaves the previous checkpoint in place.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the checkpoint database at path
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Op: "open", Path: path, Err: err}
	}
	s, err := NewSQLiteStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, &StoreError{Op: "open", Path: path, Err: err}
	}
	s.path = path
	return s, nil
}

// NewSQLiteStore wraps an open database and ensures the schema exists
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	// a single connection keeps ":memory:" databases coherent and serialises writers
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) ([]models.ResultEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, player, status, reason, salaries FROM result_entry ORDER BY id`)
	if err != nil {
		return nil, &StoreError{Op: "load", Path: s.path, Err: err}
	}
	defer rows.Close()

	entries := []models.ResultEntry{}
	for rows.Next() {
		var (
			entry    models.ResultEntry
			status   string
			salaries string
		)
		if err := rows.Scan(&entry.ID, &entry.Label, &status, &entry.Reason, &salaries); err != nil {
			return nil, &StoreError{Op: "load", Path: s.path, Err: err}
		}
		if err := json.Unmarshal([]byte(salaries), &entry.Salaries); err != nil {
			return nil, &StoreError{
				Op:   "load",
				Path: s.path,
				Err:  fmt.Errorf("%w: entry %d salaries: %v", ErrCorrupt, entry.ID, err),
			}
		}
		entry.Status = models.Status(status)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "load", Path: s.path, Err: err}
	}

	normalize(entries)
	return entries, nil
}

func (s *SQLiteStore) Save(ctx context.Context, entries []models.ResultEntry) error {
	if err := checkUnique(entries); err != nil {
		return &StoreError{Op: "save", Path: s.path, Err: err}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StoreError{Op: "save", Path: s.path, Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM result_entry`); err != nil {
		return &StoreError{Op: "save", Path: s.path, Err: err}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO result_entry (id, player, status, reason, salaries) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return &StoreError{Op: "save", Path: s.path, Err: err}
	}
	defer stmt.Close()

	for _, e := range sorted(entries) {
		salaries, err := json.Marshal(e.Salaries)
		if err != nil {
			return &StoreError{Op: "save", Path: s.path, Err: err}
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.Label, string(e.Status), e.Reason, string(salaries)); err != nil {
			return &StoreError{Op: "save", Path: s.path, Err: fmt.Errorf("insert entry %d: %w", e.ID, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StoreError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
