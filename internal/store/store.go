// Package store persists the campaign checkpoint: one ResultEntry per
// finished work item, ordered by id, rewritten as a whole after every unit
// of work so a restart resumes from the last durable state.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/fr4nk3nst1ner/brsalaries/internal/models"
)

// ErrCorrupt means the checkpoint exists but cannot be trusted
var ErrCorrupt = errors.New("checkpoint is corrupt")

// Store is the durable checkpoint of completed work
type Store interface {
	// Load returns every persisted entry sorted by id. A missing
	// checkpoint is an empty one.
	Load(ctx context.Context) ([]models.ResultEntry, error)
	// Save atomically replaces the checkpoint with entries
	Save(ctx context.Context, entries []models.ResultEntry) error
	Close() error
}

// StoreError is a failure to read or write durable storage. Unlike item
// level failures it is fatal to a run.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("checkpoint %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Kind names a checkpoint backend
type Kind string

const (
	KindJSON   Kind = "json"
	KindSQLite Kind = "sqlite"
)

// Open returns the store of the given kind located at path
func Open(ctx context.Context, kind Kind, path string) (Store, error) {
	switch kind {
	case KindJSON, "":
		return NewJSONStore(path), nil
	case KindSQLite:
		return OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown store kind %q (use json or sqlite)", kind)
	}
}

// checkUnique rejects entry sets that repeat an id
func checkUnique(entries []models.ResultEntry) error {
	seen := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrCorrupt, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}

// sorted returns a copy of entries ordered by id
func sorted(entries []models.ResultEntry) []models.ResultEntry {
	out := make([]models.ResultEntry, len(entries))
	copy(out, entries)
	models.SortByID(out)
	return out
}

// normalize fills in fields missing from checkpoints written without a
// status column: a non-empty record counts as ok, an empty one as no data.
func normalize(entries []models.ResultEntry) {
	for i := range entries {
		if entries[i].Salaries == nil {
			entries[i].Salaries = models.SalaryRecord{}
		}
		if entries[i].Status != "" {
			continue
		}
		if len(entries[i].Salaries) > 0 {
			entries[i].Status = models.StatusOK
		} else {
			entries[i].Status = models.StatusNoData
		}
	}
}
