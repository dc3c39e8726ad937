package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fr4nk3nst1ner/brsalaries/internal/models"
	"github.com/google/renameio/v2"
)

// JSONStore keeps the checkpoint as an indented JSON array in one file
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) Load(ctx context.Context) ([]models.ResultEntry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.ResultEntry{}, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "load", Path: s.path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.ResultEntry{}, nil
	}

	var entries []models.ResultEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &StoreError{Op: "load", Path: s.path, Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
	}
	if err := checkUnique(entries); err != nil {
		return nil, &StoreError{Op: "load", Path: s.path, Err: err}
	}
	normalize(entries)
	return sorted(entries), nil
}

// Save replaces the checkpoint with the full entry set through a synced
// temp file renamed over the old one, so a reader never sees a torn file.
func (s *JSONStore) Save(ctx context.Context, entries []models.ResultEntry) error {
	if err := checkUnique(entries); err != nil {
		return &StoreError{Op: "save", Path: s.path, Err: err}
	}
	data, err := json.MarshalIndent(sorted(entries), "", "  ")
	if err != nil {
		return &StoreError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &StoreError{Op: "save", Path: s.path, Err: err}
	}
	if err := renameio.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return &StoreError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}
