// Package links turns a roster export into the numbered work-item list a
// campaign runs against.
package links

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fr4nk3nst1ner/brsalaries/internal/models"
	"github.com/google/renameio/v2"
)

const (
	LinkColumn   = "Player_Link"
	PlayerColumn = "Player"
)

// ErrMissingColumn is returned when the CSV header lacks a required column
var ErrMissingColumn = errors.New("missing column")

// Extract reads a CSV with Player_Link and Player columns and returns one
// work item per distinct link, numbered 1..n in first-seen order. Rows with
// an empty link are skipped; a repeated link keeps its first player name.
func Extract(r io.Reader) ([]models.WorkItem, error) {
	cr := csv.NewReader(stripBOM(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	linkIdx, playerIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case LinkColumn:
			linkIdx = i
		case PlayerColumn:
			playerIdx = i
		}
	}
	if linkIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, LinkColumn)
	}
	if playerIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, PlayerColumn)
	}

	seen := make(map[string]bool)
	var items []models.WorkItem
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if linkIdx >= len(record) {
			continue
		}
		link := strings.TrimSpace(record[linkIdx])
		if link == "" || seen[link] {
			continue
		}
		seen[link] = true

		var player string
		if playerIdx < len(record) {
			player = strings.TrimSpace(record[playerIdx])
		}
		items = append(items, models.WorkItem{
			ID:    len(items) + 1,
			URL:   link,
			Label: player,
		})
	}
	return items, nil
}

// ExtractFile is Extract over the file at path
func ExtractFile(path string) ([]models.WorkItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Extract(f)
}

// Load reads a work-item list written by Save
func Load(path string) ([]models.WorkItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []models.WorkItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return items, nil
}

// Save writes items as an indented JSON array
func Save(path string, items []models.WorkItem) error {
	if items == nil {
		items = []models.WorkItem{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return renameio.WriteFile(path, append(data, '\n'), 0o644)
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	c, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if c != '\uFEFF' {
		_ = br.UnreadRune()
	}
	return br
}
