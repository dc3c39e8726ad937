package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fr4nk3nst1ner/brsalaries/internal/models"
)

// WriteJSON writes entries as the indented JSON array the checkpoint uses
func WriteJSON(w io.Writer, entries []models.ResultEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sorted(entries))
}

// WriteCSV flattens entries to one row per player with a salaries.<year>
// column for every year seen in any entry.
func WriteCSV(w io.Writer, entries []models.ResultEntry) error {
	entries = sorted(entries)

	yearSet := make(map[int]struct{})
	for _, e := range entries {
		for y := range e.Salaries {
			yearSet[y] = struct{}{}
		}
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	header := []string{"id", "player", "status"}
	for _, y := range years {
		header = append(header, fmt.Sprintf("salaries.%d", y))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{strconv.Itoa(e.ID), e.Label, string(e.Status)}
		for _, y := range years {
			cell := ""
			if v, ok := e.Salaries[y]; ok {
				cell = strconv.FormatInt(v, 10)
			}
			row = append(row, cell)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
