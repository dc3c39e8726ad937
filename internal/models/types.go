package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// WorkItem is a single scrape target produced by the link extractor
type WorkItem struct {
	ID    int    `json:"id"`
	URL   string `json:"url"`
	Label string `json:"player"`
}

// Status tags the outcome of scraping one work item
type Status string

const (
	StatusOK         Status = "ok"
	StatusNoData     Status = "no_data"
	StatusFetchError Status = "fetch_error"
	StatusParseError Status = "parse_error"
)

// Failed reports whether the entry was produced by a fetch or parse failure
func (s Status) Failed() bool {
	return s == StatusFetchError || s == StatusParseError
}

// SalaryRecord maps a season year to the salary paid that year
type SalaryRecord map[int]int64

// Years returns the record's years in ascending order
func (r SalaryRecord) Years() []int {
	years := make([]int, 0, len(r))
	for y := range r {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Total sums every salary in the record
func (r SalaryRecord) Total() int64 {
	var total int64
	for _, v := range r {
		total += v
	}
	return total
}

// MarshalJSON writes the record as {"<year>": amount}, never null
func (r SalaryRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]int64, len(r))
	for y, v := range r {
		out[strconv.Itoa(y)] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the {"<year>": amount} form
func (r *SalaryRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rec := make(SalaryRecord, len(raw))
	for k, v := range raw {
		year, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("invalid year key %q: %w", k, err)
		}
		rec[year] = v
	}
	*r = rec
	return nil
}

// ResultEntry is the persisted result for one work item
type ResultEntry struct {
	ID       int          `json:"id"`
	Label    string       `json:"player"`
	Salaries SalaryRecord `json:"salaries"`
	Status   Status       `json:"status"`
	Reason   string       `json:"reason,omitempty"`
}

// SortByID orders entries ascending by id in place
func SortByID(entries []ResultEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
}

// ScrapeProgress tracks counts for a running campaign
type ScrapeProgress struct {
	Total     int            `json:"total"`
	Skipped   int            `json:"skipped"`
	Processed int            `json:"processed"`
	ByStatus  map[Status]int `json:"by_status"`
}

// Record counts one finished entry
func (p *ScrapeProgress) Record(entry ResultEntry) {
	if p.ByStatus == nil {
		p.ByStatus = make(map[Status]int)
	}
	p.Processed++
	p.ByStatus[entry.Status]++
}
