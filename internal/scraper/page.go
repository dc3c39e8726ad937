package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/fr4nk3nst1ner/brsalaries/internal/client"
	"github.com/fr4nk3nst1ner/brsalaries/internal/models"
)

// Outcome is what scraping one page produced
type Outcome struct {
	Salaries models.SalaryRecord
	Status   models.Status
	Reason   string
}

// Scraper fetches player pages and extracts their salary history
type Scraper struct {
	fetcher client.Fetcher
	tableID string
	parser  TableParser
	logger  *slog.Logger
}

// New builds a Scraper. An empty tableID falls back to DefaultTableID.
func New(fetcher client.Fetcher, tableID string, parser TableParser, logger *slog.Logger) *Scraper {
	if tableID == "" {
		tableID = DefaultTableID
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{
		fetcher: fetcher,
		tableID: tableID,
		parser:  parser,
		logger:  logger,
	}
}

// Scrape fetches url and parses it. Failures are reported through the
// outcome status, never as an error.
func (s *Scraper) Scrape(ctx context.Context, url string) Outcome {
	s.logger.Debug("starting to scrape", "url", url)

	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		reason := client.ReasonOf(err)
		if reason == "" {
			reason = client.ReasonTransport
		}
		s.logger.Warn("fetch failed", "url", url, "reason", reason, "err", err)
		return Outcome{
			Salaries: models.SalaryRecord{},
			Status:   models.StatusFetchError,
			Reason:   reason,
		}
	}

	outcome := s.ParsePage(body)
	s.logger.Debug("done scraping", "url", url, "status", outcome.Status, "years", len(outcome.Salaries))
	return outcome
}

// ParsePage locates and parses the salary table in a raw HTML page
func (s *Scraper) ParsePage(body []byte) Outcome {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Outcome{
			Salaries: models.SalaryRecord{},
			Status:   models.StatusParseError,
			Reason:   fmt.Sprintf("parse html: %v", err),
		}
	}

	table := LocateTable(doc, s.tableID)
	if table == nil {
		return Outcome{Salaries: models.SalaryRecord{}, Status: models.StatusNoData}
	}

	salaries, err := s.parser.Extract(table)
	switch {
	case errors.Is(err, ErrMissingColumns):
		return Outcome{Salaries: salaries, Status: models.StatusParseError, Reason: err.Error()}
	case err != nil:
		return Outcome{Salaries: models.SalaryRecord{}, Status: models.StatusParseError, Reason: err.Error()}
	case len(salaries) == 0:
		return Outcome{Salaries: salaries, Status: models.StatusNoData}
	}
	return Outcome{Salaries: salaries, Status: models.StatusOK}
}

// ScrapeItem scrapes one work item into its result entry
func (s *Scraper) ScrapeItem(ctx context.Context, item models.WorkItem) models.ResultEntry {
	outcome := s.Scrape(ctx, item.URL)
	return models.ResultEntry{
		ID:       item.ID,
		Label:    item.Label,
		Salaries: outcome.Salaries,
		Status:   outcome.Status,
		Reason:   outcome.Reason,
	}
}
