package scraper

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fr4nk3nst1ner/brsalaries/internal/client"
	"github.com/fr4nk3nst1ner/brsalaries/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	body []byte
	err  error
}

func (f stubFetcher) Fetch(context.Context, string) ([]byte, error) {
	return f.body, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestScraper(f client.Fetcher) *Scraper {
	return New(f, "", NewTableParser(DefaultYears), quietLogger())
}

func TestScrapeOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		fetcher    stubFetcher
		wantStatus models.Status
		wantReason string
		want       models.SalaryRecord
	}{
		{
			name: "salaries found",
			fetcher: stubFetcher{body: []byte("<html><body>" +
				buildTable([]string{"Year", "Salary"}, [][]string{{"2020", "$10,000,000"}, {"2021", "$12,500,000"}}) +
				"</body></html>")},
			wantStatus: models.StatusOK,
			want:       models.SalaryRecord{2020: 10000000, 2021: 12500000},
		},
		{
			name:       "page without a salary table",
			fetcher:    stubFetcher{body: []byte("<html><body><h1>Player</h1></body></html>")},
			wantStatus: models.StatusNoData,
			want:       models.SalaryRecord{},
		},
		{
			name: "table with no usable rows",
			fetcher: stubFetcher{body: []byte(buildTable([]string{"Year", "Salary"},
				[][]string{{"2010", "$1,000"}}))},
			wantStatus: models.StatusNoData,
			want:       models.SalaryRecord{},
		},
		{
			name: "table without salary column",
			fetcher: stubFetcher{body: []byte(buildTable([]string{"Year", "Team"},
				[][]string{{"2020", "CLE"}}))},
			wantStatus: models.StatusParseError,
			wantReason: ErrMissingColumns.Error(),
			want:       models.SalaryRecord{},
		},
		{
			name:       "http 404",
			fetcher:    stubFetcher{err: &client.FetchError{URL: "u", Reason: "http_status:404", StatusCode: 404}},
			wantStatus: models.StatusFetchError,
			wantReason: "http_status:404",
			want:       models.SalaryRecord{},
		},
		{
			name:       "untagged fetch error",
			fetcher:    stubFetcher{err: io.ErrUnexpectedEOF},
			wantStatus: models.StatusFetchError,
			wantReason: client.ReasonTransport,
			want:       models.SalaryRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newTestScraper(tt.fetcher).Scrape(context.Background(), "https://example.test/p.shtml")
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.Equal(t, tt.want, got.Salaries)
		})
	}
}

func TestScrapeItemCommentedTable(t *testing.T) {
	page := "<html><body>" + commentedSalaryTable + "</body></html>"
	s := newTestScraper(stubFetcher{body: []byte(page)})

	entry := s.ScrapeItem(context.Background(), models.WorkItem{ID: 7, URL: "u", Label: "Francisco Lindor"})
	assert.Equal(t, models.ResultEntry{
		ID:       7,
		Label:    "Francisco Lindor",
		Salaries: models.SalaryRecord{2021: 12500000},
		Status:   models.StatusOK,
	}, entry)
}

func TestScrapeOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/players/l/lindofr01.shtml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("<html><body>" + commentedSalaryTable + "</body></html>"))
	}))
	defer srv.Close()

	fetcher, err := client.NewPooledFetcher(client.Options{Timeout: 5 * time.Second})
	require.NoError(t, err)
	s := newTestScraper(fetcher)

	found := s.Scrape(context.Background(), srv.URL+"/players/l/lindofr01.shtml")
	assert.Equal(t, models.StatusOK, found.Status)
	assert.Equal(t, models.SalaryRecord{2021: 12500000}, found.Salaries)

	missing := s.Scrape(context.Background(), srv.URL+"/players/x/nobody.shtml")
	assert.Equal(t, models.StatusFetchError, missing.Status)
	assert.Equal(t, "http_status:404", missing.Reason)
	assert.Empty(t, missing.Salaries)
}
