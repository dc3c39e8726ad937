package scraper

import (
	"errors"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fr4nk3nst1ner/brsalaries/internal/models"
)

// ErrMissingColumns means the header row lacks the year or the salary label
var ErrMissingColumns = errors.New("salary table is missing the year or salary column")

// YearRange is the inclusive range of seasons accepted from a table
type YearRange struct {
	Min int
	Max int
}

// DefaultYears covers the seasons the campaign collects
var DefaultYears = YearRange{Min: 2018, Max: 2025}

// Contains reports whether year falls inside the range
func (r YearRange) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// TableParser turns a located salary table into a SalaryRecord
type TableParser struct {
	Years          YearRange
	YearLabel      string
	SalaryLabel    string
	CurrencyMarker string
}

// NewTableParser returns a parser with the standard column labels
func NewTableParser(years YearRange) TableParser {
	return TableParser{
		Years:          years,
		YearLabel:      "Year",
		SalaryLabel:    "Salary",
		CurrencyMarker: "$",
	}
}

// Extract reads year -> salary pairs from the table. Rows that fail any
// check are skipped; a later row for the same year replaces an earlier one.
// A missing header column yields an empty record and ErrMissingColumns.
func (p TableParser) Extract(table *goquery.Selection) (models.SalaryRecord, error) {
	record := models.SalaryRecord{}
	if table == nil {
		return record, nil
	}

	rows := table.Find("tr")
	if rows.Length() == 0 {
		return record, nil
	}

	headers := cellTexts(rows.First())
	yearIdx := indexOf(headers, p.YearLabel)
	salaryIdx := indexOf(headers, p.SalaryLabel)
	if yearIdx < 0 || salaryIdx < 0 {
		return record, ErrMissingColumns
	}
	need := max(yearIdx, salaryIdx)

	rows.Slice(1, goquery.ToEnd).Each(func(_ int, row *goquery.Selection) {
		cells := cellTexts(row)
		if len(cells) <= need {
			return
		}

		year, ok := p.parseYear(cells[yearIdx])
		if !ok {
			return
		}
		salary, ok := p.parseSalary(cells[salaryIdx])
		if !ok {
			return
		}
		record[year] = salary
	})

	return record, nil
}

func (p TableParser) parseYear(text string) (int, bool) {
	if len(text) != 4 {
		return 0, false
	}
	for _, c := range text {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	year, err := strconv.Atoi(text)
	if err != nil || !p.Years.Contains(year) {
		return 0, false
	}
	return year, true
}

func (p TableParser) parseSalary(text string) (int64, bool) {
	if text == "" || !strings.HasPrefix(text, p.CurrencyMarker) {
		return 0, false
	}
	clean := strings.ReplaceAll(text, p.CurrencyMarker, "")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return 0, false
	}
	salary, err := strconv.ParseInt(clean, 10, 64)
	if err != nil || salary < 0 {
		return 0, false
	}
	return salary, true
}

func cellTexts(row *goquery.Selection) []string {
	cells := row.ChildrenFiltered("th, td")
	texts := make([]string, 0, cells.Length())
	cells.Each(func(_ int, cell *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(cell.Text()))
	})
	return texts
}

func indexOf(values []string, want string) int {
	for i, v := range values {
		if v == want {
			return i
		}
	}
	return -1
}
