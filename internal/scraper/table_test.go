package scraper

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fr4nk3nst1ner/brsalaries/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTable renders a br-salaries table with the header in a <thead>
func buildTable(header []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(`<table id="br-salaries"><thead><tr>`)
	for _, h := range header {
		fmt.Fprintf(&b, "<th>%s</th>", h)
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for i, cell := range row {
			if i == 0 {
				fmt.Fprintf(&b, "<th>%s</th>", cell)
				continue
			}
			fmt.Fprintf(&b, "<td>%s</td>", cell)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

func extract(t *testing.T, table string) (models.SalaryRecord, error) {
	t.Helper()
	doc := mustDoc(t, "<html><body>"+table+"</body></html>")
	sel := LocateTable(doc, DefaultTableID)
	require.NotNil(t, sel)
	return NewTableParser(DefaultYears).Extract(sel)
}

func TestExtractSalaries(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		rows   [][]string
		want   models.SalaryRecord
	}{
		{
			name:   "two seasons",
			header: []string{"Year", "Salary"},
			rows:   [][]string{{"2020", "$10,000,000"}, {"2021", "$12,500,000"}},
			want:   models.SalaryRecord{2020: 10000000, 2021: 12500000},
		},
		{
			name:   "year that is not four digits is skipped",
			header: []string{"Year", "Salary"},
			rows:   [][]string{{"19", "$1,000"}, {"2019", "$2,000"}},
			want:   models.SalaryRecord{2019: 2000},
		},
		{
			name:   "columns found by label, not position",
			header: []string{"Year", "Team", "Srvc Time", "Salary", "Sources"},
			rows:   [][]string{{"2022", "NYM", "6.000", "$34,100,000", "USA Today"}},
			want:   models.SalaryRecord{2022: 34100000},
		},
		{
			name:   "years outside the range are dropped",
			header: []string{"Year", "Salary"},
			rows:   [][]string{{"2017", "$545,000"}, {"2018", "$1,100,000"}, {"2025", "$1"}, {"2026", "$2"}},
			want:   models.SalaryRecord{2018: 1100000, 2025: 1},
		},
		{
			name:   "salary without currency marker or unparsable",
			header: []string{"Year", "Salary"},
			rows: [][]string{
				{"2019", "1,000"},
				{"2020", ""},
				{"2021", "$ TBD"},
				{"2022", "$"},
				{"2023", " $620,500 "},
			},
			want: models.SalaryRecord{2023: 620500},
		},
		{
			name:   "short rows are skipped",
			header: []string{"Year", "Team", "Salary"},
			rows:   [][]string{{"2020"}, {"2021", "CLE"}, {"2022", "CLE", "$650,000"}},
			want:   models.SalaryRecord{2022: 650000},
		},
		{
			name:   "later duplicate year wins",
			header: []string{"Year", "Salary"},
			rows:   [][]string{{"2020", "$1,000"}, {"2020", "$2,000"}},
			want:   models.SalaryRecord{2020: 2000},
		},
		{
			name:   "year with non digit characters",
			header: []string{"Year", "Salary"},
			rows:   [][]string{{"20a0", "$1,000"}, {"2O21", "$1,000"}, {"Career", "$40,000,000"}},
			want:   models.SalaryRecord{},
		},
		{
			name:   "empty body",
			header: []string{"Year", "Salary"},
			rows:   nil,
			want:   models.SalaryRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extract(t, buildTable(tt.header, tt.rows))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractMissingColumns(t *testing.T) {
	for _, header := range [][]string{
		{"Season", "Salary"},
		{"Year", "Pay"},
		{"year", "salary"},
	} {
		got, err := extract(t, buildTable(header, [][]string{{"2020", "$1,000"}}))
		require.ErrorIs(t, err, ErrMissingColumns)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	}
}

func TestExtractNilTable(t *testing.T) {
	got, err := NewTableParser(DefaultYears).Extract(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractCustomRange(t *testing.T) {
	doc := mustDoc(t, buildTable([]string{"Year", "Salary"}, [][]string{{"2005", "$300,000"}, {"2020", "$1"}}))
	got, err := NewTableParser(YearRange{Min: 2000, Max: 2010}).Extract(LocateTable(doc, DefaultTableID))
	require.NoError(t, err)
	assert.Equal(t, models.SalaryRecord{2005: 300000}, got)
}

func TestYearRangeContains(t *testing.T) {
	r := YearRange{Min: 2018, Max: 2025}
	assert.True(t, r.Contains(2018))
	assert.True(t, r.Contains(2025))
	assert.False(t, r.Contains(2017))
	assert.False(t, r.Contains(2026))
}
