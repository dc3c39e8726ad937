package ui

import (
	"bytes"
	"os"
	"testing"

	"github.com/fr4nk3nst1ner/brsalaries/internal/models"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pterm.DisableColor()
	os.Exit(m.Run())
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$22,300,000", FormatMoney("$", 22300000))
	assert.Equal(t, "$750", FormatMoney("$", 750))
}

func TestColorizeSalary(t *testing.T) {
	assert.Equal(t, "$0", ColorizeSalary("$", 0))
	assert.Equal(t, "Not Available", ColorizeSalary("$", -1))
	assert.Equal(t, "$34,100,000", ColorizeSalary("$", 34100000))
	assert.Equal(t, "$720,000", ColorizeSalary("$", 720000))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, true)
	assert.Empty(t, buf.String())

	PrintBanner(&buf, false)
	assert.Contains(t, buf.String(), "@fr4nk3nst1ner")
}

var sample = []models.ResultEntry{
	{ID: 1, Label: "Francisco Lindor", Salaries: models.SalaryRecord{2021: 22300000, 2022: 34100000}, Status: models.StatusOK},
	{ID: 2, Label: "Unknown Prospect", Salaries: models.SalaryRecord{}, Status: models.StatusFetchError, Reason: "timeout"},
	{ID: 3, Label: "Pete Alonso", Salaries: models.SalaryRecord{2022: 7400000}, Status: models.StatusOK},
	{ID: 4, Label: "Bench Player", Salaries: models.SalaryRecord{}, Status: models.StatusNoData},
}

func TestStatusTable(t *testing.T) {
	out, err := StatusTable(sample)
	require.NoError(t, err)
	assert.Contains(t, out, "fetch_error")
	assert.Contains(t, out, "total")
	assert.Regexp(t, `ok\s+\|\s+2`, out)
}

func TestTopEarners(t *testing.T) {
	top := TopEarners(sample, 5)
	require.Len(t, top, 2)
	assert.Equal(t, 1, top[0].ID)
	assert.Equal(t, 3, top[1].ID)

	assert.Len(t, TopEarners(sample, 1), 1)
	assert.Empty(t, TopEarners(nil, 3))
}

func TestEarnersTable(t *testing.T) {
	out, err := EarnersTable("$", TopEarners(sample, 10))
	require.NoError(t, err)
	assert.Contains(t, out, "Francisco Lindor")
	assert.Contains(t, out, "2022 $34,100,000")
	assert.Contains(t, out, "$56,400,000")
}

func TestSeasonTable(t *testing.T) {
	out, err := SeasonTable("$", models.SalaryRecord{2022: 34100000, 2021: 22300000})
	require.NoError(t, err)
	assert.Less(t, bytes.Index([]byte(out), []byte("2021")), bytes.Index([]byte(out), []byte("2022")))
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 10, 4)
	p.Increment()
	p.Increment()
	p.Finish()
	assert.Contains(t, buf.String(), "6 / 10")
}

func TestFailuresTable(t *testing.T) {
	out, err := FailuresTable(sample)
	require.NoError(t, err)
	assert.Contains(t, out, "Unknown Prospect")
	assert.Contains(t, out, "timeout")
	assert.NotContains(t, out, "Francisco Lindor")
	assert.NotContains(t, out, "Bench Player")
}

func TestSeasonTableShowsZeroSalary(t *testing.T) {
	out, err := SeasonTable("$", models.SalaryRecord{2020: 0, 2021: 570000})
	require.NoError(t, err)
	assert.Contains(t, out, "$0")
	assert.NotContains(t, out, "Not Available")
}
