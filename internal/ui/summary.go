package ui

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/fr4nk3nst1ner/brsalaries/internal/models"
	"github.com/pterm/pterm"
)

var statusOrder = []models.Status{
	models.StatusOK,
	models.StatusNoData,
	models.StatusFetchError,
	models.StatusParseError,
}

// StatusTable renders entry counts per status
func StatusTable(entries []models.ResultEntry) (string, error) {
	counts := make(map[models.Status]int, len(statusOrder))
	for _, e := range entries {
		counts[e.Status]++
	}

	data := pterm.TableData{{"Status", "Players"}}
	for _, s := range statusOrder {
		data = append(data, []string{string(s), strconv.Itoa(counts[s])})
	}
	data = append(data, []string{"total", strconv.Itoa(len(entries))})
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// TopEarners returns up to n entries with the highest salary total,
// ties broken by id.
func TopEarners(entries []models.ResultEntry, n int) []models.ResultEntry {
	ranked := make([]models.ResultEntry, 0, len(entries))
	for _, e := range entries {
		if e.Salaries.Total() > 0 {
			ranked = append(ranked, e)
		}
	}
	slices.SortStableFunc(ranked, func(a, b models.ResultEntry) int {
		if c := cmp.Compare(b.Salaries.Total(), a.Salaries.Total()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// EarnersTable renders ranked entries with their total and best season
func EarnersTable(currency string, entries []models.ResultEntry) (string, error) {
	data := pterm.TableData{{"#", "Player", "Seasons", "Best Season", "Total"}}
	for i, e := range entries {
		best, bestYear := int64(0), 0
		for _, y := range e.Salaries.Years() {
			if e.Salaries[y] > best {
				best, bestYear = e.Salaries[y], y
			}
		}
		bestCell := "-"
		if bestYear != 0 {
			bestCell = strconv.Itoa(bestYear) + " " + ColorizeSalary(currency, best)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			e.Label,
			strconv.Itoa(len(e.Salaries)),
			bestCell,
			ColorizeSalary(currency, e.Salaries.Total()),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// SeasonTable renders one player's salary history, oldest season first
func SeasonTable(currency string, record models.SalaryRecord) (string, error) {
	data := pterm.TableData{{"Year", "Salary"}}
	for _, y := range record.Years() {
		data = append(data, []string{strconv.Itoa(y), ColorizeSalary(currency, record[y])})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// FailuresTable lists entries whose fetch or parse failed
func FailuresTable(entries []models.ResultEntry) (string, error) {
	data := pterm.TableData{{"ID", "Player", "Status", "Reason"}}
	for _, e := range entries {
		if !e.Status.Failed() {
			continue
		}
		data = append(data, []string{strconv.Itoa(e.ID), e.Label, pterm.Red(string(e.Status)), e.Reason})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}
