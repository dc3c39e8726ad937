package ui

import (
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
)

const notAvailable = "Not Available"

// FormatMoney renders amount with thousands separators behind currency
func FormatMoney(currency string, amount int64) string {
	return currency + humanize.Comma(amount)
}

// ColorizeSalary colours a season salary by pay band. Negative amounts
// never come out of the parser and render as not available.
func ColorizeSalary(currency string, amount int64) string {
	if amount < 0 {
		return pterm.Red(notAvailable)
	}
	formatted := FormatMoney(currency, amount)

	switch {
	case amount >= 20_000_000:
		return pterm.Green(formatted)
	case amount >= 5_000_000:
		return pterm.LightGreen(formatted)
	case amount >= 1_000_000:
		return pterm.Yellow(formatted)
	default:
		return pterm.Red(formatted)
	}
}
