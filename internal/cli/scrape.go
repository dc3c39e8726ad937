package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fr4nk3nst1ner/brsalaries/internal/models"
	"github.com/fr4nk3nst1ner/brsalaries/internal/runner"
	"github.com/fr4nk3nst1ner/brsalaries/internal/scraper"
	"github.com/fr4nk3nst1ner/brsalaries/internal/ui"
	"github.com/spf13/cobra"
)

func newScrapeCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "scrape <url|file.html>",
		Short: "Scrape one player page without touching the checkpoint",
		Long: `Fetch a single player page, or parse a saved HTML file, and print the
salary history found in it.

Examples:
  brsalaries scrape https://www.baseball-reference.com/players/l/lindofr01.shtml
  brsalaries scrape saved/lindofr01.html --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]

			var outcome scraper.Outcome
			if isURL(target) {
				fetcher, err := newFetcher(runner.ModeSequential, a.cfg.ClientOptions())
				if err != nil {
					return fmt.Errorf("build fetcher: %w", err)
				}
				s := scraper.New(fetcher, a.cfg.TableID, a.cfg.Parser(), a.logger)
				outcome = s.Scrape(cmd.Context(), target)
			} else {
				body, err := os.ReadFile(target)
				if err != nil {
					return err
				}
				s := scraper.New(nil, a.cfg.TableID, a.cfg.Parser(), a.logger)
				outcome = s.ParsePage(body)
			}

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(models.ResultEntry{
					Salaries: outcome.Salaries,
					Status:   outcome.Status,
					Reason:   outcome.Reason,
				})
			}

			fmt.Fprintf(a.out, "Status: %s\n", outcome.Status)
			if outcome.Reason != "" {
				fmt.Fprintf(a.out, "Reason: %s\n", outcome.Reason)
			}
			if len(outcome.Salaries) == 0 {
				return nil
			}
			table, err := ui.SeasonTable(a.cfg.Currency, outcome.Salaries)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, table)
			fmt.Fprintf(a.out, "Total: %s\n", ui.ColorizeSalary(a.cfg.Currency, outcome.Salaries.Total()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().String("proxy", "", "proxy URL")
	cmd.Flags().String("clearance-token", "", "cf_clearance cookie value")
	cmd.Flags().Duration("timeout", 0, "request timeout")
	cmd.Flags().String("table-id", "", "id of the salary table")
	cmd.Flags().Int("year-min", 0, "first season to keep")
	cmd.Flags().Int("year-max", 0, "last season to keep")
	return cmd
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
