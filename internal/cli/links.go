package cli

import (
	"fmt"

	"github.com/fr4nk3nst1ner/brsalaries/internal/links"
	"github.com/spf13/cobra"
)

func newLinksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links <roster.csv>",
		Short: "Build the numbered work list from a roster CSV",
		Long: `Read a roster CSV with Player_Link and Player columns and write one work
item per distinct link, numbered from 1 in the order first seen.

Examples:
  brsalaries links players.csv
  brsalaries links players.csv --links campaign_links.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := links.ExtractFile(args[0])
			if err != nil {
				return fmt.Errorf("extract links: %w", err)
			}
			if err := links.Save(a.cfg.LinksFile, items); err != nil {
				return fmt.Errorf("write links: %w", err)
			}
			a.logger.Info("links extracted", "count", len(items), "file", a.cfg.LinksFile)
			fmt.Fprintf(a.out, "Extracted %d unique links and saved to %s\n", len(items), a.cfg.LinksFile)
			return nil
		},
	}
	cmd.Flags().String("links", "", "work list file to write")
	return cmd
}
