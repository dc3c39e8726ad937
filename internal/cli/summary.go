package cli

import (
	"fmt"

	"github.com/fr4nk3nst1ner/brsalaries/internal/ui"
	"github.com/spf13/cobra"
)

func newSummaryCmd(a *app) *cobra.Command {
	var top int
	var failed bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show checkpoint counts and the top earners",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.Load(ctx)
			if err != nil {
				return err
			}

			a.banner()
			table, err := ui.StatusTable(entries)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, table)

			if earners := ui.TopEarners(entries, top); len(earners) > 0 {
				table, err = ui.EarnersTable(a.cfg.Currency, earners)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, table)
			}

			if failed {
				table, err = ui.FailuresTable(entries)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, table)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&top, "top", "n", 10, "number of top earners to list")
	cmd.Flags().BoolVar(&failed, "failed", false, "list entries whose fetch or parse failed")
	return cmd
}
