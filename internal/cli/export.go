package cli

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/fr4nk3nst1ner/brsalaries/internal/store"
	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Flatten the checkpoint into CSV or JSON",
		Long: `Write the checkpoint as a flat table with one salaries.<year> column per
season seen, or as plain JSON. Output goes to --out, or stdout with "-".

Examples:
  brsalaries export
  brsalaries export --out - | head
  brsalaries export --format json --out salaries_export.json`,
		Args: cobra.NoArgs,
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

			var buf bytes.Buffer
			switch format {
			case "csv":
				err = store.WriteCSV(&buf, entries)
			case "json":
				err = store.WriteJSON(&buf, entries)
			default:
				return fmt.Errorf("unknown format %q (use csv or json)", format)
			}
			if err != nil {
				return err
			}

			if out == "" {
				out = "salaries." + format
			}
			if out == "-" {
				_, err = a.out.Write(buf.Bytes())
				return err
			}
			if samePath(out, a.cfg.StorePath()) {
				return fmt.Errorf("refusing to overwrite the checkpoint %s", out)
			}
			if err := renameio.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Exported %d players to %s\n", len(entries), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file, "-" for stdout (default salaries.<format>)`)
	return cmd
}

// samePath compares paths after making them absolute and clean
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
