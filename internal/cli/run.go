package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fr4nk3nst1ner/brsalaries/internal/client"
	"github.com/fr4nk3nst1ner/brsalaries/internal/links"
	"github.com/fr4nk3nst1ner/brsalaries/internal/models"
	"github.com/fr4nk3nst1ner/brsalaries/internal/runner"
	"github.com/fr4nk3nst1ner/brsalaries/internal/scraper"
	"github.com/fr4nk3nst1ner/brsalaries/internal/store"
	"github.com/fr4nk3nst1ner/brsalaries/internal/ui"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scrape every player not yet in the checkpoint",
		Long: `Scrape salary tables for every work item missing from the checkpoint.
The checkpoint is rewritten after each player (sequential mode) or each
batch (concurrent mode); interrupting the run keeps everything saved so far.

Examples:
  brsalaries run
  brsalaries run --pace 6s --clearance-token "$CF_CLEARANCE"
  brsalaries run --mode concurrent --concurrency 10 --per-host 5
  brsalaries run --retry-failed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context())
		},
	}
	f := cmd.Flags()
	f.String("links", "", "work list file")
	f.String("mode", "", "sequential or concurrent")
	f.Duration("pace", 0, "pause between items (sequential) or batches (concurrent)")
	f.Duration("timeout", 0, "per-request timeout")
	f.Int("concurrency", 0, "concurrent requests in flight")
	f.Int("per-host", 0, "concurrent requests per host")
	f.Int("batch-size", 0, "items per checkpointed batch in concurrent mode")
	f.Float64("rps", 0, "request rate limit in concurrent mode, 0 for none")
	f.Bool("retry-failed", false, "re-scrape entries that previously failed")
	f.String("proxy", "", "proxy URL")
	f.String("clearance-token", "", "cf_clearance cookie value")
	f.String("table-id", "", "id of the salary table")
	f.Int("year-min", 0, "first season to keep")
	f.Int("year-max", 0, "last season to keep")
	return cmd
}

// newFetcher picks the fetcher matching the scheduling mode
func newFetcher(mode runner.Mode, opts client.Options) (client.Fetcher, error) {
	if mode == runner.ModeConcurrent {
		return client.NewPooledFetcher(opts)
	}
	return client.NewClearanceFetcher(opts)
}

func (a *app) run(ctx context.Context) error {
	a.banner()
	start := time.Now()
	defer a.elapsed(start)

	items, err := links.Load(a.cfg.LinksFile)
	if err != nil {
		return fmt.Errorf("load work list (run \"brsalaries links <csv>\" first): %w", err)
	}

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	mode := runner.Mode(a.cfg.Mode)
	fetcher, err := newFetcher(mode, a.cfg.ClientOptions())
	if err != nil {
		return fmt.Errorf("build fetcher: %w", err)
	}
	s := scraper.New(fetcher, a.cfg.TableID, a.cfg.Parser(), a.logger)
	processor, err := runner.NewProcessor(mode, s, a.cfg.ProcessorOptions())
	if err != nil {
		return err
	}

	var bar *ui.Progress
	r := runner.New(st, processor, a.logger, runner.Options{
		RetryFailed: a.cfg.RetryFailed,
		OnStart: func(p models.ScrapeProgress, remaining int) {
			if !a.silence && remaining > 0 {
				bar = ui.NewProgress(a.errOut, p.Total, p.Skipped)
			}
		},
		OnEntry: func(models.ResultEntry) {
			if bar != nil {
				bar.Increment()
			}
		},
	})

	_, err = r.Run(ctx, items)
	if bar != nil {
		bar.Finish()
	}
	switch {
	case errors.Is(err, store.ErrCorrupt):
		return fmt.Errorf("%w; move %s aside to start over", err, a.cfg.StorePath())
	case errors.Is(err, context.Canceled):
		a.logger.Warn("interrupted; progress is saved and the next run resumes from it")
		return nil
	case err != nil:
		return err
	}

	entries, err := st.Load(context.WithoutCancel(ctx))
	if err != nil {
		return err
	}
	table, err := ui.StatusTable(entries)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, table)
	return nil
}
