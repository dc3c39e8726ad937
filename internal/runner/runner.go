// Package runner drives a scraping campaign: it resumes from the
// checkpoint, scrapes the remaining work items through a Processor and
// makes every finished unit durable before moving on.
package runner

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/fr4nk3nst1ner/brsalaries/internal/models"
	"github.com/fr4nk3nst1ner/brsalaries/internal/store"
)

// Options adjust a Runner
type Options struct {
	// RetryFailed treats fetch_error and parse_error entries as not done
	RetryFailed bool
	// OnStart is told how many items remain once the checkpoint is loaded
	OnStart func(progress models.ScrapeProgress, remaining int)
	// OnEntry is called for each entry after it has been checkpointed
	OnEntry func(entry models.ResultEntry)
}

// Runner owns the checkpoint store for the duration of a run; it is the
// only writer.
type Runner struct {
	store     store.Store
	processor Processor
	logger    *slog.Logger
	opts      Options
}

func New(st store.Store, processor Processor, logger *slog.Logger, opts Options) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		store:     st,
		processor: processor,
		logger:    logger,
		opts:      opts,
	}
}

// Run processes every item not yet in the checkpoint. It returns a
// *store.StoreError when the checkpoint cannot be read or written, and the
// context error when interrupted; all earlier checkpoints stay valid.
func (r *Runner) Run(ctx context.Context, items []models.WorkItem) (models.ScrapeProgress, error) {
	progress := models.ScrapeProgress{Total: len(items), ByStatus: map[models.Status]int{}}

	existing, err := r.store.Load(ctx)
	if err != nil {
		return progress, err
	}

	results := make(map[int]models.ResultEntry, len(existing))
	done := make(map[int]bool, len(existing))
	for _, e := range existing {
		results[e.ID] = e
		done[e.ID] = !(r.opts.RetryFailed && e.Status.Failed())
	}

	known := make(map[int]bool, len(items))
	remaining := make([]models.WorkItem, 0, len(items))
	for _, item := range items {
		known[item.ID] = true
		if !done[item.ID] {
			remaining = append(remaining, item)
		}
	}
	if stray := countUnknown(existing, known); stray > 0 {
		r.logger.Warn("checkpoint holds entries for unknown ids; keeping them", "count", stray)
	}

	progress.Skipped = len(items) - len(remaining)
	r.logger.Info("checkpoint loaded",
		"total", len(items),
		"already_processed", progress.Skipped,
		"remaining", len(remaining))
	if r.opts.OnStart != nil {
		r.opts.OnStart(progress, len(remaining))
	}

	if len(remaining) == 0 {
		r.logger.Info("all links have been processed")
		return progress, nil
	}

	// checkpoints in flight finish even when the run is being cancelled
	saveCtx := context.WithoutCancel(ctx)
	emit := func(batch []models.ResultEntry) error {
		for _, entry := range batch {
			results[entry.ID] = entry
		}
		if err := r.store.Save(saveCtx, slices.Collect(maps.Values(results))); err != nil {
			return err
		}
		for _, entry := range batch {
			progress.Record(entry)
			r.logger.Info("saved",
				"id", entry.ID,
				"player", entry.Label,
				"status", entry.Status,
				"years", len(entry.Salaries),
				"reason", entry.Reason)
			if r.opts.OnEntry != nil {
				r.opts.OnEntry(entry)
			}
		}
		return nil
	}

	if err := r.processor.Process(ctx, remaining, emit); err != nil {
		r.logger.Warn("run stopped", "processed", progress.Processed, "err", err)
		return progress, err
	}

	r.logger.Info("all done",
		"processed", progress.Processed,
		"ok", progress.ByStatus[models.StatusOK],
		"no_data", progress.ByStatus[models.StatusNoData],
		"fetch_error", progress.ByStatus[models.StatusFetchError],
		"parse_error", progress.ByStatus[models.StatusParseError])
	return progress, nil
}

func countUnknown(entries []models.ResultEntry, known map[int]bool) int {
	n := 0
	for _, e := range entries {
		if !known[e.ID] {
			n++
		}
	}
	return n
}
