package runner

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/fr4nk3nst1ner/brsalaries/internal/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// DefaultPace is the pause between successive fetches
const DefaultPace = 4 * time.Second

// ItemScraper turns one work item into its result entry. Failures are
// carried in the entry's status, so it has no error return.
type ItemScraper interface {
	ScrapeItem(ctx context.Context, item models.WorkItem) models.ResultEntry
}

// EmitFunc receives finished entries that must be checkpointed together
type EmitFunc func(entries []models.ResultEntry) error

// Processor is a scheduling strategy for scraping work items
type Processor interface {
	Process(ctx context.Context, items []models.WorkItem, emit EmitFunc) error
}

// Mode selects a Processor implementation
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeConcurrent Mode = "concurrent"
)

// ProcessorOptions tune the concurrent strategy; Pace applies to both
type ProcessorOptions struct {
	Pace              time.Duration
	Concurrency       int
	PerHost           int
	BatchSize         int
	// RequestsPerSecond spaces individual requests 1/rps apart across
	// all workers and batches; 0 disables the limit
	RequestsPerSecond float64
}

// NewProcessor returns the processor for mode
func NewProcessor(mode Mode, scraper ItemScraper, opts ProcessorOptions) (Processor, error) {
	switch mode {
	case ModeSequential, "":
		return NewSequential(scraper, opts.Pace), nil
	case ModeConcurrent:
		return NewConcurrent(scraper, opts), nil
	default:
		return nil, fmt.Errorf("unknown mode %q (use sequential or concurrent)", mode)
	}
}

// Sequential scrapes one item at a time and emits after every item
type Sequential struct {
	scraper ItemScraper
	pace    time.Duration
}

func NewSequential(scraper ItemScraper, pace time.Duration) *Sequential {
	return &Sequential{scraper: scraper, pace: pace}
}

func (p *Sequential) Process(ctx context.Context, items []models.WorkItem, emit EmitFunc) error {
	for i, item := range items {
		if i > 0 {
			if err := pause(ctx, p.pace); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		entry := p.scraper.ScrapeItem(ctx, item)
		// an item interrupted mid-flight is dropped, not checkpointed
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit([]models.ResultEntry{entry}); err != nil {
			return err
		}
	}
	return nil
}

// Concurrent scrapes a batch of items in parallel, bounded overall and per
// host, and emits each batch once every item in it has finished.
type Concurrent struct {
	scraper   ItemScraper
	pace      time.Duration
	limit     int
	perHost   int
	batchSize int
	limiter   *rate.Limiter
}

func NewConcurrent(scraper ItemScraper, opts ProcessorOptions) *Concurrent {
	c := &Concurrent{
		scraper:   scraper,
		pace:      opts.Pace,
		limit:     opts.Concurrency,
		perHost:   opts.PerHost,
		batchSize: opts.BatchSize,
		limiter:   rate.NewLimiter(rate.Inf, 1),
	}
	if c.limit <= 0 {
		c.limit = 10
	}
	if c.perHost <= 0 {
		c.perHost = 5
	}
	if c.batchSize <= 0 {
		c.batchSize = c.limit
	}
	if opts.RequestsPerSecond > 0 {
		// burst 1 spaces every request, including the first ones of a batch
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return c
}

func (p *Concurrent) Process(ctx context.Context, items []models.WorkItem, emit EmitFunc) error {
	hosts := newHostLimiter(p.perHost)

	for start := 0; start < len(items); start += p.batchSize {
		if start > 0 {
			if err := pause(ctx, p.pace); err != nil {
				return err
			}
		}
		batch := items[start:min(start+p.batchSize, len(items))]
		results := make([]models.ResultEntry, len(batch))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.limit)
		for i, item := range batch {
			g.Go(func() error {
				release, err := hosts.acquire(gctx, hostOf(item.URL))
				if err != nil {
					return err
				}
				defer release()

				if err := p.limiter.Wait(gctx); err != nil {
					return err
				}
				results[i] = p.scraper.ScrapeItem(gctx, item)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(results); err != nil {
			return err
		}
	}
	return nil
}

// hostLimiter hands out one weighted semaphore per host
type hostLimiter struct {
	mu    sync.Mutex
	size  int64
	hosts map[string]*semaphore.Weighted
}

func newHostLimiter(size int) *hostLimiter {
	return &hostLimiter{size: int64(size), hosts: make(map[string]*semaphore.Weighted)}
}

func (h *hostLimiter) acquire(ctx context.Context, host string) (func(), error) {
	h.mu.Lock()
	sem, ok := h.hosts[host]
	if !ok {
		sem = semaphore.NewWeighted(h.size)
		h.hosts[host] = sem
	}
	h.mu.Unlock()

	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { sem.Release(1) }, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

// pause waits d or until ctx is done
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
