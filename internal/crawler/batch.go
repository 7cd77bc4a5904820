package crawler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jiuzixue09/serritor/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchRunner executes multiple independent crawl jobs concurrently.
// Each job's control loop remains single-threaded; only whole jobs run
// in parallel, bounded by the concurrency limit.
//
// Design decision: We use a crawler factory rather than a slice of
// crawlers because a crawler is single-use. The factory gives every job
// a fresh instance, so no lifecycle state leaks between jobs.
type BatchRunner struct {
	// crawlerFactory creates the crawler for a named job.
	crawlerFactory func(session string) (*Crawler, error)

	// concurrency is the maximum number of jobs running at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// summaries stores finished job summaries, indexed like the input
	// jobs. Access is synchronized via mutex.
	summaries []model.CrawlSummary
	mu        sync.Mutex
}

// BatchOption configures a BatchRunner.
type BatchOption func(*BatchRunner)

// WithBatchLogger sets a custom logger for the batch.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchRunner) {
		b.logger = logger
	}
}

// WithBatchConcurrency sets the maximum number of concurrent jobs.
// Default is 4 if not specified.
func WithBatchConcurrency(n int) BatchOption {
	return func(b *BatchRunner) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchRunner creates a BatchRunner around a crawler factory.
func NewBatchRunner(crawlerFactory func(session string) (*Crawler, error), opts ...BatchOption) *BatchRunner {
	b := &BatchRunner{
		crawlerFactory: crawlerFactory,
		concurrency:    4,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Run executes the named jobs and returns their summaries in input
// order. A failing job does not cancel its siblings; its summary simply
// records how far it got. The error return reports context cancellation.
func (b *BatchRunner) Run(ctx context.Context, sessions []string) ([]model.CrawlSummary, error) {
	b.logger.Info("starting crawl batch",
		"jobs", len(sessions),
		"concurrency", b.concurrency,
	)
	startTime := time.Now()

	b.summaries = make([]model.CrawlSummary, len(sessions))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, session := range sessions {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			c, err := b.crawlerFactory(session)
			if err != nil {
				b.logger.Warn("failed to build crawl job", "session", session, "error", err)
				return nil
			}

			if err := c.Run(ctx); err != nil {
				// Job errors are recorded, not propagated: sibling jobs
				// should keep crawling.
				b.logger.Warn("crawl job failed", "session", session, "error", err)
			}

			b.mu.Lock()
			b.summaries[i] = c.Summary()
			b.mu.Unlock()
			return nil
		})
	}

	err := g.Wait()

	b.logger.Info("crawl batch finished",
		"jobs", len(sessions),
		"elapsed", time.Since(startTime),
	)
	return b.summaries, err
}
