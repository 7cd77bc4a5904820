package crawler

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/url"
	"sync"
	"time"

	"github.com/jiuzixue09/serritor/internal/delay"
	"github.com/jiuzixue09/serritor/internal/frontier"
	"github.com/jiuzixue09/serritor/internal/model"
)

// State describes the crawler lifecycle. Transitions are strictly
// NotStarted -> Running -> Stopping -> Stopped; a stopped crawler never
// runs again (resume by restoring a snapshot into a new instance).
type State int

// Crawler lifecycle states.
const (
	StateNotStarted State = iota
	StateRunning
	StateStopping
	StateStopped
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Crawler drives a single crawl to completion. It owns the iteration
// order (via the frontier), the politeness cadence (via the delay
// mechanism), and the lifecycle; everything touching the network is
// delegated to the Browser and Prober collaborators.
//
// A Crawler is not restartable. Run may be called once; afterwards the
// instance only serves Summary and State queries.
type Crawler struct {
	frontier  *frontier.Frontier
	mechanism delay.Mechanism
	browser   Browser
	prober    Prober
	handlers  EventHandlers
	logger    *slog.Logger
	summary   *model.CrawlSummary

	// mu guards state and serializes frontier access between the loop
	// and external Crawl callers. The loop never holds it while
	// dispatching events, so handlers may feed requests freely.
	mu       sync.Mutex
	state    State
	stopCh   chan struct{}
	stopOnce sync.Once
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithHandlers sets the embedding's event handlers.
func WithHandlers(handlers EventHandlers) Option {
	return func(c *Crawler) {
		c.handlers = handlers
	}
}

// WithLogger sets a custom logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithSession names the crawl session carried on the summary.
func WithSession(session string) Option {
	return func(c *Crawler) {
		c.summary.Session = session
	}
}

// New creates a crawler over an already-seeded (or restored) frontier.
// The frontier, mechanism, browser, and prober are all required.
func New(f *frontier.Frontier, mechanism delay.Mechanism, browser Browser, prober Prober, opts ...Option) *Crawler {
	c := &Crawler{
		frontier:  f,
		mechanism: mechanism,
		browser:   browser,
		prober:    prober,
		summary:   model.NewCrawlSummary(""),
		stopCh:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Run executes the crawl and blocks until the frontier is exhausted or a
// stop is requested. It fails with ErrAlreadyStarted when called on a
// crawler that has run before.
//
// Whichever way the loop exits, teardown runs exactly once: the browser
// is closed, the summary is finalized, and the OnStop handler fires.
func (c *Crawler) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateNotStarted {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.state = StateRunning
	c.summary.StartedAt = time.Now()
	c.mu.Unlock()

	defer c.teardown()

	c.logger.Info("crawl started", "session", c.summary.Session, "pending", c.frontier.Len())
	if c.handlers.OnStart != nil {
		c.handlers.OnStart()
	}

	for {
		if c.stopRequested(ctx) {
			c.summary.Stopped = true
			break
		}

		candidate, ok := c.dequeue()
		if !ok {
			break
		}

		c.process(ctx, candidate)

		// The in-flight candidate's delay still runs when a stop was
		// requested mid-processing; the stop is observed at the top of
		// the next iteration. Partial iterations are never abandoned.
		c.performDelay(ctx)
	}

	return nil
}

// RequestStop asks the crawler to stop after the in-flight candidate.
// It is an idempotent no-op when the crawler is already stopping or
// stopped, and it interrupts an in-progress politeness sleep.
func (c *Crawler) RequestStop() {
	c.mu.Lock()
	if c.state == StateRunning {
		c.state = StateStopping
	}
	c.mu.Unlock()

	c.stopOnce.Do(func() { close(c.stopCh) })
}

// IsRunning reports whether the crawl loop is active (running or
// draining its final candidate).
func (c *Crawler) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateRunning || c.state == StateStopping
}

// State returns the current lifecycle state.
func (c *Crawler) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Crawl feeds a request discovered during processing. It is safe to call
// both from event handlers (the usual case) and from other goroutines;
// admission is synchronized against the loop's own frontier access.
//
// It fails with ErrNotRunning when no crawl is active: seeds belong in
// the frontier before Run, and a stopping crawler accepts no new work.
func (c *Crawler) Crawl(request *model.CrawlRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRunning {
		return ErrNotRunning
	}
	c.frontier.Feed(request, false)
	return nil
}

// Summary returns a copy of the session summary so far.
func (c *Crawler) Summary() model.CrawlSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	summary := *c.summary
	summary.DomainCounts = make(map[string]int, len(c.summary.DomainCounts))
	for domain, count := range c.summary.DomainCounts {
		summary.DomainCounts[domain] = count
	}
	return summary
}

// dequeue takes the next candidate from the frontier, if any.
func (c *Crawler) dequeue() (*model.CrawlCandidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.frontier.HasNextCandidate() {
		return nil, false
	}
	candidate, err := c.frontier.NextCandidate()
	if err != nil {
		return nil, false
	}
	return candidate, true
}

// process runs one candidate through probe and browser, dispatching the
// outcome event. Failures are events, never loop aborts.
func (c *Crawler) process(ctx context.Context, candidate *model.CrawlCandidate) {
	c.logger.Debug("processing candidate",
		"url", candidate.String(),
		"depth", candidate.Depth(),
		"priority", candidate.Priority(),
	)
	c.countDomain(candidate)

	result, err := c.prober.Probe(ctx, candidate.String())
	if err != nil {
		c.requestError(candidate, err)
		return
	}

	if result.FinalURL != "" && !sameResource(result.FinalURL, candidate) {
		c.handleRedirect(candidate, result.FinalURL)
		return
	}

	if !isHTML(result.ContentType) {
		c.mu.Lock()
		c.summary.NonHTMLSkipped++
		c.mu.Unlock()
		if c.handlers.OnNonHTMLContent != nil {
			c.handlers.OnNonHTMLContent(&NonHTMLContentEvent{
				Candidate:   candidate,
				ContentType: result.ContentType,
			})
		}
		return
	}

	if err := c.browser.Navigate(ctx, candidate.String()); err != nil {
		if errors.Is(err, ErrPageLoadTimeout) {
			c.mu.Lock()
			c.summary.PageLoadTimeouts++
			c.mu.Unlock()
			if c.handlers.OnPageLoadTimeout != nil {
				c.handlers.OnPageLoadTimeout(&PageLoadTimeoutEvent{Candidate: candidate, Err: err})
			}
			return
		}
		c.requestError(candidate, err)
		return
	}

	// A script may have sent the browser somewhere else after the load.
	if currentURL, err := c.browser.CurrentURL(); err == nil &&
		currentURL != "" && !sameResource(currentURL, candidate) {
		c.handleRedirect(candidate, currentURL)
		return
	}

	c.mu.Lock()
	c.summary.PagesProcessed++
	c.mu.Unlock()
	if c.handlers.OnPageLoad != nil {
		c.handlers.OnPageLoad(&PageLoadEvent{Candidate: candidate, Browser: c.browser})
	}
}

// handleRedirect builds a request for the redirect target, feeds it, and
// dispatches the redirect event. The new request inherits the
// candidate's priority and metadata so the redirect keeps its place in
// the queue.
func (c *Crawler) handleRedirect(candidate *model.CrawlCandidate, target string) {
	redirect, err := model.NewRequest(target).Parent(candidate).Build()
	if err != nil {
		c.requestError(candidate, err)
		return
	}

	c.mu.Lock()
	c.frontier.Feed(redirect, false)
	c.summary.RedirectsFollowed++
	c.mu.Unlock()

	c.logger.Debug("request redirected", "from", candidate.String(), "to", redirect.String())
	if c.handlers.OnRequestRedirect != nil {
		c.handlers.OnRequestRedirect(&RequestRedirectEvent{Candidate: candidate, Redirect: redirect})
	}
}

// requestError records a failed candidate and dispatches the error event.
func (c *Crawler) requestError(candidate *model.CrawlCandidate, err error) {
	c.mu.Lock()
	c.summary.RequestErrors++
	c.mu.Unlock()

	c.logger.Debug("request failed", "url", candidate.String(), "error", err)
	if c.handlers.OnRequestError != nil {
		c.handlers.OnRequestError(&RequestErrorEvent{Candidate: candidate, Err: err})
	}
}

// performDelay sleeps for the mechanism's duration. The sleep observes
// both the context and the stop signal: an interruption transitions the
// crawler toward stopping instead of surfacing an error.
func (c *Crawler) performDelay(ctx context.Context) {
	duration := c.mechanism.Delay()
	if duration <= 0 {
		return
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		c.RequestStop()
	case <-c.stopCh:
	case <-timer.C:
	}
}

// stopRequested reports whether the loop should exit before dequeuing
// another candidate. Context cancellation counts as a stop request.
func (c *Crawler) stopRequested(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		c.RequestStop()
		return true
	case <-c.stopCh:
		return true
	default:
		return false
	}
}

// countDomain attributes a dequeued candidate to its domain.
func (c *Crawler) countDomain(candidate *model.CrawlCandidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary.CountDomain(candidate.Domain())
}

// teardown releases loop-owned resources. It runs exactly once, on
// every exit path of Run.
func (c *Crawler) teardown() {
	if err := c.browser.Close(); err != nil {
		c.logger.Warn("failed to close browser", "error", err)
	}

	c.mu.Lock()
	c.state = StateStopped
	c.summary.FinishedAt = time.Now()
	served := c.summary.CandidatesServed()
	c.mu.Unlock()

	c.logger.Info("crawl finished",
		"session", c.summary.Session,
		"candidates", served,
		"duration", c.summary.Duration(),
	)
	if c.handlers.OnStop != nil {
		c.handlers.OnStop()
	}
}

// sameResource reports whether a raw URL identifies the same resource as
// the candidate, by comparing canonical fingerprints. Fingerprints
// rather than raw strings keep trailing-slash and encoding differences
// from being mistaken for redirects.
func sameResource(rawURL string, candidate *model.CrawlCandidate) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return frontier.Fingerprint(u) == frontier.Fingerprint(candidate.URL())
}

// isHTML reports whether a probed content type should be opened in the
// browser. A missing content type is treated as plain text, keeping
// unknown resources out of the browser.
func isHTML(contentType string) bool {
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
