package model

import "time"

// CrawlSummary aggregates the observable outcomes of a crawl session.
// The control loop increments its counters as candidates are processed;
// the report writers and the snapshot database consume the finished value.
type CrawlSummary struct {
	// Session is the user-chosen name of the crawl session.
	Session string `json:"session"`

	// Seeds are the seed URLs the session started from.
	Seeds []string `json:"seeds,omitempty"`

	// StartedAt is when the control loop entered the running state.
	StartedAt time.Time `json:"startedAt"`

	// FinishedAt is when the control loop finished its teardown.
	// Zero while the crawl is still running.
	FinishedAt time.Time `json:"finishedAt,omitzero"`

	// PagesProcessed counts candidates that loaded as HTML pages.
	PagesProcessed int `json:"pagesProcessed"`

	// RedirectsFollowed counts candidates whose processing produced a
	// redirected request that was fed back to the frontier.
	RedirectsFollowed int `json:"redirectsFollowed"`

	// NonHTMLSkipped counts candidates rejected from browser processing
	// because their probed content type was not HTML.
	NonHTMLSkipped int `json:"nonHTMLSkipped"`

	// RequestErrors counts candidates whose probe or navigation failed.
	// Errors never abort the loop; they are counted and skipped.
	RequestErrors int `json:"requestErrors"`

	// PageLoadTimeouts counts candidates that timed out in the browser.
	PageLoadTimeouts int `json:"pageLoadTimeouts"`

	// DomainCounts maps top private domains to the number of candidates
	// processed under them.
	DomainCounts map[string]int `json:"domainCounts,omitempty"`

	// Stopped reports whether the session ended by an external stop
	// request rather than by exhausting the frontier.
	Stopped bool `json:"stopped"`
}

// NewCrawlSummary creates an empty summary for the named session.
func NewCrawlSummary(session string) *CrawlSummary {
	return &CrawlSummary{
		Session:      session,
		DomainCounts: make(map[string]int),
	}
}

// CountDomain records one processed candidate under the given domain.
func (s *CrawlSummary) CountDomain(domain string) {
	if s.DomainCounts == nil {
		s.DomainCounts = make(map[string]int)
	}
	s.DomainCounts[domain]++
}

// CandidatesServed is the total number of candidates the loop took out
// of the frontier, across all outcomes.
func (s *CrawlSummary) CandidatesServed() int {
	return s.PagesProcessed + s.RedirectsFollowed + s.NonHTMLSkipped +
		s.RequestErrors + s.PageLoadTimeouts
}

// Duration returns the session's wall-clock duration. For a running
// session it is the time elapsed since the start.
func (s *CrawlSummary) Duration() time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
