package crawler

import "errors"

// Crawler lifecycle errors.
var (
	// ErrAlreadyStarted is returned by Run when the crawler has run
	// before. A crawler instance drives exactly one crawl; a stopped
	// crawl is resumed by restoring a snapshot into a new instance,
	// never by restarting in place.
	ErrAlreadyStarted = errors.New("crawler has already been started")

	// ErrNotRunning is returned by Crawl when requests are fed from
	// outside while no crawl is running. Seed requests belong in the
	// frontier before Run is called.
	ErrNotRunning = errors.New("crawler is not running")

	// ErrPageLoadTimeout is the sentinel a Browser implementation
	// returns (possibly wrapped) from Navigate when the page does not
	// load within its timeout. The loop reports it as a page load
	// timeout event instead of a request error.
	ErrPageLoadTimeout = errors.New("page load timed out")
)
