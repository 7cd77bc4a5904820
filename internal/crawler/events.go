package crawler

import "github.com/jiuzixue09/serritor/internal/model"

// Events are how candidate outcomes reach the embedding. They are
// dispatched synchronously from the control loop, so a handler may feed
// new requests via Crawl and have them admitted before the next
// candidate is dequeued; ordering of discovered requests relative to the
// current candidate is part of the contract.

// PageLoadEvent is dispatched when the browser loaded the candidate's
// page. The handler typically extracts links from the page and feeds
// them back through Crawler.Crawl.
type PageLoadEvent struct {
	// Candidate is the candidate whose page loaded.
	Candidate *model.CrawlCandidate

	// Browser is the browser holding the loaded page.
	Browser Browser
}

// PageLoadTimeoutEvent is dispatched when the page did not load in the
// browser within the timeout period.
type PageLoadTimeoutEvent struct {
	Candidate *model.CrawlCandidate
	Err       error
}

// RequestRedirectEvent is dispatched when processing a candidate
// produced a redirect, either from the HTTP probe or from a client-side
// redirect in the browser. The redirected request has already been fed
// to the frontier when the handler runs.
type RequestRedirectEvent struct {
	Candidate *model.CrawlCandidate

	// Redirect is the request created for the redirect target.
	Redirect *model.CrawlRequest
}

// NonHTMLContentEvent is dispatched when the probe reported a content
// type other than HTML. Such candidates are never opened in the browser.
type NonHTMLContentEvent struct {
	Candidate   *model.CrawlCandidate
	ContentType string
}

// RequestErrorEvent is dispatched when the probe or the navigation
// failed. The loop continues with the next candidate.
type RequestErrorEvent struct {
	Candidate *model.CrawlCandidate
	Err       error
}

// EventHandlers bundles the embedding's callbacks. Every field is
// optional; a nil handler is simply skipped.
type EventHandlers struct {
	// OnStart runs once, after the crawler enters the running state and
	// before the first candidate is dequeued.
	OnStart func()

	// OnPageLoad runs for every successfully loaded HTML page.
	OnPageLoad func(*PageLoadEvent)

	// OnPageLoadTimeout runs when a page load times out.
	OnPageLoadTimeout func(*PageLoadTimeoutEvent)

	// OnRequestRedirect runs when a candidate was redirected.
	OnRequestRedirect func(*RequestRedirectEvent)

	// OnNonHTMLContent runs when a candidate points at non-HTML content.
	OnNonHTMLContent func(*NonHTMLContentEvent)

	// OnRequestError runs when a candidate's processing failed.
	OnRequestError func(*RequestErrorEvent)

	// OnStop runs once during teardown, whichever way the loop exits.
	OnStop func()
}
