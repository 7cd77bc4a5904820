package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/jiuzixue09/serritor/internal/delay"
)

// Browser abstracts the browser automation collaborator. The loop only
// needs four capabilities: load a page, report where the browser ended
// up (to detect script-driven redirects), execute a script (for adaptive
// delay timing), and shut down.
type Browser interface {
	// Navigate loads the page in the browser. It returns an error
	// wrapping ErrPageLoadTimeout when the page does not load within the
	// implementation's timeout.
	Navigate(ctx context.Context, pageURL string) error

	// CurrentURL returns the URL of the currently loaded page, which may
	// differ from the navigated URL after client-side redirects.
	CurrentURL() (string, error)

	// ExecuteScript runs a script in the current page and returns its
	// result.
	ExecuteScript(script string) (any, error)

	// Close releases the browser. The control loop calls it exactly once
	// during teardown.
	Close() error
}

// ProbeResult is what a HEAD probe learned about a URL before the
// browser is involved.
type ProbeResult struct {
	// FinalURL is the URL after following any HTTP redirects. Equal to
	// the probed URL when no redirect occurred.
	FinalURL string

	// ContentType is the media type of the response, without parameters.
	ContentType string
}

// Prober abstracts the lightweight availability/content-type check that
// runs before a candidate is opened in the browser. Non-HTML resources
// never reach the browser.
type Prober interface {
	// Probe checks the URL and reports its final location and content type.
	Probe(ctx context.Context, pageURL string) (*ProbeResult, error)
}

// loadTimeScript measures how long the current page took to load, in
// milliseconds, via the Navigation Timing API.
const loadTimeScript = "return performance.timing.loadEventEnd - performance.timing.navigationStart;"

// browserTimingSource adapts a Browser into a delay.TimingSource by
// executing the navigation timing script on the current page.
type browserTimingSource struct {
	browser Browser
}

// NewBrowserTimingSource returns a delay.TimingSource that measures page
// load time through the given browser. Use it to construct the adaptive
// delay mechanism for a browser-driven crawl.
func NewBrowserTimingSource(browser Browser) delay.TimingSource {
	return &browserTimingSource{browser: browser}
}

// PageLoadTime implements delay.TimingSource.
func (s *browserTimingSource) PageLoadTime() (time.Duration, error) {
	result, err := s.browser.ExecuteScript(loadTimeScript)
	if err != nil {
		return 0, err
	}

	// Script executors return numbers with driver-dependent types.
	var millis float64
	switch v := result.(type) {
	case float64:
		millis = v
	case int64:
		millis = float64(v)
	case int:
		millis = float64(v)
	default:
		return 0, fmt.Errorf("timing script returned %T, want a number", result)
	}

	if millis < 0 {
		millis = 0
	}
	return time.Duration(millis) * time.Millisecond, nil
}
