package delay

import (
	"fmt"
	"time"
)

// TimingSource supplies the observed load duration of the most recently
// processed page. The browser collaborator implements this, typically by
// executing a navigation-timing script and returning the measured
// milliseconds.
type TimingSource interface {
	// PageLoadTime returns the load duration of the current page.
	PageLoadTime() (time.Duration, error)
}

// Adaptive scales the politeness delay to the perceived latency of the
// site: a slow site is given more breathing room, a fast one is crawled
// faster, and both are bounded by the configured range.
type Adaptive struct {
	minDelay time.Duration
	maxDelay time.Duration
	source   TimingSource
}

// NewAdaptive creates an adaptive delay mechanism over [minDelay,
// maxDelay] backed by the given timing source. It fails with
// ErrInvalidDelayRange exactly as NewRandom does.
func NewAdaptive(minDelay, maxDelay time.Duration, source TimingSource) (*Adaptive, error) {
	if err := validateRange(minDelay, maxDelay); err != nil {
		return nil, fmt.Errorf("%w: [%s, %s]", err, minDelay, maxDelay)
	}
	return &Adaptive{
		minDelay: minDelay,
		maxDelay: maxDelay,
		source:   source,
	}, nil
}

// Delay implements Mechanism. The observed load time is clamped into
// [min, max]; observations below the minimum return the minimum and
// observations above the maximum return the maximum.
//
// When the timing source fails (for example, the script cannot run on
// the current page) the minimum is returned: a broken measurement should
// not slow the crawl to its worst case.
func (a *Adaptive) Delay() time.Duration {
	observed, err := a.source.PageLoadTime()
	if err != nil {
		return a.minDelay
	}

	if observed < a.minDelay {
		return a.minDelay
	}
	if observed > a.maxDelay {
		return a.maxDelay
	}
	return observed
}
