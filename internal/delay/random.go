package delay

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Random waits a uniformly distributed random duration in [min, max],
// freshly sampled on every call. Randomized delays make the request
// cadence less regular, which some sites treat more kindly than a
// metronomic crawl.
type Random struct {
	minDelay time.Duration
	maxDelay time.Duration
}

// NewRandom creates a random delay mechanism over [minDelay, maxDelay].
// It fails with ErrInvalidDelayRange when either bound is negative or
// the minimum exceeds the maximum.
func NewRandom(minDelay, maxDelay time.Duration) (*Random, error) {
	if err := validateRange(minDelay, maxDelay); err != nil {
		return nil, fmt.Errorf("%w: [%s, %s]", err, minDelay, maxDelay)
	}
	return &Random{minDelay: minDelay, maxDelay: maxDelay}, nil
}

// Delay implements Mechanism. Both bounds are inclusive.
func (r *Random) Delay() time.Duration {
	spread := int64(r.maxDelay - r.minDelay)
	if spread == 0 {
		return r.minDelay
	}
	return r.minDelay + time.Duration(rand.Int64N(spread+1))
}
