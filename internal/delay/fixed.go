package delay

import (
	"fmt"
	"time"
)

// Fixed waits a constant duration between requests.
type Fixed struct {
	duration time.Duration
}

// NewFixed creates a fixed delay mechanism. The duration must be
// non-negative; zero disables the politeness delay entirely.
func NewFixed(duration time.Duration) (*Fixed, error) {
	if duration < 0 {
		return nil, fmt.Errorf("%w: fixed delay %s is negative", ErrInvalidDelayRange, duration)
	}
	return &Fixed{duration: duration}, nil
}

// Delay implements Mechanism.
func (f *Fixed) Delay() time.Duration {
	return f.duration
}
