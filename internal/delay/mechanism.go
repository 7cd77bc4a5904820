package delay

import (
	"errors"
	"time"
)

// Mechanism is the capability the control loop consults between
// requests. Implementations are stateless across calls: no mechanism
// remembers prior delays.
type Mechanism interface {
	// Delay returns how long the loop should wait before dequeuing the
	// next candidate.
	Delay() time.Duration
}

// Construction errors for delay mechanisms.
var (
	// ErrInvalidDelayRange is returned when a mechanism is constructed
	// with a negative bound or with a minimum greater than the maximum.
	ErrInvalidDelayRange = errors.New("invalid delay range")
)

// validateRange checks delay bounds shared by the ranged mechanisms.
func validateRange(minDelay, maxDelay time.Duration) error {
	if minDelay < 0 || maxDelay < 0 {
		return ErrInvalidDelayRange
	}
	if minDelay > maxDelay {
		return ErrInvalidDelayRange
	}
	return nil
}
