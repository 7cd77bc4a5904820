package frontier

import "errors"

// Frontier errors.
//
// Design decision: Admission rejections (depth, offsite, duplicate) are
// deliberately not represented here. They are expected, high-frequency
// outcomes of normal crawling; surfacing each one as an error would turn
// every crawl into a stream of non-actionable failures.
var (
	// ErrEmptyFrontier is returned by NextCandidate when the frontier has
	// no pending requests. Callers are expected to gate dequeues on
	// HasNextCandidate; hitting this error is a programming mistake.
	ErrEmptyFrontier = errors.New("frontier has no pending candidates")

	// ErrCorruptState is returned by Restore when a snapshot violates the
	// frontier's structural invariants, such as duplicate fingerprints
	// among pending requests or a pending request missing from the
	// deduplication index.
	ErrCorruptState = errors.New("corrupt frontier state")
)
