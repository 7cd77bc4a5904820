package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoSeeds is returned when no seed URL is specified.
	// This error occurs when neither positional arguments nor the profile
	// file provide at least one seed.
	ErrNoSeeds = errors.New("no seeds specified: provide at least one seed URL")

	// ErrInvalidCrawlDepth is returned when the maximum crawl depth is
	// negative. Depth 0 means only the seed pages are crawled.
	ErrInvalidCrawlDepth = errors.New("invalid crawl depth: must be non-negative")

	// ErrInvalidDelayStrategy is returned when the delay strategy name is
	// not one of fixed, random, or adaptive.
	ErrInvalidDelayStrategy = errors.New("invalid delay strategy: must be fixed, random, or adaptive")

	// ErrInvalidFixedDelay is returned when the fixed delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidFixedDelay = errors.New("invalid fixed delay: must be non-negative")

	// ErrInvalidDelayBounds is returned when the minimum delay is negative
	// or the maximum delay is smaller than the minimum. The bounds apply to
	// the random and adaptive strategies.
	ErrInvalidDelayBounds = errors.New("invalid delay bounds: min must be non-negative and max must not be smaller than min")

	// ErrInvalidPageLoadTimeout is returned when the page load timeout is
	// not positive. A zero timeout would fail every navigation immediately.
	ErrInvalidPageLoadTimeout = errors.New("invalid page load timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent sessions, effectively
	// stopping batch crawling.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
