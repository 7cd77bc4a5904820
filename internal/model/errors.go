package model

import "errors"

// Request construction errors.
// These errors are returned by RequestBuilder.Build() and never by the
// frontier itself: an invalid request is rejected before it can enter
// the scheduling core.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances at each failure site. This allows callers
// to use errors.Is() for programmatic error handling while still
// providing human-readable messages.
var (
	// ErrInvalidRequest is the base error for all request validation
	// failures. Every more specific error below wraps it, so callers can
	// match the whole family with errors.Is(err, ErrInvalidRequest).
	ErrInvalidRequest = errors.New("invalid crawl request")

	// ErrMalformedURL is returned when the request URL cannot be parsed.
	ErrMalformedURL = errors.New("malformed URL")

	// ErrNotAbsoluteURL is returned when the request URL is relative.
	// The frontier only accepts fully resolved URLs; resolving relative
	// references against a base is the link extractor's job.
	ErrNotAbsoluteURL = errors.New("URL is not absolute")

	// ErrUnsupportedScheme is returned when the URL scheme is neither
	// http nor https.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")

	// ErrDepthCeilingExceeded is returned when a request derived from a
	// parent would exceed MaxDepthCeiling. This is a sanity bound against
	// runaway redirect chains, independent of the configurable crawl depth.
	ErrDepthCeilingExceeded = errors.New("crawl depth exceeds sanity ceiling")
)
