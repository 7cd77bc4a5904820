package model

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// MaxDepthCeiling is the hard upper bound on crawl depth, independent of
// the configurable per-crawl maximum. A request chain this deep indicates
// a redirect loop or a pathological site structure rather than a crawl
// that is meant to go further.
const MaxDepthCeiling = 10_000

// CrawlRequest is an immutable description of a URL to visit.
//
// A request carries everything the frontier needs for admission control
// and ordering: the absolute target URL, a signed priority (higher is
// served first), the crawl depth it was discovered at, and opaque user
// metadata that travels with the request through snapshots and events.
//
// Design decision: All fields are unexported and only reachable through
// accessors. Requests are shared between the frontier, snapshots, and
// event callbacks; immutability is what makes that sharing safe without
// defensive copying at every boundary.
type CrawlRequest struct {
	url      *url.URL
	priority int
	depth    int
	metadata map[string]string
}

// URL returns a copy of the request's target URL.
func (r *CrawlRequest) URL() *url.URL {
	u := *r.url
	return &u
}

// String returns the request URL in string form.
func (r *CrawlRequest) String() string {
	return r.url.String()
}

// Priority returns the request priority. Higher values are dequeued first.
func (r *CrawlRequest) Priority() int {
	return r.priority
}

// Depth returns the crawl depth of the request. Seed requests have depth 0.
func (r *CrawlRequest) Depth() int {
	return r.depth
}

// Metadata returns a copy of the request's user metadata.
// It returns nil when no metadata was set.
func (r *CrawlRequest) Metadata() map[string]string {
	if r.metadata == nil {
		return nil
	}
	md := make(map[string]string, len(r.metadata))
	for k, v := range r.metadata {
		md[k] = v
	}
	return md
}

// requestWire is the JSON representation of a CrawlRequest.
// It exists so the immutable request can round-trip through frontier
// snapshots without exporting mutable fields.
type requestWire struct {
	URL      string            `json:"url"`
	Priority int               `json:"priority,omitempty"`
	Depth    int               `json:"depth,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r *CrawlRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(requestWire{
		URL:      r.url.String(),
		Priority: r.priority,
		Depth:    r.depth,
		Metadata: r.metadata,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded request passes
// through the same validation as one built via RequestBuilder, so a
// hand-edited snapshot cannot smuggle an invalid URL into the frontier.
func (r *CrawlRequest) UnmarshalJSON(data []byte) error {
	var w requestWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Depth < 0 || w.Depth > MaxDepthCeiling {
		return fmt.Errorf("%w: %w: depth %d", ErrInvalidRequest, ErrDepthCeilingExceeded, w.Depth)
	}

	u, err := parseRequestURL(w.URL)
	if err != nil {
		return err
	}

	r.url = u
	r.priority = w.Priority
	r.depth = w.Depth
	r.metadata = w.Metadata
	return nil
}

// RequestBuilder constructs validated CrawlRequest values.
//
// The zero builder is not usable; create one with NewRequest. Build
// performs all validation, so a builder can be populated in any order.
type RequestBuilder struct {
	rawURL   string
	priority int
	depth    int
	metadata map[string]string
}

// NewRequest returns a builder for a crawl request targeting rawURL.
// The URL must be absolute; validation happens in Build.
func NewRequest(rawURL string) *RequestBuilder {
	return &RequestBuilder{rawURL: rawURL}
}

// Priority sets the request priority. Higher values are served first.
// The default is 0.
func (b *RequestBuilder) Priority(priority int) *RequestBuilder {
	b.priority = priority
	return b
}

// Metadata attaches opaque user metadata to the request. The map is
// copied at Build time, so later mutation by the caller has no effect.
func (b *RequestBuilder) Metadata(md map[string]string) *RequestBuilder {
	b.metadata = md
	return b
}

// Parent derives the request from an in-flight candidate: the new
// request is one level deeper, and inherits the candidate's priority
// and metadata unless they are overridden on the builder afterwards.
//
// This is how redirect targets and discovered links keep their place in
// the crawl: a redirect of a priority-7 candidate should not fall to the
// back of the queue.
func (b *RequestBuilder) Parent(parent *CrawlCandidate) *RequestBuilder {
	if parent == nil {
		return b
	}
	b.depth = parent.Depth() + 1
	b.priority = parent.Priority()
	b.metadata = parent.Metadata()
	return b
}

// Build validates the builder's inputs and returns the immutable request.
//
// It fails with an error wrapping ErrInvalidRequest when the URL is
// malformed, relative, of an unsupported scheme, or when the derived
// depth exceeds MaxDepthCeiling.
func (b *RequestBuilder) Build() (*CrawlRequest, error) {
	if b.depth > MaxDepthCeiling {
		return nil, fmt.Errorf("%w: %w: depth %d", ErrInvalidRequest, ErrDepthCeilingExceeded, b.depth)
	}

	u, err := parseRequestURL(b.rawURL)
	if err != nil {
		return nil, err
	}

	var md map[string]string
	if len(b.metadata) > 0 {
		md = make(map[string]string, len(b.metadata))
		for k, v := range b.metadata {
			md[k] = v
		}
	}

	return &CrawlRequest{
		url:      u,
		priority: b.priority,
		depth:    b.depth,
		metadata: md,
	}, nil
}

// parseRequestURL parses and validates a request URL.
// All returned errors wrap ErrInvalidRequest.
func parseRequestURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidRequest, ErrMalformedURL, rawURL)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidRequest, ErrNotAbsoluteURL, rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidRequest, ErrUnsupportedScheme, u.Scheme)
	}
	return u, nil
}
