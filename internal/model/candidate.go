package model

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// CrawlCandidate is a CrawlRequest selected for processing by the control
// loop. It enriches the request with its top private domain (eTLD+1),
// which offsite filtering and reporting key on.
//
// Candidates are created only when a request is dequeued from the
// frontier and are never persisted: a snapshot stores requests, and a
// restored frontier re-projects candidates at dequeue time.
type CrawlCandidate struct {
	request *CrawlRequest
	domain  string
}

// NewCandidate projects a request into a candidate, computing its top
// private domain.
func NewCandidate(request *CrawlRequest) *CrawlCandidate {
	return &CrawlCandidate{
		request: request,
		domain:  TopPrivateDomain(request.url.Hostname()),
	}
}

// Request returns the underlying crawl request.
func (c *CrawlCandidate) Request() *CrawlRequest {
	return c.request
}

// URL returns a copy of the candidate's target URL.
func (c *CrawlCandidate) URL() *url.URL {
	return c.request.URL()
}

// String returns the candidate URL in string form.
func (c *CrawlCandidate) String() string {
	return c.request.String()
}

// Domain returns the candidate's top private domain (eTLD+1).
func (c *CrawlCandidate) Domain() string {
	return c.domain
}

// Depth returns the depth the candidate is processed at.
func (c *CrawlCandidate) Depth() int {
	return c.request.Depth()
}

// Priority returns the candidate's priority.
func (c *CrawlCandidate) Priority() int {
	return c.request.Priority()
}

// Metadata returns a copy of the candidate's user metadata.
func (c *CrawlCandidate) Metadata() map[string]string {
	return c.request.Metadata()
}

// TopPrivateDomain returns the registrable domain (eTLD+1) of a host.
//
// Hosts without a registrable domain fall back to the lower-cased host
// itself: IP addresses, "localhost", and bare TLD-like test hosts such as
// "a.example" all identify their own site. This keeps offsite filtering
// meaningful for local and test deployments where the public suffix list
// has nothing to say.
func TopPrivateDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return ""
	}
	if net.ParseIP(host) != nil {
		return host
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}
