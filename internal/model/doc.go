// Package model defines the core data structures of the crawl scheduling core.
//
// This package contains the following main types:
//   - CrawlRequest: An immutable, validated "URL to visit" value
//   - RequestBuilder: Validating constructor for CrawlRequest
//   - CrawlCandidate: A request selected for processing by the control loop
//   - CrawlSummary: Aggregated statistics of a finished or running crawl session
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (frontier, crawler, database, report) need
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for snapshot persistence
// and report output.
package model
