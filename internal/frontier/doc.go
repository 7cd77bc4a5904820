// Package frontier implements the crawl frontier: the priority-ordered
// set of not-yet-visited requests plus the admission policy that decides
// which fed requests ever enter it.
//
// The frontier applies three checks, in order, to every fed request:
//
//  1. Depth: requests deeper than the configured maximum are dropped.
//  2. Offsite: when enabled, non-seed requests outside the domains
//     established by the seeds are dropped.
//  3. Deduplication: requests whose canonical URL fingerprint has been
//     seen before are dropped.
//
// All three are silent, steady-state drops, not errors. Dequeue order is
// priority descending with strict FIFO for equal priorities, which makes
// crawl ordering deterministic and reproducible across snapshot/restore.
//
// The frontier is not safe for concurrent use; the control loop
// serializes access to it.
package frontier
