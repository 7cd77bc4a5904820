// Package delay implements the crawl delay mechanisms: the pluggable
// rate-limiting strategies the control loop consults once per processed
// candidate.
//
// Three mechanisms exist, all stateless per call:
//   - Fixed: a constant configured duration
//   - Random: a fresh uniform sample from [min, max] on every call
//   - Adaptive: the observed page load time, clamped into [min, max]
//
// Invalid bounds fail fast at construction, not at first use; a
// misconfigured crawl should never start.
package delay
