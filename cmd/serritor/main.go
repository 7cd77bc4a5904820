// Package main provides the entry point for the serritor CLI.
//
// Serritor is a browser-driving web crawler. It schedules candidate URLs
// through a prioritized, deduplicating frontier, paces page loads with a
// configurable crawl delay, and persists session state so interrupted
// crawls can resume where they left off.
//
// Usage:
//
//	serritor crawl <seed-url>...
//	serritor resume <session>
//	serritor sessions
//
// See --help for all available options.
package main

// main is the entry point for serritor.
func main() {
	Execute()
}
