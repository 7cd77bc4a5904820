// Package report renders finished crawl session summaries in several
// output formats: plain text for terminals, JSON for tool integration,
// and Markdown for documentation and sharing.
package report
