package report

import (
	"io"
	"sort"
	"time"

	"github.com/jiuzixue09/serritor/internal/model"
)

// summaryRounding is the precision durations are rounded to in reports.
const summaryRounding = time.Second

// Writer defines the interface for session report output.
// Implementations write crawl summaries in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the summary to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(summary *model.CrawlSummary) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write summaries, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the summary to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(summary *model.CrawlSummary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// sortedDomains returns the summary's domains ordered by candidate count,
// highest first, ties broken alphabetically.
func sortedDomains(summary *model.CrawlSummary) []string {
	domains := make([]string, 0, len(summary.DomainCounts))
	for domain := range summary.DomainCounts {
		domains = append(domains, domain)
	}

	sort.Slice(domains, func(i, j int) bool {
		a, b := domains[i], domains[j]
		if summary.DomainCounts[a] != summary.DomainCounts[b] {
			return summary.DomainCounts[a] > summary.DomainCounts[b]
		}
		return a < b
	})
	return domains
}
