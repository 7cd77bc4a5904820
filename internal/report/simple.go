package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jiuzixue09/serritor/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no data are shown.
	showEmpty bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.CrawlSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeOutcomes(&sb, summary)
	w.writeDomains(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with session information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.CrawlSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         CRAWL SESSION REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Session:    %s\n", summary.Session))
	if len(summary.Seeds) > 0 {
		sb.WriteString(fmt.Sprintf("Seeds:      %s\n", strings.Join(summary.Seeds, ", ")))
	}
	if !summary.StartedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Started:    %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST")))
	}
	sb.WriteString(fmt.Sprintf("Duration:   %s\n", summary.Duration().Round(summaryRounding)))

	if summary.Stopped {
		sb.WriteString("Status:     STOPPED (partial results)\n")
	} else {
		sb.WriteString("Status:     Complete\n")
	}

	sb.WriteString("\n")
}

// writeOutcomes writes the candidate outcome counters.
func (w *SimpleWriter) writeOutcomes(sb *strings.Builder, summary *model.CrawlSummary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CANDIDATE OUTCOMES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  PAGES:     %d\n", summary.PagesProcessed))
	sb.WriteString(fmt.Sprintf("  REDIRECTS: %d\n", summary.RedirectsFollowed))
	sb.WriteString(fmt.Sprintf("  NON-HTML:  %d\n", summary.NonHTMLSkipped))
	sb.WriteString(fmt.Sprintf("  ERRORS:    %d\n", summary.RequestErrors))
	sb.WriteString(fmt.Sprintf("  TIMEOUTS:  %d\n", summary.PageLoadTimeouts))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  TOTAL:     %d candidates\n", summary.CandidatesServed()))
	sb.WriteString("\n")
}

// writeDomains writes the per-domain candidate counts.
func (w *SimpleWriter) writeDomains(sb *strings.Builder, summary *model.CrawlSummary) {
	if len(summary.DomainCounts) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("DOMAINS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.DomainCounts) == 0 {
		sb.WriteString("  No candidates processed\n")
	} else {
		for _, domain := range sortedDomains(summary) {
			sb.WriteString(fmt.Sprintf("  [+] %-40s %d\n", domain, summary.DomainCounts[domain]))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by serritor\n")
	sb.WriteString("https://github.com/jiuzixue09/serritor\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
