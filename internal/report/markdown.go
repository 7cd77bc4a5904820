package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/jiuzixue09/serritor/internal/model"
)

// MarkdownWriter outputs summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.CrawlSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeOutcomes(md, summary)
	w.writeDomains(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with session information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.CrawlSummary) {
	md.H1("Crawl Session Report")
	md.PlainText("")

	rows := [][]string{
		{"Session", "`" + summary.Session + "`"},
	}
	if !summary.StartedAt.IsZero() {
		rows = append(rows, []string{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")})
	}
	rows = append(rows,
		[]string{"Duration", summary.Duration().Round(summaryRounding).String()},
		[]string{"Candidates Served", strconv.Itoa(summary.CandidatesServed())},
		[]string{"Status", w.getStatusText(summary)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(summary.Seeds) > 0 {
		md.H2("Seeds")
		md.PlainText("")
		md.BulletList(summary.Seeds...)
		md.PlainText("")
	}
}

// getStatusText returns the status text based on how the session ended.
func (w *MarkdownWriter) getStatusText(summary *model.CrawlSummary) string {
	if summary.Stopped {
		return "⚠️ Stopped (partial results)"
	}
	return "✅ Complete"
}

// writeOutcomes writes the candidate outcome section.
func (w *MarkdownWriter) writeOutcomes(md *markdown.Markdown, summary *model.CrawlSummary) {
	md.H2("Candidate Outcomes")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"🟢 Pages processed", strconv.Itoa(summary.PagesProcessed)},
			{"🔁 Redirects followed", strconv.Itoa(summary.RedirectsFollowed)},
			{"📄 Non-HTML skipped", strconv.Itoa(summary.NonHTMLSkipped)},
			{"🔴 Request errors", strconv.Itoa(summary.RequestErrors)},
			{"⏱️ Page load timeouts", strconv.Itoa(summary.PageLoadTimeouts)},
			{"**Total**", "**" + strconv.Itoa(summary.CandidatesServed()) + "**"},
		},
	})
	md.PlainText("")

	if summary.CandidatesServed() > 0 {
		w.writePieChart(md, summary)
	}

	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart of the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.CrawlSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Candidate Outcome Distribution"),
		piechart.WithShowData(true),
	)

	if summary.PagesProcessed > 0 {
		chart.LabelAndIntValue("Pages", uint64(summary.PagesProcessed))
	}
	if summary.RedirectsFollowed > 0 {
		chart.LabelAndIntValue("Redirects", uint64(summary.RedirectsFollowed))
	}
	if summary.NonHTMLSkipped > 0 {
		chart.LabelAndIntValue("Non-HTML", uint64(summary.NonHTMLSkipped))
	}
	if summary.RequestErrors > 0 {
		chart.LabelAndIntValue("Errors", uint64(summary.RequestErrors))
	}
	if summary.PageLoadTimeouts > 0 {
		chart.LabelAndIntValue("Timeouts", uint64(summary.PageLoadTimeouts))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the session's outcomes.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.CrawlSummary) {
	switch {
	case summary.RequestErrors > 0:
		md.Warningf(
			"%d candidate(s) failed with request errors. Check the crawl logs for details.",
			summary.RequestErrors,
		)
	case summary.PageLoadTimeouts > 0:
		md.Importantf(
			"%d candidate(s) timed out in the browser. Consider a longer page load timeout.",
			summary.PageLoadTimeouts,
		)
	case summary.Stopped:
		md.Note("The session was stopped before the frontier was exhausted. Resume it to continue.")
	default:
		md.Tip("Every candidate was processed without errors.")
	}
	md.PlainText("")
}

// writeDomains writes the per-domain candidate counts.
func (w *MarkdownWriter) writeDomains(md *markdown.Markdown, summary *model.CrawlSummary) {
	md.H2("Domains")
	md.PlainText("")

	if len(summary.DomainCounts) == 0 {
		md.PlainText("No candidates processed.")
		md.PlainText("")
		return
	}

	domains := sortedDomains(summary)
	rows := make([][]string, len(domains))
	for i, domain := range domains {
		rows[i] = []string{"`" + domain + "`", strconv.Itoa(summary.DomainCounts[domain])}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Domain", "Candidates"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [serritor](https://github.com/jiuzixue09/serritor)*")
}
