package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jiuzixue09/serritor/internal/model"
)

// sampleSummary returns a finished summary with a bit of everything.
func sampleSummary() *model.CrawlSummary {
	summary := model.NewCrawlSummary("nightly")
	summary.Seeds = []string{"https://example.com/"}
	summary.StartedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	summary.FinishedAt = time.Date(2026, 8, 1, 12, 15, 0, 0, time.UTC)
	summary.PagesProcessed = 40
	summary.RedirectsFollowed = 5
	summary.NonHTMLSkipped = 3
	summary.RequestErrors = 2
	summary.PageLoadTimeouts = 1
	summary.DomainCounts = map[string]int{
		"example.com": 45,
		"example.org": 6,
	}
	return summary
}

// TestSimpleWriter tests the plain text format.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes all sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(sampleSummary()); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"CRAWL SESSION REPORT",
			"Session:    nightly",
			"https://example.com/",
			"PAGES:     40",
			"REDIRECTS: 5",
			"TOTAL:     51 candidates",
			"example.com",
			"Status:     Complete",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q:\n%s", want, output)
			}
		}
	})

	t.Run("marks stopped sessions", func(t *testing.T) {
		t.Parallel()

		summary := sampleSummary()
		summary.Stopped = true

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(summary); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "STOPPED") {
			t.Errorf("expected stopped marker:\n%s", buf.String())
		}
	})

	t.Run("hides empty domain section by default", func(t *testing.T) {
		t.Parallel()

		summary := model.NewCrawlSummary("empty")

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(summary); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if strings.Contains(buf.String(), "DOMAINS") {
			t.Errorf("expected no domain section:\n%s", buf.String())
		}

		buf.Reset()
		if _, err := NewSimpleWriter(&buf, WithShowEmpty(true)).Write(summary); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "No candidates processed") {
			t.Errorf("expected empty domain section:\n%s", buf.String())
		}
	})
}

// TestJSONWriter tests the JSON format.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("round trips through encoding/json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(sampleSummary()); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		var decoded model.CrawlSummary
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON output: %v", err)
		}
		if decoded.Session != "nightly" || decoded.PagesProcessed != 40 {
			t.Errorf("unexpected decoded summary: %+v", decoded)
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(sampleSummary()); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"session\"") {
			t.Errorf("expected indented output:\n%s", buf.String())
		}
	})

	t.Run("full writer wraps with version", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewFullJSONWriter(&buf, "1.2.3").Write(sampleSummary()); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		var wrapped JSONReport
		if err := json.Unmarshal(buf.Bytes(), &wrapped); err != nil {
			t.Fatalf("invalid JSON output: %v", err)
		}
		if wrapped.Version != "1.2.3" {
			t.Errorf("expected version 1.2.3, got %s", wrapped.Version)
		}
		if wrapped.Summary == nil || wrapped.Summary.Session != "nightly" {
			t.Errorf("unexpected wrapped summary: %+v", wrapped.Summary)
		}
	})
}

// TestMarkdownWriter tests the Markdown format.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes tables and chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(sampleSummary()); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Crawl Session Report",
			"`nightly`",
			"## Candidate Outcomes",
			"```mermaid",
			"`example.com`",
			"[serritor]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q:\n%s", want, output)
			}
		}
	})

	t.Run("clean session gets a tip", func(t *testing.T) {
		t.Parallel()

		summary := sampleSummary()
		summary.RequestErrors = 0
		summary.PageLoadTimeouts = 0

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(summary); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "[!TIP]") {
			t.Errorf("expected tip alert:\n%s", buf.String())
		}
	})

	t.Run("errors get a warning", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(sampleSummary()); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "[!WARNING]") {
			t.Errorf("expected warning alert:\n%s", buf.String())
		}
	})
}

// TestMultiWriter tests fan-out to multiple writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to every writer", func(t *testing.T) {
		t.Parallel()

		var text, jsonBuf bytes.Buffer
		mw := NewMultiWriter(
			NewSimpleWriter(&text),
			NewJSONWriter(&jsonBuf),
		)

		if _, err := mw.Write(sampleSummary()); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if text.Len() == 0 || jsonBuf.Len() == 0 {
			t.Error("expected both writers to receive output")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		failing := &failingWriter{err: errors.New("disk full")}
		var buf bytes.Buffer
		mw := NewMultiWriter(failing, NewSimpleWriter(&buf))

		if _, err := mw.Write(sampleSummary()); err == nil {
			t.Fatal("expected an error")
		}
		if buf.Len() != 0 {
			t.Error("expected later writers to be skipped after an error")
		}
	})
}

// failingWriter always fails, for MultiWriter error tests.
type failingWriter struct {
	err error
}

// Write implements Writer.
func (w *failingWriter) Write(*model.CrawlSummary) (int, error) {
	return 0, w.err
}
