package database

import (
	"context"
	"testing"
	"time"

	"github.com/jiuzixue09/serritor/internal/frontier"
	"github.com/jiuzixue09/serritor/internal/model"
)

// openTestDB opens a SessionDB in a temp directory and registers cleanup.
func openTestDB(t *testing.T) *SessionDB {
	t.Helper()

	sdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := sdb.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return sdb
}

// buildSnapshot returns a frontier snapshot holding the given URLs as seeds.
func buildSnapshot(t *testing.T, urls ...string) *frontier.Snapshot {
	t.Helper()

	f := frontier.New(frontier.WithMaxDepth(3))
	for _, rawURL := range urls {
		req, err := model.NewRequest(rawURL).Build()
		if err != nil {
			t.Fatalf("failed to build request %q: %v", rawURL, err)
		}
		f.Feed(req, true)
	}
	return f.Snapshot()
}

// TestOpen tests database creation behavior.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database and directory", func(t *testing.T) {
		t.Parallel()

		sdb := openTestDB(t)
		if sdb.dbPath == "" {
			t.Error("expected a database path")
		}
	})

	t.Run("refuses to create when CreateIfNotExists is false", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false, EnableWAL: true}
		if _, err := Open(t.TempDir(), opts); err == nil {
			t.Error("expected error for missing database")
		}
	})
}

// TestSnapshotPersistence tests the snapshot save/load round trip.
func TestSnapshotPersistence(t *testing.T) {
	t.Parallel()

	t.Run("round trip restores an equivalent frontier", func(t *testing.T) {
		t.Parallel()

		sdb := openTestDB(t)
		ctx := context.Background()

		original := buildSnapshot(t,
			"https://example.com/",
			"https://example.com/a",
			"https://example.com/b",
		)

		if _, err := sdb.SaveSnapshot(ctx, "nightly", original); err != nil {
			t.Fatalf("failed to save snapshot: %v", err)
		}

		loaded, err := sdb.LatestSnapshot(ctx, "nightly")
		if err != nil {
			t.Fatalf("failed to load snapshot: %v", err)
		}
		if loaded == nil {
			t.Fatal("expected a snapshot")
		}

		restored, err := frontier.Restore(loaded)
		if err != nil {
			t.Fatalf("failed to restore frontier: %v", err)
		}

		want := []string{"https://example.com/", "https://example.com/a", "https://example.com/b"}
		for i, wantURL := range want {
			candidate, err := restored.NextCandidate()
			if err != nil {
				t.Fatalf("candidate %d: %v", i, err)
			}
			if candidate.String() != wantURL {
				t.Errorf("candidate %d: expected %s, got %s", i, wantURL, candidate.String())
			}
		}
		if restored.HasNextCandidate() {
			t.Error("restored frontier should be exhausted")
		}
	})

	t.Run("latest snapshot wins", func(t *testing.T) {
		t.Parallel()

		sdb := openTestDB(t)
		ctx := context.Background()

		first := buildSnapshot(t, "https://example.com/")
		second := buildSnapshot(t, "https://example.com/", "https://example.com/a")

		if _, err := sdb.SaveSnapshot(ctx, "nightly", first); err != nil {
			t.Fatalf("failed to save first snapshot: %v", err)
		}
		if _, err := sdb.SaveSnapshot(ctx, "nightly", second); err != nil {
			t.Fatalf("failed to save second snapshot: %v", err)
		}

		loaded, err := sdb.LatestSnapshot(ctx, "nightly")
		if err != nil {
			t.Fatalf("failed to load snapshot: %v", err)
		}
		if len(loaded.Pending) != 2 {
			t.Errorf("expected the newer snapshot with 2 pending, got %d", len(loaded.Pending))
		}
	})

	t.Run("unknown session has no snapshot", func(t *testing.T) {
		t.Parallel()

		sdb := openTestDB(t)
		loaded, err := sdb.LatestSnapshot(context.Background(), "missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if loaded != nil {
			t.Errorf("expected nil snapshot, got %+v", loaded)
		}
	})

	t.Run("snapshot by ID", func(t *testing.T) {
		t.Parallel()

		sdb := openTestDB(t)
		ctx := context.Background()

		id, err := sdb.SaveSnapshot(ctx, "nightly", buildSnapshot(t, "https://example.com/"))
		if err != nil {
			t.Fatalf("failed to save snapshot: %v", err)
		}

		loaded, err := sdb.SnapshotByID(ctx, id)
		if err != nil {
			t.Fatalf("failed to load snapshot: %v", err)
		}
		if loaded == nil || len(loaded.Pending) != 1 {
			t.Errorf("expected snapshot with 1 pending, got %+v", loaded)
		}

		missing, err := sdb.SnapshotByID(ctx, id+1000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if missing != nil {
			t.Errorf("expected nil for unknown ID, got %+v", missing)
		}
	})

	t.Run("history lists metadata newest first", func(t *testing.T) {
		t.Parallel()

		sdb := openTestDB(t)
		ctx := context.Background()

		if _, err := sdb.SaveSnapshot(ctx, "nightly", buildSnapshot(t, "https://example.com/")); err != nil {
			t.Fatalf("failed to save snapshot: %v", err)
		}
		if _, err := sdb.SaveSnapshot(ctx, "nightly",
			buildSnapshot(t, "https://example.com/", "https://example.com/a")); err != nil {
			t.Fatalf("failed to save snapshot: %v", err)
		}

		history, err := sdb.SnapshotHistory(ctx, "nightly")
		if err != nil {
			t.Fatalf("failed to get history: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(history))
		}
		if history[0].PendingCount != 2 || history[1].PendingCount != 1 {
			t.Errorf("expected newest-first ordering, got %+v", history)
		}
		if history[0].Session != "nightly" {
			t.Errorf("expected session nightly, got %s", history[0].Session)
		}
		if history[0].SeenCount != 2 {
			t.Errorf("expected seen count 2, got %d", history[0].SeenCount)
		}
	})
}

// TestSummaryPersistence tests summary storage and session listing.
func TestSummaryPersistence(t *testing.T) {
	t.Parallel()

	t.Run("round trip preserves counters", func(t *testing.T) {
		t.Parallel()

		sdb := openTestDB(t)
		ctx := context.Background()

		summary := model.NewCrawlSummary("nightly")
		summary.Seeds = []string{"https://example.com/"}
		summary.StartedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		summary.FinishedAt = time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
		summary.PagesProcessed = 42
		summary.RedirectsFollowed = 3
		summary.Stopped = true
		summary.CountDomain("example.com")

		if err := sdb.SaveSummary(ctx, summary); err != nil {
			t.Fatalf("failed to save summary: %v", err)
		}

		loaded, err := sdb.LatestSummary(ctx, "nightly")
		if err != nil {
			t.Fatalf("failed to load summary: %v", err)
		}
		if loaded == nil {
			t.Fatal("expected a summary")
		}
		if loaded.PagesProcessed != 42 || loaded.RedirectsFollowed != 3 || !loaded.Stopped {
			t.Errorf("unexpected summary: %+v", loaded)
		}
		if loaded.DomainCounts["example.com"] != 1 {
			t.Errorf("expected domain counts to survive, got %v", loaded.DomainCounts)
		}
		if loaded.Duration() != 30*time.Minute {
			t.Errorf("expected 30m duration, got %s", loaded.Duration())
		}
	})

	t.Run("unknown session has no summary", func(t *testing.T) {
		t.Parallel()

		sdb := openTestDB(t)
		loaded, err := sdb.LatestSummary(context.Background(), "missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if loaded != nil {
			t.Errorf("expected nil summary, got %+v", loaded)
		}
	})

	t.Run("summary history is newest first", func(t *testing.T) {
		t.Parallel()

		sdb := openTestDB(t)
		ctx := context.Background()

		for _, pages := range []int{1, 2} {
			summary := model.NewCrawlSummary("nightly")
			summary.PagesProcessed = pages
			if err := sdb.SaveSummary(ctx, summary); err != nil {
				t.Fatalf("failed to save summary: %v", err)
			}
		}

		history, err := sdb.SummaryHistory(ctx, "nightly")
		if err != nil {
			t.Fatalf("failed to get history: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("expected 2 summaries, got %d", len(history))
		}
		if history[0].PagesProcessed != 2 || history[1].PagesProcessed != 1 {
			t.Errorf("expected newest-first ordering, got %+v", history)
		}
	})

	t.Run("lists sessions across snapshots and summaries", func(t *testing.T) {
		t.Parallel()

		sdb := openTestDB(t)
		ctx := context.Background()

		if _, err := sdb.SaveSnapshot(ctx, "beta", buildSnapshot(t, "https://example.com/")); err != nil {
			t.Fatalf("failed to save snapshot: %v", err)
		}
		if err := sdb.SaveSummary(ctx, model.NewCrawlSummary("alpha")); err != nil {
			t.Fatalf("failed to save summary: %v", err)
		}
		if err := sdb.SaveSummary(ctx, model.NewCrawlSummary("beta")); err != nil {
			t.Fatalf("failed to save summary: %v", err)
		}

		sessions, err := sdb.ListSessions(ctx)
		if err != nil {
			t.Fatalf("failed to list sessions: %v", err)
		}

		want := []string{"alpha", "beta"}
		if len(sessions) != len(want) {
			t.Fatalf("expected %v, got %v", want, sessions)
		}
		for i := range want {
			if sessions[i] != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], sessions[i])
			}
		}
	})
}

// TestParseTimestamp tests the multi-format timestamp parser.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "sqlite default", input: "2026-08-01 12:00:00", valid: true},
		{name: "iso 8601 with Z", input: "2026-08-01T12:00:00Z", valid: true},
		{name: "rfc3339 with offset", input: "2026-08-01T12:00:00+09:00", valid: true},
		{name: "garbage", input: "yesterday", valid: false},
		{name: "empty", input: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if tt.valid && got.IsZero() {
				t.Errorf("expected %q to parse", tt.input)
			}
			if !tt.valid && !got.IsZero() {
				t.Errorf("expected %q to fail, got %v", tt.input, got)
			}
		})
	}
}
