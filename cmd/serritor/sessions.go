package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jiuzixue09/serritor/internal/config"
	"github.com/jiuzixue09/serritor/internal/database"
)

// NewSessionsCmd creates the sessions command.
func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List stored crawl sessions",
		Long: `Sessions lists every crawl session stored in the local database, with
its latest outcome and whether it has pending candidates left to resume.

Examples:
  # List all sessions
  serritor sessions

  # Use a custom database directory
  serritor sessions --db-dir /var/lib/serritor`,
		Args: cobra.NoArgs,
		RunE: runSessionsCmd,
	}

	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runSessionsCmd executes the sessions command.
func runSessionsCmd(cmd *cobra.Command, _ []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.Options{EnableWAL: true})
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No crawl database found; run 'serritor crawl' first.")
		return nil
	}
	defer db.Close()

	ctx := cmd.Context()
	sessions, err := db.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions stored yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tLAST CRAWL\tPAGES\tERRORS\tPENDING\tSTATUS")

	for _, session := range sessions {
		summary, err := db.LatestSummary(ctx, session)
		if err != nil {
			return fmt.Errorf("failed to load summary for %q: %w", session, err)
		}

		snapshot, err := db.LatestSnapshot(ctx, session)
		if err != nil {
			return fmt.Errorf("failed to load snapshot for %q: %w", session, err)
		}

		lastCrawl, pages, errCount := "-", "-", "-"
		status := "unknown"
		if summary != nil {
			if !summary.StartedAt.IsZero() {
				lastCrawl = summary.StartedAt.Format("2006-01-02 15:04")
			}
			pages = fmt.Sprintf("%d", summary.PagesProcessed)
			errCount = fmt.Sprintf("%d", summary.RequestErrors)
			if summary.Stopped {
				status = "stopped"
			} else {
				status = "complete"
			}
		}

		pending := "-"
		if snapshot != nil {
			pending = fmt.Sprintf("%d", len(snapshot.Pending))
			if len(snapshot.Pending) > 0 {
				status = "resumable"
			}
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			session, lastCrawl, pages, errCount, pending, status)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d session(s) in %s\n", len(sessions), dbDir)
	return nil
}
