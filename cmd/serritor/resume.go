package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jiuzixue09/serritor/internal/config"
	"github.com/jiuzixue09/serritor/internal/database"
	"github.com/jiuzixue09/serritor/internal/frontier"
	"github.com/jiuzixue09/serritor/internal/log"
)

// NewResumeCmd creates the resume command.
func NewResumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume <session>",
		Short: "Resume a previously stopped crawl session",
		Long: `Resume restores the named session's latest frontier snapshot and
continues crawling where the session left off. The restored frontier keeps
the original deduplication index, priority ordering, and offsite domain set,
so the crawl proceeds exactly as if it had never been interrupted.

Examples:
  # Resume the nightly session
  serritor resume nightly

  # Resume with a slower delay than the original run
  serritor resume --delay-strategy fixed --fixed-delay 5s nightly`,
		Args: cobra.ExactArgs(1),
		RunE: runResumeCmd,
	}

	// Delay flags; pacing is a property of the run, not of the snapshot.
	cmd.Flags().String("delay-strategy", string(config.DelayFixed),
		"Crawl delay strategy: fixed, random, or adaptive")
	cmd.Flags().Duration("fixed-delay", config.DefaultFixedDelay,
		"Delay between page loads for the fixed strategy")
	cmd.Flags().Duration("min-delay", config.DefaultMinDelay,
		"Lower delay bound for the random and adaptive strategies")
	cmd.Flags().Duration("max-delay", config.DefaultMaxDelay,
		"Upper delay bound for the random and adaptive strategies")

	// Browser flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultPageLoadTimeout,
		"Page load timeout in the browser")

	// Persistence flags
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runResumeCmd executes the resume command.
func runResumeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildResumeConfig(cmd, args[0])
	if err != nil {
		return err
	}

	verbose := getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, verbose)
	slog.SetDefault(logger)
	cfg.Verbose = verbose

	ctx, cancel := signalContext(logger)
	defer cancel()

	// The database must already exist; resuming can't conjure state.
	db, err := database.Open(cfg.DBDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no crawl database found (nothing to resume): %w", err)
	}

	snapshot, err := db.LatestSnapshot(ctx, cfg.Session)
	closeErr := db.Close()
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	if closeErr != nil {
		return closeErr
	}
	if snapshot == nil {
		return fmt.Errorf("no snapshot stored for session %q", cfg.Session)
	}

	f, err := frontier.Restore(snapshot)
	if err != nil {
		return fmt.Errorf("failed to restore session %q: %w", cfg.Session, err)
	}

	if !f.HasNextCandidate() {
		fmt.Printf("Session %q has no pending candidates; nothing to resume.\n", cfg.Session)
		return nil
	}

	// The report's seed list comes from the snapshot's pending head rather
	// than the original seeds, which the snapshot doesn't record.
	for _, request := range snapshot.Pending {
		cfg.Seeds = append(cfg.Seeds, request.String())
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	fmt.Printf("Resuming session %q (%d pending, %d seen)...\n",
		cfg.Session, len(snapshot.Pending), len(snapshot.SeenKeys))

	return runSession(ctx, cfg, f, logger)
}

// buildResumeConfig creates a Config for the resume command.
func buildResumeConfig(cmd *cobra.Command, session string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Session = session

	var err error

	strategy, err := cmd.Flags().GetString("delay-strategy")
	if err != nil {
		return nil, err
	}
	cfg.DelayStrategy, err = config.ParseDelayStrategy(strategy)
	if err != nil {
		return nil, err
	}

	cfg.FixedDelay, err = cmd.Flags().GetDuration("fixed-delay")
	if err != nil {
		return nil, err
	}

	cfg.MinDelay, err = cmd.Flags().GetDuration("min-delay")
	if err != nil {
		return nil, err
	}

	cfg.MaxDelay, err = cmd.Flags().GetDuration("max-delay")
	if err != nil {
		return nil, err
	}

	cfg.PageLoadTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}
	cfg.SaveToDB = true

	return cfg, nil
}
