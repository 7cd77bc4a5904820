package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jiuzixue09/serritor/internal/config"
	"github.com/jiuzixue09/serritor/internal/crawler"
	"github.com/jiuzixue09/serritor/internal/database"
	"github.com/jiuzixue09/serritor/internal/frontier"
	"github.com/jiuzixue09/serritor/internal/log"
	"github.com/jiuzixue09/serritor/internal/model"
	"github.com/jiuzixue09/serritor/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [seed-url]...",
		Short: "Crawl websites starting from the given seeds",
		Long: `Crawl starts a crawl session from one or more seed URLs.

Candidates are dequeued from a prioritized frontier (highest priority first,
FIFO within a priority), deduplicated by canonical URL fingerprint, and paced
by the selected crawl delay strategy. The session's state is snapshotted to
the local database on exit, so a stopped crawl can be resumed later.

Examples:
  # Crawl a single site, staying on its domain
  serritor crawl --offsite https://example.com/

  # Use a random delay between 1s and 5s
  serritor crawl --delay-strategy random https://example.com/

  # Name the session so it can be resumed
  serritor crawl -s nightly https://example.com/

  # Crawl every session defined in the profile file, concurrently
  serritor crawl --all

Profile file (.serritor) example:
  defaults:
    maxCrawlDepth: 10
    delayStrategy: fixed
    fixedDelay: 2s
  sessions:
    nightly:
      seeds:
        - https://example.com/
      offsiteFiltering: true
      delayStrategy: adaptive
      minDelay: 500ms
      maxDelay: 10s`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Session flags
	cmd.Flags().StringP("session", "s", config.DefaultSession,
		"Session name used for snapshots and resuming")
	cmd.Flags().Bool("all", false,
		"Crawl every session defined in the profile file")

	// Frontier flags
	cmd.Flags().IntP("depth", "d", config.DefaultMaxCrawlDepth,
		"Maximum link depth admitted to the frontier")
	cmd.Flags().Bool("offsite", false,
		"Restrict the crawl to the seed domains")

	// Delay flags
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

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent sessions with --all")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Profile file path (default: .serritor in current or home directory)")

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

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCrawlConfig(cmd, args)
	if err != nil {
		return err
	}

	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}

	verbose := getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, verbose)
	slog.SetDefault(logger)
	cfg.Verbose = verbose

	ctx, cancel := signalContext(logger)
	defer cancel()

	if all {
		return runAllSessions(ctx, cfg, logger)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	f, err := buildFrontier(cfg)
	if err != nil {
		return err
	}

	return runSession(ctx, cfg, f, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, stopping after the current page...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// buildCrawlConfig creates a Config from cobra command flags and the
// profile file. Positional arguments take precedence over profile seeds.
func buildCrawlConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Session, err = cmd.Flags().GetString("session")
	if err != nil {
		return nil, err
	}

	cfg.MaxCrawlDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.OffsiteFiltering, err = cmd.Flags().GetBool("offsite")
	if err != nil {
		return nil, err
	}

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

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load session profiles from the profile file.
	// If the user explicitly specified a path, error when it doesn't exist.
	// Otherwise silently continue without profiles.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Profiles, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile file %s: %w", configPath, err)
		}
		cfg.Apply(cfg.Profiles.GetProfile(cfg.Session))
	} else if explicitConfigPath {
		return nil, fmt.Errorf("profile file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.Profiles = &config.File{
			Sessions: make(map[string]config.Profile),
		}
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

	// Seeds from the command line win over profile seeds.
	if len(args) > 0 {
		cfg.Seeds = args
	}

	return cfg, nil
}

// runSession runs a single crawl session over an already-built frontier,
// snapshots the frontier on exit, and writes the session report.
func runSession(ctx context.Context, cfg *config.Config, f *frontier.Frontier, logger *slog.Logger) error {
	browser := &stubBrowser{}
	mechanism, err := buildMechanism(cfg, browser)
	if err != nil {
		return fmt.Errorf("failed to build delay mechanism: %w", err)
	}

	c := crawler.New(f, mechanism, browser, passthroughProber{},
		crawler.WithLogger(logger),
		crawler.WithSession(cfg.Session),
		crawler.WithHandlers(progressHandlers()),
	)

	fmt.Printf("Crawling session %q (%d seed(s), strategy: %s)...\n\n",
		cfg.Session, len(cfg.Seeds), cfg.DelayStrategy)
	startTime := time.Now()

	if err := c.Run(ctx); err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\nCrawl finished in %s\n\n", elapsed.Round(time.Millisecond))

	summary := c.Summary()
	summary.Seeds = cfg.Seeds

	if cfg.SaveToDB {
		if err := persistSession(ctx, cfg, f, &summary, logger); err != nil {
			logger.Error("failed to persist session", "session", cfg.Session, "error", err)
		}
	}

	return outputReport(cfg, &summary)
}

// progressHandlers returns event handlers that print per-candidate
// progress to stdout.
func progressHandlers() crawler.EventHandlers {
	return crawler.EventHandlers{
		OnPageLoad: func(event *crawler.PageLoadEvent) {
			fmt.Printf("  [page]     %s\n", event.Candidate)
		},
		OnRequestRedirect: func(event *crawler.RequestRedirectEvent) {
			fmt.Printf("  [redirect] %s -> %s\n", event.Candidate, event.Redirect)
		},
		OnNonHTMLContent: func(event *crawler.NonHTMLContentEvent) {
			fmt.Printf("  [skip]     %s (%s)\n", event.Candidate, event.ContentType)
		},
		OnPageLoadTimeout: func(event *crawler.PageLoadTimeoutEvent) {
			fmt.Printf("  [timeout]  %s\n", event.Candidate)
		},
		OnRequestError: func(event *crawler.RequestErrorEvent) {
			fmt.Printf("  [error]    %s: %v\n", event.Candidate, event.Err)
		},
	}
}

// persistSession saves the frontier snapshot and the session summary.
// The snapshot makes the session resumable; the summary feeds the
// sessions listing.
func persistSession(ctx context.Context, cfg *config.Config, f *frontier.Frontier, summary *model.CrawlSummary, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.SaveSnapshot(ctx, cfg.Session, f.Snapshot()); err != nil {
		return err
	}
	if err := db.SaveSummary(ctx, summary); err != nil {
		return err
	}

	logger.Info("session persisted",
		"session", cfg.Session,
		"pending", f.Len(),
		"dir", cfg.DBDir,
	)
	return nil
}

// runAllSessions crawls every session defined in the profile file,
// concurrently up to the batch size.
func runAllSessions(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.Profiles == nil || len(cfg.Profiles.Sessions) == 0 {
		return fmt.Errorf("no sessions defined in the profile file (use 'serritor crawl <seed-url>' for an ad-hoc crawl)")
	}

	sessions := make([]string, 0, len(cfg.Profiles.Sessions))
	for session := range cfg.Profiles.Sessions {
		sessions = append(sessions, session)
	}

	// Build and validate each session's config up front so a typo in one
	// profile fails the invocation instead of a job mid-batch.
	configs := make(map[string]*config.Config, len(sessions))
	for _, session := range sessions {
		sessionCfg := *cfg
		sessionCfg.Session = session
		sessionCfg.Seeds = nil
		sessionCfg.Apply(cfg.Profiles.GetProfile(session))
		if err := sessionCfg.Validate(); err != nil {
			return fmt.Errorf("session %q: %w", session, err)
		}
		configs[session] = &sessionCfg
	}

	fmt.Printf("Crawling %d session(s) (concurrency: %d)...\n\n", len(sessions), cfg.BatchSize)
	startTime := time.Now()

	runner := crawler.NewBatchRunner(
		func(session string) (*crawler.Crawler, error) {
			sessionCfg := configs[session]
			f, err := buildFrontier(sessionCfg)
			if err != nil {
				return nil, err
			}
			browser := &stubBrowser{}
			mechanism, err := buildMechanism(sessionCfg, browser)
			if err != nil {
				return nil, err
			}
			return crawler.New(f, mechanism, browser, passthroughProber{},
				crawler.WithLogger(logger),
				crawler.WithSession(session),
			), nil
		},
		crawler.WithBatchConcurrency(cfg.BatchSize),
		crawler.WithBatchLogger(logger),
	)

	summaries, err := runner.Run(ctx, sessions)
	if err != nil {
		return err
	}

	fmt.Printf("Batch finished in %s\n", time.Since(startTime).Round(time.Millisecond))

	for i := range summaries {
		if summaries[i].Session == "" {
			continue
		}
		summaries[i].Seeds = configs[summaries[i].Session].Seeds
		if err := outputReport(cfg, &summaries[i]); err != nil {
			logger.Error("report failed", "session", summaries[i].Session, "error", err)
		}
	}

	return nil
}

// outputReport writes the session summary in the requested format.
func outputReport(cfg *config.Config, summary *model.CrawlSummary) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output)
	}

	_, err := writer.Write(summary)
	return err
}
