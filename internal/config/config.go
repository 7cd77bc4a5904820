package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen to be polite toward crawled sites while keeping
// crawl times reasonable.
const (
	// DefaultMaxCrawlDepth of 100 allows thorough exploration of most sites
	// while preventing infinite crawling through calendar pages and other
	// link generators. Larger sites may need this increased via CLI flags.
	DefaultMaxCrawlDepth = 100

	// DefaultFixedDelay is the delay between page loads under the fixed
	// strategy. 1 second is conservative and respectful of server resources.
	DefaultFixedDelay = 1 * time.Second

	// DefaultMinDelay is the lower delay bound for the random and adaptive
	// strategies.
	DefaultMinDelay = 1 * time.Second

	// DefaultMaxDelay is the upper delay bound for the random and adaptive
	// strategies. 5 seconds keeps the crawl moving even against slow pages.
	DefaultMaxDelay = 5 * time.Second

	// DefaultPageLoadTimeout is how long the browser waits for a page to
	// load before the candidate is counted as a timeout. Browser-rendered
	// pages with heavy scripts can legitimately take tens of seconds.
	DefaultPageLoadTimeout = 30 * time.Second

	// DefaultBatchSize of 4 concurrent sessions balances throughput with
	// resource usage; every session holds its own browser instance.
	DefaultBatchSize = 4

	// DefaultSession is the session name used when the user doesn't pick one.
	DefaultSession = "default"

	// AppName is the application name used for XDG directory paths.
	AppName = "serritor"
)

// DelayStrategy selects the crawl delay mechanism.
type DelayStrategy string

// Supported delay strategies.
const (
	// DelayFixed waits the same duration after every page load.
	DelayFixed DelayStrategy = "fixed"

	// DelayRandom waits a uniformly random duration between the configured
	// bounds after every page load.
	DelayRandom DelayStrategy = "random"

	// DelayAdaptive waits as long as the last page took to load, clamped
	// into the configured bounds.
	DelayAdaptive DelayStrategy = "adaptive"
)

// ParseDelayStrategy parses a strategy name, case-insensitively.
// It returns ErrInvalidDelayStrategy for unknown names.
func ParseDelayStrategy(s string) (DelayStrategy, error) {
	switch DelayStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case DelayFixed:
		return DelayFixed, nil
	case DelayRandom:
		return DelayRandom, nil
	case DelayAdaptive:
		return DelayAdaptive, nil
	}
	return "", ErrInvalidDelayStrategy
}

// Config holds all configuration options for a crawl session.
// This struct is designed to be populated from CLI flags and the profile
// file, then passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., DelayConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Seeds is the list of seed URLs the crawl starts from.
	// Must contain at least one absolute http or https URL.
	Seeds []string

	// Session is the name under which snapshots and summaries are stored.
	// Resuming a crawl requires the same session name.
	Session string

	// MaxCrawlDepth is the maximum link depth admitted to the frontier.
	// Depth 0 means only the seed pages are crawled.
	MaxCrawlDepth int

	// OffsiteFiltering restricts the crawl to the top private domains of
	// the seeds. Requests to other domains are silently dropped.
	OffsiteFiltering bool

	// DelayStrategy selects the crawl delay mechanism.
	DelayStrategy DelayStrategy

	// FixedDelay is the delay used by the fixed strategy.
	FixedDelay time.Duration

	// MinDelay is the lower delay bound for the random and adaptive
	// strategies.
	MinDelay time.Duration

	// MaxDelay is the upper delay bound for the random and adaptive
	// strategies.
	MaxDelay time.Duration

	// PageLoadTimeout is how long the browser waits for a page load.
	PageLoadTimeout time.Duration

	// BatchSize is the number of concurrent sessions when crawling several
	// profiles in one invocation.
	BatchSize int

	// ConfigFilePath is the path to the profile file.
	// If empty, the tool searches for .serritor in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Profiles holds per-session settings loaded from the profile file.
	// This is populated by LoadConfigFile.
	Profiles *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for storing the SQLite database.
	// When set, snapshots and summaries are saved for resuming and
	// historical inspection. When empty, nothing is persisted.
	// Defaults to XDG data directory (~/.local/share/serritor on Linux).
	DBDir string

	// SaveToDB indicates whether to persist session state to the database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., delays, depth).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Session:         DefaultSession,
		MaxCrawlDepth:   DefaultMaxCrawlDepth,
		DelayStrategy:   DelayFixed,
		FixedDelay:      DefaultFixedDelay,
		MinDelay:        DefaultMinDelay,
		MaxDelay:        DefaultMaxDelay,
		PageLoadTimeout: DefaultPageLoadTimeout,
		BatchSize:       DefaultBatchSize,
	}
}

// XDGDataDir returns the XDG data directory for the crawler.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/serritor
// On macOS: ~/Library/Application Support/serritor
// On Windows: %LOCALAPPDATA%\serritor
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the crawler.
// On Linux: ~/.config/serritor
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeeds
	}

	if c.MaxCrawlDepth < 0 {
		return ErrInvalidCrawlDepth
	}

	if _, err := ParseDelayStrategy(string(c.DelayStrategy)); err != nil {
		return err
	}

	if c.FixedDelay < 0 {
		return ErrInvalidFixedDelay
	}

	if c.MinDelay < 0 || c.MaxDelay < c.MinDelay {
		return ErrInvalidDelayBounds
	}

	if c.PageLoadTimeout <= 0 {
		return ErrInvalidPageLoadTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
