package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jiuzixue09/serritor/internal/frontier"
	"github.com/jiuzixue09/serritor/internal/model"
)

// SessionDB provides SQLite-based storage for crawl session state.
// It manages connection pooling and provides methods for snapshot and
// summary persistence.
//
// Design decision: We use a single database file shared by all sessions
// rather than one file per session. This makes listing sessions and
// backup/restore operations trivial, and SQLite handles the volume easily.
type SessionDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures SessionDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a SessionDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned; resuming a session requires an existing database.
func Open(dbDir string, opts Options) (*SessionDB, error) {
	dbPath := filepath.Join(dbDir, "serritor.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to refuse creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids lock
	// contention entirely.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SessionDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *SessionDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *SessionDB) createTables() error {
	schema := `
	-- Snapshots store the full frontier state of a session as JSON.
	-- pending_count and seen_count are denormalized so history listings
	-- don't have to parse the snapshot body.
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		snapshot_json TEXT NOT NULL,
		pending_count INTEGER NOT NULL,
		seen_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_session ON snapshots(session);
	CREATE INDEX IF NOT EXISTS idx_snapshots_timestamp ON snapshots(timestamp);

	-- Summaries store finished session outcomes as JSON.
	CREATE TABLE IF NOT EXISTS summaries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_summaries_session ON summaries(session);
	CREATE INDEX IF NOT EXISTS idx_summaries_timestamp ON summaries(timestamp);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveSnapshot persists a frontier snapshot for the named session and
// returns its row ID. Snapshots are append-only; the latest one wins on
// resume, and older rows remain as history.
func (sdb *SessionDB) SaveSnapshot(ctx context.Context, session string, snapshot *frontier.Snapshot) (int64, error) {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	query := `
	INSERT INTO snapshots (session, snapshot_json, pending_count, seen_count)
	VALUES (?, ?, ?, ?)
	`

	result, err := sdb.db.ExecContext(ctx, query,
		session,
		string(snapshotJSON),
		len(snapshot.Pending),
		len(snapshot.SeenKeys),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save snapshot: %w", err)
	}

	return result.LastInsertId()
}

// LatestSnapshot retrieves the most recent snapshot for a session.
// Returns (nil, nil) when the session has no snapshots.
func (sdb *SessionDB) LatestSnapshot(ctx context.Context, session string) (*frontier.Snapshot, error) {
	query := `
	SELECT snapshot_json FROM snapshots
	WHERE session = ?
	ORDER BY id DESC
	LIMIT 1
	`

	var snapshotJSON string
	err := sdb.db.QueryRowContext(ctx, query, session).Scan(&snapshotJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snapshot frontier.Snapshot
	if err := json.Unmarshal([]byte(snapshotJSON), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	return &snapshot, nil
}

// SnapshotByID retrieves a snapshot by its row ID.
// Returns (nil, nil) when no such row exists.
func (sdb *SessionDB) SnapshotByID(ctx context.Context, id int64) (*frontier.Snapshot, error) {
	query := `
	SELECT snapshot_json FROM snapshots
	WHERE id = ?
	`

	var snapshotJSON string
	err := sdb.db.QueryRowContext(ctx, query, id).Scan(&snapshotJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snapshot frontier.Snapshot
	if err := json.Unmarshal([]byte(snapshotJSON), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	return &snapshot, nil
}

// SnapshotMetadata contains summary information about a stored snapshot.
// This is used for displaying session history without loading the full
// snapshot body.
type SnapshotMetadata struct {
	// ID is the unique identifier of the snapshot in the database.
	ID int64

	// Session is the crawl session the snapshot belongs to.
	Session string

	// Timestamp is when the snapshot was taken.
	Timestamp time.Time

	// PendingCount is the number of pending requests in the snapshot.
	PendingCount int

	// SeenCount is the size of the deduplication index in the snapshot.
	SeenCount int
}

// SnapshotHistory retrieves snapshot metadata for a session, newest first.
// This is more efficient than loading full snapshots when only metadata
// is needed.
func (sdb *SessionDB) SnapshotHistory(ctx context.Context, session string) ([]SnapshotMetadata, error) {
	query := `
	SELECT id, session, timestamp, pending_count, seen_count
	FROM snapshots
	WHERE session = ?
	ORDER BY id DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query, session)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot history: %w", err)
	}
	defer rows.Close()

	var results []SnapshotMetadata
	for rows.Next() {
		var meta SnapshotMetadata
		var timestamp string

		if err := rows.Scan(&meta.ID, &meta.Session, &timestamp, &meta.PendingCount, &meta.SeenCount); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// ListSessions returns the names of all sessions with at least one stored
// snapshot or summary, sorted.
func (sdb *SessionDB) ListSessions(ctx context.Context) ([]string, error) {
	query := `
	SELECT session FROM snapshots
	UNION
	SELECT session FROM summaries
	ORDER BY session
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var session string
		if err := rows.Scan(&session); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// SaveSummary persists a finished session summary.
func (sdb *SessionDB) SaveSummary(ctx context.Context, summary *model.CrawlSummary) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}

	query := `
	INSERT INTO summaries (session, summary_json)
	VALUES (?, ?)
	`

	_, err = sdb.db.ExecContext(ctx, query, summary.Session, string(summaryJSON))
	if err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}

	return nil
}

// LatestSummary retrieves the most recent summary for a session.
// Returns (nil, nil) when the session has no summaries.
func (sdb *SessionDB) LatestSummary(ctx context.Context, session string) (*model.CrawlSummary, error) {
	query := `
	SELECT summary_json FROM summaries
	WHERE session = ?
	ORDER BY id DESC
	LIMIT 1
	`

	var summaryJSON string
	err := sdb.db.QueryRowContext(ctx, query, session).Scan(&summaryJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	var summary model.CrawlSummary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}

	return &summary, nil
}

// SummaryHistory retrieves all summaries for a session, newest first.
// Malformed rows are skipped rather than failing the whole listing.
func (sdb *SessionDB) SummaryHistory(ctx context.Context, session string) ([]*model.CrawlSummary, error) {
	query := `
	SELECT summary_json FROM summaries
	WHERE session = ?
	ORDER BY id DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query, session)
	if err != nil {
		return nil, fmt.Errorf("failed to get summary history: %w", err)
	}
	defer rows.Close()

	var summaries []*model.CrawlSummary
	for rows.Next() {
		var summaryJSON string
		if err := rows.Scan(&summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}

		var summary model.CrawlSummary
		if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
			continue
		}
		summaries = append(summaries, &summary)
	}

	return summaries, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
