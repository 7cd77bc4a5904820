// Package database provides SQLite-based persistence for crawl sessions.
//
// This package implements the SessionDB, which stores:
//   - Frontier snapshots, so an interrupted crawl can resume where it left off
//   - Session summaries for historical inspection
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
//
// Snapshots and summaries are stored as JSON in TEXT columns rather than
// normalized tables. A snapshot is only ever read back whole, so relational
// decomposition would buy nothing.
package database
