// Package store provides the SQLite-backed benchmark completion ledger.
//
// One table, benchmark_commits, holds one row per attempted
// (commit, configuration, architecture) combination together with its
// status. The store owns all WorkItem persistence: callers never hold a row
// across calls, every read and write re-queries the database.
//
// # Critical patterns
//
// Identity: UNIQUE(sha, config, architecture). The config column stores the
// document's canonical JSON bytes (see internal/conf), so structurally equal
// documents always collide regardless of source key order.
//
// Upsert atomicity: status changes go through a single
// INSERT ... ON CONFLICT ... DO UPDATE statement, never a separate
// existence check followed by an insert or update. Concurrent runners
// marking the same triple therefore cannot produce duplicate rows or lose
// updates.
//
// Transient in_progress rows: in_progress marks abandoned by a crashed
// runner carry no lease or timer; they survive until the next decision
// cycle bulk-deletes them. complete rows are permanent history and are
// never deleted here.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
package store
