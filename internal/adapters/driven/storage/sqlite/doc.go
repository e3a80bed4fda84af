// Package sqlite provides the SQLite-based Reconciliation Store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements driven.ChartStore over
// two tables:
//
//   - chart_entries: one row per (title, artist) natural key ever scraped
//   - feature_vectors: audio features, cascading on delete of their entry
//
// # Schema
//
// The schema lives in the migrations/ directory as idempotent CREATE ... IF NOT
// EXISTS statements. EnsureSchema applies every file on each call; there is no
// version table because the schema never changes shape.
//
// # Data Location
//
// By default, the database is stored at ~/.chartmix/data/chartmix.db
//
// # Thread Safety
//
// Batch writes are serialised by a store-level write lock, one transaction
// at a time. Within a batch each row runs inside a savepoint so one bad row
// is skipped without losing the rest.
package sqlite
