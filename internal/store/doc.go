// Package store persists jobs and their artifacts in SQLite.
//
// The Store manages database connections, schema initialization, and the
// partial-update semantics the orchestrator relies on: job rows are mutated
// only through UpdateJob, artifacts are immutable after insert, and
// finished_at is written exactly once when a job enters a terminal status.
//
// The database is the single source of truth for job state. Progress is
// always recomputed from the full artifact list rather than accumulated, so
// concurrent pipeline completions can never double-count. Schema changes bump
// the version in schema.go; the database is transient state and can be
// cleared to adopt a new schema.
package store
