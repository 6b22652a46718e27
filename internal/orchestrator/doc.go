// Package orchestrator runs the job state machine: resolve and validate the
// input, analyze it, fan the enabled pipelines out concurrently, aggregate
// their outcomes, and persist every transition.
//
// Pipelines are isolated from each other. A failing pipeline becomes an
// error_<name> artifact plus an entry in the job error summary; its siblings
// keep running and its partial artifacts survive. Progress is recomputed from
// the persisted artifact list after every pipeline finishes, so a restarted
// reader reconstructs identical numbers.
package orchestrator
