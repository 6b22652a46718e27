// Package logging assembles structured slog loggers shared across newsforge
// components.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so orchestrator and pipeline
// code automatically tag log lines with job IDs, pipeline names, and
// correlation IDs. A no-op logger is provided for tests and wiring code that
// cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
