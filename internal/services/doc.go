// Package services defines the error taxonomy and context annotation helpers
// shared by every external collaborator (LLM providers, speech synthesis,
// avatar rendering, web search) and by the orchestrator.
//
// Errors are classified with sentinel markers so that callers can decide
// whether a failure is retryable (transient infrastructure), fatal to the job
// (input or validation), or fatal only to the pipeline that needs a missing
// setting (configuration). Wrap tags an error with a marker plus component and
// operation context; the sentinel survives %w chains so classification works
// at any distance from the failure site.
package services
