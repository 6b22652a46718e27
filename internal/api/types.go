package api

import (
	"time"

	"newsforge/internal/article"
	"newsforge/internal/pipeline"
)

// SubmitRequest is the job submission payload.
type SubmitRequest struct {
	Source  article.Source   `json:"source"`
	Options pipeline.Options `json:"options"`
}

// SubmitResponse acknowledges a queued job.
type SubmitResponse struct {
	JobID string `json:"job_id"`
}

// ArtifactView is one artifact with its metadata decoded for clients.
type ArtifactView struct {
	Type      string         `json:"type"`
	Path      string         `json:"path,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// JobStatus is the full client-facing view of one job.
type JobStatus struct {
	JobID      string         `json:"job_id"`
	Status     string         `json:"status"`
	Progress   int            `json:"progress"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	Artifacts  []ArtifactView `json:"artifacts,omitempty"`
}

// JobSummary is the list-view row without artifacts.
type JobSummary struct {
	JobID     string    `json:"job_id"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HealthResponse reports daemon liveness plus job counts.
type HealthResponse struct {
	Status     string `json:"status"`
	Total      int    `json:"total"`
	Queued     int    `json:"queued"`
	Processing int    `json:"processing"`
	Completed  int    `json:"completed"`
	Degraded   int    `json:"degraded"`
	Failed     int    `json:"failed"`
}

type errorResponse struct {
	Error string `json:"error"`
}
