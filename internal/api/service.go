package api

import (
	"context"
	"fmt"

	"newsforge/internal/article"
	"newsforge/internal/orchestrator"
	"newsforge/internal/services"
	"newsforge/internal/store"
)

// Service answers status queries from the store and submits jobs through the
// orchestrator.
type Service struct {
	store   *store.Store
	manager *orchestrator.Manager
}

// NewService wires the query service.
func NewService(st *store.Store, manager *orchestrator.Manager) *Service {
	return &Service{store: st, manager: manager}
}

// Submit creates and starts a job, returning its identifier immediately.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	handle, err := s.manager.Submit(ctx, req.Source, req.Options)
	if err != nil {
		return "", err
	}
	return handle.JobID, nil
}

// JobStatus returns the full view of one job including its artifacts.
func (s *Service) JobStatus(ctx context.Context, jobID string) (*JobStatus, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, services.Wrap(services.ErrNotFound, "api", "status",
			fmt.Sprintf("no job with id %s", jobID), nil)
	}

	artifacts, err := s.store.ListArtifacts(ctx, jobID)
	if err != nil {
		return nil, err
	}

	status := &JobStatus{
		JobID:      job.ID,
		Status:     string(job.Status),
		Progress:   job.Progress,
		Error:      job.Error,
		CreatedAt:  job.CreatedAt,
		UpdatedAt:  job.UpdatedAt,
		StartedAt:  job.StartedAt,
		FinishedAt: job.FinishedAt,
	}
	for _, artifact := range artifacts {
		status.Artifacts = append(status.Artifacts, ArtifactView{
			Type:      artifact.Type,
			Path:      artifact.Path,
			Metadata:  artifact.Metadata,
			CreatedAt: artifact.CreatedAt,
		})
	}
	return status, nil
}

// ListJobs returns job summaries, optionally filtered by status.
func (s *Service) ListJobs(ctx context.Context, statusFilter string) ([]JobSummary, error) {
	var statuses []store.Status
	if statusFilter != "" {
		status, ok := store.ParseStatus(statusFilter)
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "api", "list",
				fmt.Sprintf("unknown status %q", statusFilter), nil)
		}
		statuses = append(statuses, status)
	}

	jobs, err := s.store.ListJobs(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	summaries := make([]JobSummary, 0, len(jobs))
	for _, job := range jobs {
		summaries = append(summaries, JobSummary{
			JobID:     job.ID,
			Status:    string(job.Status),
			Progress:  job.Progress,
			Error:     job.Error,
			CreatedAt: job.CreatedAt,
			UpdatedAt: job.UpdatedAt,
		})
	}
	return summaries, nil
}

// Health reports liveness plus aggregate job counts.
func (s *Service) Health(ctx context.Context) (HealthResponse, error) {
	if err := s.store.Ping(ctx); err != nil {
		return HealthResponse{Status: "unhealthy"}, err
	}
	summary, err := s.store.Health(ctx)
	if err != nil {
		return HealthResponse{Status: "unhealthy"}, err
	}
	return HealthResponse{
		Status:     "ok",
		Total:      summary.Total,
		Queued:     summary.Queued,
		Processing: summary.Processing,
		Completed:  summary.Completed,
		Degraded:   summary.Degraded,
		Failed:     summary.Failed,
	}, nil
}

// validateSubmit rejects requests the orchestrator would fail immediately.
func validateSubmit(req SubmitRequest) error {
	switch req.Source.Kind {
	case article.SourcePaste, article.SourceUpload, article.SourceURL:
	default:
		return services.Wrap(services.ErrUnsupported, "api", "submit",
			fmt.Sprintf("unsupported source kind %q", req.Source.Kind), nil)
	}
	if req.Source.Payload == "" {
		return services.Wrap(services.ErrValidation, "api", "submit", "source payload is empty", nil)
	}
	return nil
}
