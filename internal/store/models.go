package store

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a job.
type Status string

const (
	StatusQueued              Status = "queued"
	StatusRunning             Status = "running"
	StatusGenerating          Status = "generating"
	StatusCompleted           Status = "completed"
	StatusCompletedWithErrors Status = "completed_with_errors"
	StatusFailed              Status = "failed"
)

var allStatuses = []Status{
	StatusQueued,
	StatusRunning,
	StatusGenerating,
	StatusCompleted,
	StatusCompletedWithErrors,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status is final.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCompletedWithErrors, StatusFailed:
		return true
	default:
		return false
	}
}

// Job represents one end-to-end derivation request persisted in SQLite.
type Job struct {
	ID         string
	Status     Status
	Progress   int
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
}

// Artifact is a persisted output unit owned by exactly one job. Artifacts are
// never mutated after insertion.
type Artifact struct {
	ID        int64
	JobID     string
	Type      string
	Path      string
	Metadata  Metadata
	CreatedAt time.Time
}

// HealthSummary describes aggregated job counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Queued     int
	Processing int
	Completed  int
	Degraded   int
	Failed     int
}

// JobUpdate carries the optional fields of a partial job update. Nil fields
// are left untouched. Finished stamps finished_at; the store refuses to stamp
// it twice.
type JobUpdate struct {
	Status   *Status
	Progress *int
	Error    *string
	Finished bool
}

// WithStatus sets the status field.
func (u JobUpdate) WithStatus(status Status) JobUpdate {
	u.Status = &status
	return u
}

// WithProgress sets the progress field.
func (u JobUpdate) WithProgress(progress int) JobUpdate {
	u.Progress = &progress
	return u
}

// WithError sets the error summary field.
func (u JobUpdate) WithError(message string) JobUpdate {
	u.Error = &message
	return u
}
