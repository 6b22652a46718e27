package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks input that failed a content or format check.
	ErrValidation = errors.New("validation error")
	// ErrUnsupported marks a source kind or operation the system does not handle.
	ErrUnsupported = errors.New("unsupported")
	// ErrConfiguration marks a missing or invalid provider setting.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks a missing record or resource.
	ErrNotFound = errors.New("not found")
	// ErrTransient marks infrastructure failures worth retrying.
	ErrTransient = errors.New("transient failure")
	// ErrTimeout marks an operation that exceeded its deadline.
	ErrTimeout = errors.New("timeout")
	// ErrUnavailable marks a provider that cannot serve requests at all
	// (degraded-mode callers treat this differently from a transient blip).
	ErrUnavailable = errors.New("provider unavailable")
)

// Wrap builds an error that carries component and operation context while
// tagging it with the provided classification marker. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsTransient reports whether an error should be retried with backoff.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrTimeout)
}

// IsFatalInput reports whether an error represents bad input that must fail
// the job without retrying.
func IsFatalInput(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrUnsupported)
}

// IsConfiguration reports whether an error represents a missing provider
// setting. Such failures are fatal to the pipeline that needs the provider but
// isolated from the job.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// Summary returns a short human-readable message suitable for the job-level
// error column. The full chain stays available through errors.Unwrap.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimSpace(err.Error())
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
