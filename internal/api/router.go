package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"newsforge/internal/logging"
	"newsforge/internal/services"
)

// NewRouter builds the daemon HTTP surface.
func NewRouter(service *Service, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.String(logging.FieldComponent, "api"))

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestID)

	r.Get("/healthz", handleHealth(service))
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/jobs", handleSubmit(service, logger))
		r.Get("/jobs", handleListJobs(service))
		r.Get("/jobs/{id}", handleJobStatus(service))
		r.Get("/jobs/{id}/artifacts", handleArtifacts(service))
	})
	return r
}

// requestID attaches a correlation identifier to each request context.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := services.WithRequestID(r.Context(), uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func handleSubmit(service *Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validateSubmit(req); err != nil {
			writeError(w, http.StatusBadRequest, services.Summary(err))
			return
		}

		jobID, err := service.Submit(r.Context(), req)
		if err != nil {
			logger.Error("submit failed", logging.Error(err))
			writeError(w, http.StatusInternalServerError, "job submission failed")
			return
		}
		logger.Info("job submitted",
			logging.String(logging.FieldJobID, jobID),
			logging.String("source_kind", string(req.Source.Kind)),
			logging.String(logging.FieldEventType, "job_submitted"))
		writeJSON(w, http.StatusAccepted, SubmitResponse{JobID: jobID})
	}
}

func handleJobStatus(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := service.JobStatus(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}

func handleArtifacts(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := service.JobStatus(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		artifacts := status.Artifacts
		if artifacts == nil {
			artifacts = []ArtifactView{}
		}
		writeJSON(w, http.StatusOK, artifacts)
	}
}

func handleListJobs(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := service.ListJobs(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if summaries == nil {
			summaries = []JobSummary{}
		}
		writeJSON(w, http.StatusOK, summaries)
	}
}

func handleHealth(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		health, err := service.Health(ctx)
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, health)
			return
		}
		writeJSON(w, http.StatusOK, health)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, services.Summary(err))
	case services.IsFatalInput(err):
		writeError(w, http.StatusBadRequest, services.Summary(err))
	default:
		writeError(w, http.StatusInternalServerError, services.Summary(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
