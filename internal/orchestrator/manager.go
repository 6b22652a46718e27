package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"newsforge/internal/analysis"
	"newsforge/internal/article"
	"newsforge/internal/logging"
	"newsforge/internal/pipeline"
	"newsforge/internal/progress"
	"newsforge/internal/services"
	"newsforge/internal/store"
)

// Resolver turns a source descriptor into article text.
type Resolver interface {
	Resolve(ctx context.Context, src article.Source) (string, error)
}

// Validator checks article text and splits it into headline and body.
type Validator interface {
	Validate(text string) (article.Article, error)
}

// Analyzer extracts the structured breakdown pipelines consume.
type Analyzer interface {
	Analyze(ctx context.Context, headline, body string) (analysis.Outcome, error)
}

// Manager owns job lifecycles. One Manager serves the whole process; each
// started job runs on its own goroutine.
type Manager struct {
	store       *store.Store
	resolver    Resolver
	validator   Validator
	analyzer    Analyzer
	pipelines   []pipeline.Pipeline
	artifactDir string
	logger      *slog.Logger
}

// New wires a Manager.
func New(st *store.Store, resolver Resolver, validator Validator, analyzer Analyzer,
	pipelines []pipeline.Pipeline, artifactDir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		store:       st,
		resolver:    resolver,
		validator:   validator,
		analyzer:    analyzer,
		pipelines:   pipelines,
		artifactDir: artifactDir,
		logger:      logger.With(logging.String(logging.FieldComponent, "orchestrator")),
	}
}

// Handle tracks one started job. Done closes when the run finishes; Err is
// valid afterwards. Cancel stops the run; a canceled job fails with a
// cancellation message.
type Handle struct {
	JobID  string
	done   chan struct{}
	err    error
	cancel context.CancelFunc
}

// Done closes when the job run has reached a terminal status.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Err returns the run error, if any. Only valid after Done is closed.
func (h *Handle) Err() error {
	<-h.done
	return h.err
}

// Cancel aborts the run.
func (h *Handle) Cancel() { h.cancel() }

// CreateJob persists a new queued job and returns its identifier.
func (m *Manager) CreateJob(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if _, err := m.store.InsertJob(ctx, id); err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}
	m.logger.Info("job created",
		logging.String(logging.FieldJobID, id),
		logging.String(logging.FieldEventType, "job_created"))
	return id, nil
}

// StartJob launches the run for an existing queued job. The run detaches from
// the caller's context lifetime; Cancel on the returned handle is the only
// way to stop it early.
func (m *Manager) StartJob(ctx context.Context, jobID string, src article.Source, opts pipeline.Options) *Handle {
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	handle := &Handle{
		JobID:  jobID,
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go func() {
		defer close(handle.done)
		defer cancel()
		handle.err = m.run(runCtx, jobID, src, opts)
	}()
	return handle
}

// Submit creates and starts a job in one call.
func (m *Manager) Submit(ctx context.Context, src article.Source, opts pipeline.Options) (*Handle, error) {
	jobID, err := m.CreateJob(ctx)
	if err != nil {
		return nil, err
	}
	return m.StartJob(ctx, jobID, src, opts), nil
}

func (m *Manager) run(ctx context.Context, jobID string, src article.Source, opts pipeline.Options) error {
	ctx = services.WithJobID(ctx, jobID)
	logger := m.logger.With(logging.String(logging.FieldJobID, jobID))

	if err := m.update(ctx, jobID, store.JobUpdate{}.
		WithStatus(store.StatusRunning).
		WithProgress(progress.CheckpointAccepted)); err != nil {
		return err
	}

	if err := m.update(ctx, jobID, store.JobUpdate{}.WithProgress(progress.CheckpointResolving)); err != nil {
		return err
	}
	text, err := m.resolver.Resolve(ctx, src)
	if err != nil {
		return m.failJob(ctx, jobID, fmt.Errorf("resolve input: %w", err))
	}

	art, err := m.validator.Validate(text)
	if err != nil {
		return m.failJob(ctx, jobID, err)
	}

	outputDir := filepath.Join(m.artifactDir, jobID)
	articlePath, err := pipeline.WriteFile(outputDir, "article.txt", []byte(art.Headline+"\n\n"+art.Body))
	if err != nil {
		return m.failJob(ctx, jobID, fmt.Errorf("persist article: %w", err))
	}
	if err := m.store.InsertArtifact(ctx, jobID, "article", articlePath, store.Metadata{
		"source":   string(src.Kind),
		"headline": art.Headline,
	}); err != nil {
		return m.failJob(ctx, jobID, err)
	}
	if err := m.update(ctx, jobID, store.JobUpdate{}.WithProgress(progress.CheckpointValidated)); err != nil {
		return err
	}

	outcome, err := m.analyzer.Analyze(ctx, art.Headline, art.Body)
	if err != nil {
		return m.failJob(ctx, jobID, fmt.Errorf("analyze article: %w", err))
	}
	analysisPath, err := pipeline.WriteJSON(outputDir, "analysis.json", outcome.Analysis)
	if err != nil {
		return m.failJob(ctx, jobID, fmt.Errorf("persist analysis: %w", err))
	}
	if err := m.store.InsertArtifact(ctx, jobID, "analysis", analysisPath, store.Metadata{
		"provider": outcome.Provider,
		"model":    outcome.Model,
		"cost_usd": outcome.CostUSD,
	}); err != nil {
		return m.failJob(ctx, jobID, err)
	}

	if err := m.update(ctx, jobID, store.JobUpdate{}.
		WithStatus(store.StatusGenerating).
		WithProgress(progress.CheckpointGenerating)); err != nil {
		return err
	}
	if err := m.store.InsertArtifact(ctx, jobID, "options", "", store.Metadata{
		"audience":  opts.Audience,
		"fast_mode": opts.FastMode,
		"use_style": opts.UseStyle,
	}); err != nil {
		return m.failJob(ctx, jobID, err)
	}

	logger.Info("generation started",
		logging.String(logging.FieldEventType, "generation_started"),
		logging.Bool("fast_mode", opts.FastMode))

	failures := m.fanOut(ctx, jobID, pipeline.Request{
		JobID:       jobID,
		Analysis:    outcome.Analysis,
		ArticleText: art.Headline + "\n\n" + art.Body,
		OutputDir:   outputDir,
		Options:     opts,
	})

	return m.finish(ctx, jobID, failures, logger)
}

// fanOut runs the enabled pipelines concurrently and returns the error
// summaries of the ones that failed, ordered by pipeline name.
func (m *Manager) fanOut(ctx context.Context, jobID string, req pipeline.Request) []string {
	enabled := pipeline.EnabledSet(req.Options)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []string
	)
	for _, p := range m.pipelines {
		if !enabled[p.Name()] {
			continue
		}
		wg.Add(1)
		go func(p pipeline.Pipeline) {
			defer wg.Done()
			summary := m.runPipeline(ctx, jobID, p, req, enabled, &mu)
			if summary != "" {
				mu.Lock()
				failures = append(failures, summary)
				mu.Unlock()
			}
		}(p)
	}
	wg.Wait()

	sort.Strings(failures)
	return failures
}

// runPipeline executes one pipeline and persists its outcome under the
// per-job mutex. Returns the failure summary, or "" on success.
func (m *Manager) runPipeline(ctx context.Context, jobID string, p pipeline.Pipeline,
	req pipeline.Request, enabled map[string]bool, mu *sync.Mutex) string {

	ctx = services.WithPipeline(ctx, p.Name())
	logger := m.logger.With(
		logging.String(logging.FieldJobID, jobID),
		logging.String(logging.FieldPipeline, p.Name()))

	artifacts, runErr := p.Run(ctx, req)

	mu.Lock()
	defer mu.Unlock()

	for _, artifact := range artifacts {
		if err := m.store.InsertArtifact(ctx, jobID, artifact.Type, artifact.Path, artifact.Metadata); err != nil {
			logger.Error("persist artifact failed",
				logging.String("artifact_type", artifact.Type),
				logging.Error(err))
			if runErr == nil {
				runErr = err
			}
		}
	}

	var summary string
	if runErr != nil {
		message := services.Summary(runErr)
		summary = fmt.Sprintf("%s pipeline failed: %s", p.Name(), message)
		if err := m.store.InsertArtifact(ctx, jobID, "error_"+p.Name(), "", store.Metadata{
			"error": message,
		}); err != nil {
			logger.Error("persist error artifact failed", logging.Error(err))
		}
		logger.Warn("pipeline failed",
			logging.String(logging.FieldEventType, "pipeline_failed"),
			logging.Error(runErr))
	} else {
		logger.Info("pipeline completed",
			logging.String(logging.FieldEventType, "pipeline_completed"),
			logging.Int("artifacts", len(artifacts)))
	}

	if err := m.recomputeProgress(ctx, jobID, enabled); err != nil {
		logger.Error("progress recompute failed", logging.Error(err))
	}
	return summary
}

// recomputeProgress reads the full artifact list back and derives progress
// from it, so a crash between updates never leaves progress ahead of the
// persisted truth.
func (m *Manager) recomputeProgress(ctx context.Context, jobID string, enabled map[string]bool) error {
	artifacts, err := m.store.ListArtifacts(ctx, jobID)
	if err != nil {
		return err
	}
	types := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		types = append(types, artifact.Type)
	}
	value := progress.Compute(enabled, progress.TypeSet(types))
	return m.store.UpdateJob(ctx, jobID, store.JobUpdate{}.WithProgress(value))
}

func (m *Manager) finish(ctx context.Context, jobID string, failures []string, logger *slog.Logger) error {
	if ctx.Err() != nil {
		return m.failJob(ctx, jobID, fmt.Errorf("job canceled: %w", ctx.Err()))
	}

	update := store.JobUpdate{Finished: true}.
		WithProgress(progress.CheckpointDone)
	if len(failures) == 0 {
		update = update.WithStatus(store.StatusCompleted)
		logger.Info("job completed",
			logging.String(logging.FieldEventType, "job_completed"))
	} else {
		update = update.
			WithStatus(store.StatusCompletedWithErrors).
			WithError(strings.Join(failures, "; "))
		logger.Warn("job completed with errors",
			logging.String(logging.FieldEventType, "job_degraded"),
			logging.Int("failed_pipelines", len(failures)))
	}
	return m.update(ctx, jobID, update)
}

// failJob records a fatal pre-pipeline error and moves the job to failed.
func (m *Manager) failJob(ctx context.Context, jobID string, cause error) error {
	m.logger.Error("job failed",
		logging.String(logging.FieldJobID, jobID),
		logging.String(logging.FieldEventType, "job_failed"),
		logging.Error(cause))

	update := store.JobUpdate{Finished: true}.
		WithStatus(store.StatusFailed).
		WithProgress(progress.CheckpointDone).
		WithError(services.Summary(cause))
	if err := m.update(ctx, jobID, update); err != nil {
		return err
	}
	return cause
}

// update applies a job update using a background-safe context so terminal
// transitions land even when the run context is already canceled.
func (m *Manager) update(ctx context.Context, jobID string, update store.JobUpdate) error {
	return m.store.UpdateJob(context.WithoutCancel(ctx), jobID, update)
}

// OutputDir returns the artifact directory for a job.
func (m *Manager) OutputDir(jobID string) string {
	return filepath.Join(m.artifactDir, jobID)
}

// RemoveOutputs deletes a job's artifact directory. Used by retention
// cleanup, never by the run itself.
func (m *Manager) RemoveOutputs(jobID string) error {
	if strings.TrimSpace(jobID) == "" {
		return fmt.Errorf("job id must not be empty")
	}
	return os.RemoveAll(filepath.Join(m.artifactDir, jobID))
}
