package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"newsforge/internal/analysis"
	"newsforge/internal/api"
	"newsforge/internal/article"
	"newsforge/internal/config"
	"newsforge/internal/logging"
	"newsforge/internal/media"
	"newsforge/internal/orchestrator"
	"newsforge/internal/pipeline"
	"newsforge/internal/pipelines/audio"
	"newsforge/internal/pipelines/qa"
	"newsforge/internal/pipelines/seo"
	"newsforge/internal/pipelines/social"
	"newsforge/internal/pipelines/translation"
	"newsforge/internal/pipelines/video"
	"newsforge/internal/retry"
	"newsforge/internal/services/avatar"
	"newsforge/internal/services/llm"
	"newsforge/internal/services/localgen"
	"newsforge/internal/services/speech"
	"newsforge/internal/services/websearch"
	"newsforge/internal/store"
)

type daemon struct {
	cfg    *config.Config
	lock   *flock.Flock
	server *http.Server
	logger *slog.Logger
}

// bootstrap wires providers, pipelines, and the HTTP surface. It also takes
// the per-state-dir lock so two daemons never share a database.
func bootstrap(cfg *config.Config, st *store.Store, logger *slog.Logger) (*daemon, error) {
	lock := flock.New(filepath.Join(cfg.Paths.StateDir, "newsforged.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire daemon lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another newsforged already holds the state directory")
	}

	policy := retry.Policy{
		Attempts:  cfg.Workflow.RetryAttempts,
		BaseDelay: time.Duration(cfg.Workflow.RetryBaseDelayMS) * time.Millisecond,
	}

	completer := buildCompleter(cfg, policy, logger)

	var synthesizer *speech.Client
	if cfg.Speech.APIKey != "" {
		synthesizer = speech.NewClient(speech.Config{
			APIKey:         cfg.Speech.APIKey,
			BaseURL:        cfg.Speech.BaseURL,
			VoiceID:        cfg.Speech.VoiceID,
			TimeoutSeconds: cfg.Speech.TimeoutSeconds,
		}, speech.WithRetryPolicy(policy))
	}

	var renderer video.Renderer
	if cfg.Avatar.APIKey != "" {
		renderer = avatar.NewClient(avatar.Config{
			APIKey:              cfg.Avatar.APIKey,
			BaseURL:             cfg.Avatar.BaseURL,
			SourceURL:           cfg.Avatar.SourceURL,
			TimeoutSeconds:      cfg.Avatar.TimeoutSeconds,
			PollIntervalSeconds: cfg.Avatar.PollIntervalSeconds,
			PollAttempts:        cfg.Avatar.PollAttempts,
		}, avatar.WithRetryPolicy(policy))
	}

	var searcher qa.Searcher
	if cfg.Search.APIKey != "" {
		searcher = websearch.NewClient(websearch.Config{
			APIKey:         cfg.Search.APIKey,
			BaseURL:        cfg.Search.BaseURL,
			ResultCount:    cfg.Search.ResultCount,
			TimeoutSeconds: cfg.Search.TimeoutSeconds,
		}, websearch.WithRetryPolicy(policy))
	}

	toolkit, err := media.NewToolkit(cfg.Media.FFmpegPath)
	if err != nil {
		logger.Warn("ffmpeg unavailable, local rendering disabled", logging.Error(err))
		toolkit = nil
	}

	pipelines, err := buildPipelines(cfg, completer, synthesizer, renderer, searcher, toolkit, logger)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	manager := orchestrator.New(st,
		article.NewResolver(logger, article.WithRetryPolicy(policy)),
		article.NewValidator(cfg.Validation),
		analysis.NewAnalyzer(completer),
		pipelines,
		cfg.Paths.ArtifactDir,
		logger,
	)

	service := api.NewService(st, manager)
	server := &http.Server{
		Addr:              cfg.Paths.APIBind,
		Handler:           api.NewRouter(service, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &daemon{cfg: cfg, lock: lock, server: server, logger: logger}, nil
}

// buildCompleter picks the generation backend per configuration. Local
// generation is used when preferred or when no hosted key is present.
func buildCompleter(cfg *config.Config, policy retry.Policy, logger *slog.Logger) llm.Completer {
	useLocal := cfg.LocalGen.Preferred || cfg.LLM.APIKey == ""
	if useLocal {
		logger.Info("using local generation backend",
			logging.String("base_url", cfg.LocalGen.BaseURL),
			logging.String("model", cfg.LocalGen.Model))
		return localgen.NewClient(localgen.Config{
			BaseURL:        cfg.LocalGen.BaseURL,
			Model:          cfg.LocalGen.Model,
			Concurrency:    cfg.LocalGen.Concurrency,
			TimeoutSeconds: cfg.LocalGen.TimeoutSeconds,
		}, localgen.WithRetryPolicy(policy))
	}
	return llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	}, llm.WithRetryPolicy(policy))
}

func buildPipelines(cfg *config.Config, completer llm.Completer, synthesizer *speech.Client,
	renderer video.Renderer, searcher qa.Searcher, toolkit *media.Toolkit, logger *slog.Logger) ([]pipeline.Pipeline, error) {

	var videoTools video.Tools
	var audioTools audio.Tools
	if toolkit != nil {
		videoTools = toolkit
		audioTools = toolkit
	}

	var audioSynth audio.Synthesizer
	var translationSynth translation.Synthesizer
	if synthesizer != nil {
		audioSynth = synthesizer
		translationSynth = synthesizer
	}

	translationPipeline, err := translation.New(completer, translationSynth, "hi", cfg.Speech.HindiVoiceID, logger)
	if err != nil {
		return nil, err
	}

	return []pipeline.Pipeline{
		video.New(completer, renderer, videoTools, cfg.Media.LogoPath, logger),
		audio.New(completer, audioSynth, audioTools, logger),
		social.New(completer),
		translationPipeline,
		seo.New(completer),
		qa.New(completer, searcher, logger),
	}, nil
}

// Run serves the API until the context is canceled, then shuts down
// gracefully.
func (d *daemon) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		d.logger.Info("api listening", logging.String("bind", d.server.Addr))
		if err := d.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown api: %w", err)
	}
	return <-errCh
}

// Close releases the daemon lock.
func (d *daemon) Close() error {
	if d.lock != nil {
		return d.lock.Unlock()
	}
	return nil
}
