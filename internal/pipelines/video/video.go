// Package video produces the presenter video for a job: a narration script,
// a rendered clip (hosted avatar service or local placeholder), and a
// logo-branded final cut.
package video

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"newsforge/internal/logging"
	"newsforge/internal/pipeline"
	"newsforge/internal/services"
	"newsforge/internal/services/llm"
	"newsforge/internal/store"
)

// Renderer is the hosted presenter-video service.
type Renderer interface {
	Render(ctx context.Context, script string) (string, error)
	Download(ctx context.Context, resultURL string) ([]byte, error)
}

// Tools is the local ffmpeg surface this pipeline needs.
type Tools interface {
	PlaceholderVideo(ctx context.Context, outputPath string, seconds int) error
	OverlayLogo(ctx context.Context, inputPath, logoPath, outputPath string) error
}

// Pipeline renders the video artifact chain.
type Pipeline struct {
	completer llm.Completer
	renderer  Renderer
	tools     Tools
	logoPath  string
	logger    *slog.Logger
}

// New wires the video pipeline. renderer may be nil when no avatar service
// is configured; the pipeline then renders a local placeholder.
func New(completer llm.Completer, renderer Renderer, tools Tools, logoPath string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		completer: completer,
		renderer:  renderer,
		tools:     tools,
		logoPath:  strings.TrimSpace(logoPath),
		logger:    logger.With(logging.String(logging.FieldComponent, "pipeline.video")),
	}
}

// Name implements pipeline.Pipeline.
func (p *Pipeline) Name() string { return pipeline.NameVideo }

const scriptSystem = `You write tight broadcast scripts for a news presenter. Plain spoken prose, no camera directions, no markdown.`

const scriptPromptTemplate = `Write a 60 to 90 second presenter script for this story.
Audience: %s
Tone: %s

Headline: %s

Key facts:
%s`

// Run implements pipeline.Pipeline. Artifacts produced before a failure are
// returned alongside the error so the orchestrator can persist partial output.
func (p *Pipeline) Run(ctx context.Context, req pipeline.Request) ([]store.Artifact, error) {
	var artifacts []store.Artifact

	script, scriptArtifact, err := p.writeScript(ctx, req)
	if err != nil {
		return artifacts, err
	}
	artifacts = append(artifacts, scriptArtifact)

	rawPath, rawMeta, err := p.renderClip(ctx, req, script)
	if err != nil {
		return artifacts, err
	}

	brandedPath, overlayErr := p.brand(ctx, req, rawPath)
	if overlayErr != nil {
		p.logger.Warn("logo overlay failed, keeping raw video",
			logging.String(logging.FieldJobID, req.JobID),
			logging.Error(overlayErr))
		rawMeta["overlay_error"] = services.Summary(overlayErr)
		artifacts = append(artifacts, store.Artifact{
			JobID: req.JobID, Type: "video_raw", Path: rawPath, Metadata: rawMeta,
		})
		return artifacts, nil
	}

	artifacts = append(artifacts,
		store.Artifact{JobID: req.JobID, Type: "video_raw", Path: rawPath, Metadata: rawMeta},
		store.Artifact{JobID: req.JobID, Type: "video_branded", Path: brandedPath, Metadata: store.Metadata{
			"source": filepath.Base(rawPath),
		}},
	)
	return artifacts, nil
}

func (p *Pipeline) writeScript(ctx context.Context, req pipeline.Request) (string, store.Artifact, error) {
	audience := req.Options.Audience
	if audience == "" {
		audience = "general"
	}
	result, err := p.completer.Complete(ctx, llm.Request{
		System: scriptSystem,
		Prompt: fmt.Sprintf(scriptPromptTemplate,
			audience, req.Analysis.Tone, req.Analysis.Headline,
			"- "+strings.Join(req.Analysis.Facts, "\n- ")),
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	if err != nil {
		return "", store.Artifact{}, fmt.Errorf("video script: %w", err)
	}

	path, err := pipeline.WriteFile(req.OutputDir, "video_script.txt", []byte(result.Content))
	if err != nil {
		return "", store.Artifact{}, fmt.Errorf("video script: %w", err)
	}
	return result.Content, store.Artifact{
		JobID: req.JobID,
		Type:  "video_script",
		Path:  path,
		Metadata: store.Metadata{
			"provider": result.Provider,
			"model":    result.Model,
			"cost_usd": result.CostUSD,
		},
	}, nil
}

// renderClip prefers the hosted avatar service and degrades to a local
// placeholder, recording which path produced the clip.
func (p *Pipeline) renderClip(ctx context.Context, req pipeline.Request, script string) (string, store.Metadata, error) {
	rawPath := filepath.Join(req.OutputDir, "video_raw.mp4")

	if p.renderer != nil {
		clip, err := p.renderHosted(ctx, script)
		if err == nil {
			if _, writeErr := pipeline.WriteFile(req.OutputDir, "video_raw.mp4", clip); writeErr != nil {
				return "", nil, fmt.Errorf("video render: %w", writeErr)
			}
			return rawPath, store.Metadata{"provider": "avatar"}, nil
		}
		if services.IsFatalInput(err) {
			return "", nil, fmt.Errorf("video render: %w", err)
		}
		p.logger.Warn("avatar render failed, using placeholder",
			logging.String(logging.FieldJobID, req.JobID),
			logging.Error(err))
		meta, renderErr := p.renderPlaceholder(ctx, rawPath)
		if renderErr != nil {
			return "", nil, renderErr
		}
		meta["degraded_from"] = services.Summary(err)
		return rawPath, meta, nil
	}

	meta, err := p.renderPlaceholder(ctx, rawPath)
	if err != nil {
		return "", nil, err
	}
	return rawPath, meta, nil
}

func (p *Pipeline) renderHosted(ctx context.Context, script string) ([]byte, error) {
	resultURL, err := p.renderer.Render(ctx, script)
	if err != nil {
		return nil, err
	}
	return p.renderer.Download(ctx, resultURL)
}

func (p *Pipeline) renderPlaceholder(ctx context.Context, rawPath string) (store.Metadata, error) {
	if p.tools == nil {
		return nil, services.Wrap(services.ErrConfiguration, "video", "render", "no renderer and no ffmpeg toolkit", nil)
	}
	if err := p.tools.PlaceholderVideo(ctx, rawPath, 10); err != nil {
		return nil, fmt.Errorf("video placeholder: %w", err)
	}
	return store.Metadata{"provider": "placeholder"}, nil
}

func (p *Pipeline) brand(ctx context.Context, req pipeline.Request, rawPath string) (string, error) {
	if p.tools == nil || p.logoPath == "" {
		return "", services.Wrap(services.ErrConfiguration, "video", "overlay", "logo overlay not configured", nil)
	}
	brandedPath := filepath.Join(req.OutputDir, "video_branded.mp4")
	if err := p.tools.OverlayLogo(ctx, rawPath, p.logoPath, brandedPath); err != nil {
		return "", err
	}
	return brandedPath, nil
}
