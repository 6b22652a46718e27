// Package audio produces the podcast artifact chain for a job: a narration
// script, synthesized narration, and a waveform audiogram video.
package audio

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

// Synthesizer converts text into narration audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// Tools is the local ffmpeg surface this pipeline needs.
type Tools interface {
	Audiogram(ctx context.Context, audioPath, outputPath string) error
}

// Pipeline renders the audio artifact chain.
type Pipeline struct {
	completer   llm.Completer
	synthesizer Synthesizer
	tools       Tools
	logger      *slog.Logger
}

// New wires the audio pipeline.
func New(completer llm.Completer, synthesizer Synthesizer, tools Tools, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		completer:   completer,
		synthesizer: synthesizer,
		tools:       tools,
		logger:      logger.With(logging.String(logging.FieldComponent, "pipeline.audio")),
	}
}

// Name implements pipeline.Pipeline.
func (p *Pipeline) Name() string { return pipeline.NameAudio }

const scriptSystem = `You write conversational podcast narration. Single narrator, plain spoken prose, no stage directions, no markdown.`

const scriptPromptTemplate = `Write a 2 to 3 minute podcast narration of this story.
Audience: %s
Tone: %s

Headline: %s

Key facts:
%s

Include one of these quotes naturally if it fits:
%s`

// Run implements pipeline.Pipeline. A TTS failure fails the pipeline but the
// script artifact survives; an audiogram failure degrades to the plain audio.
func (p *Pipeline) Run(ctx context.Context, req pipeline.Request) ([]store.Artifact, error) {
	var artifacts []store.Artifact

	script, scriptArtifact, err := p.writeScript(ctx, req)
	if err != nil {
		return artifacts, err
	}
	artifacts = append(artifacts, scriptArtifact)

	if p.synthesizer == nil {
		return artifacts, services.Wrap(services.ErrConfiguration, "audio", "synthesize", "no speech provider configured", nil)
	}
	narration, err := p.synthesizer.Synthesize(ctx, script, "")
	if err != nil {
		return artifacts, fmt.Errorf("audio narration: %w", err)
	}
	audioPath, err := pipeline.WriteFile(req.OutputDir, "narration.mp3", narration)
	if err != nil {
		return artifacts, fmt.Errorf("audio narration: %w", err)
	}
	audioMeta := store.Metadata{"voice": "default", "bytes": len(narration)}

	audiogramPath, audiogramErr := p.renderAudiogram(ctx, req, audioPath)
	if audiogramErr != nil {
		p.logger.Warn("audiogram render failed, keeping plain audio",
			logging.String(logging.FieldJobID, req.JobID),
			logging.Error(audiogramErr))
		audioMeta["audiogram_error"] = services.Summary(audiogramErr)
		artifacts = append(artifacts, store.Artifact{
			JobID: req.JobID, Type: "audio", Path: audioPath, Metadata: audioMeta,
		})
		return artifacts, nil
	}

	artifacts = append(artifacts,
		store.Artifact{JobID: req.JobID, Type: "audio", Path: audioPath, Metadata: audioMeta},
		store.Artifact{JobID: req.JobID, Type: "audiogram", Path: audiogramPath, Metadata: store.Metadata{
			"source": filepath.Base(audioPath),
		}},
	)
	return artifacts, nil
}

func (p *Pipeline) writeScript(ctx context.Context, req pipeline.Request) (string, store.Artifact, error) {
	audience := req.Options.Audience
	if audience == "" {
		audience = "general"
	}
	quotes := make([]string, 0, len(req.Analysis.Quotes))
	for _, quote := range req.Analysis.Quotes {
		quotes = append(quotes, fmt.Sprintf("%q (%s)", quote.Text, quote.Attribution))
	}
	if len(quotes) == 0 {
		quotes = append(quotes, "(no quotes available)")
	}

	result, err := p.completer.Complete(ctx, llm.Request{
		System: scriptSystem,
		Prompt: fmt.Sprintf(scriptPromptTemplate,
			audience, req.Analysis.Tone, req.Analysis.Headline,
			"- "+strings.Join(req.Analysis.Facts, "\n- "),
			strings.Join(quotes, "\n")),
		MaxTokens:   1500,
		Temperature: 0.7,
	})
	if err != nil {
		return "", store.Artifact{}, fmt.Errorf("audio script: %w", err)
	}

	path, err := pipeline.WriteFile(req.OutputDir, "audio_script.txt", []byte(result.Content))
	if err != nil {
		return "", store.Artifact{}, fmt.Errorf("audio script: %w", err)
	}
	return result.Content, store.Artifact{
		JobID: req.JobID,
		Type:  "audio_script",
		Path:  path,
		Metadata: store.Metadata{
			"provider": result.Provider,
			"model":    result.Model,
			"cost_usd": result.CostUSD,
		},
	}, nil
}

func (p *Pipeline) renderAudiogram(ctx context.Context, req pipeline.Request, audioPath string) (string, error) {
	if p.tools == nil {
		return "", services.Wrap(services.ErrConfiguration, "audio", "audiogram", "no ffmpeg toolkit configured", nil)
	}
	audiogramPath := filepath.Join(req.OutputDir, "audiogram.mp4")
	if err := p.tools.Audiogram(ctx, audioPath, audiogramPath); err != nil {
		return "", err
	}
	return audiogramPath, nil
}
