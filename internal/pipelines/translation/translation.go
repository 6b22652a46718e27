// Package translation produces the Hindi edition of a story: translated
// text, optional voiceover, and translator notes.
package translation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/language"

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

// Pipeline translates the story and optionally records a voiceover.
type Pipeline struct {
	completer   llm.Completer
	synthesizer Synthesizer
	voiceID     string
	target      language.Tag
	logger      *slog.Logger
}

// New wires the translation pipeline. targetTag must be a valid BCP 47 tag;
// voiceID may be empty to skip the voiceover.
func New(completer llm.Completer, synthesizer Synthesizer, targetTag, voiceID string, logger *slog.Logger) (*Pipeline, error) {
	tag, err := language.Parse(strings.TrimSpace(targetTag))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "translation", "init",
			fmt.Sprintf("invalid target language tag %q", targetTag), err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		completer:   completer,
		synthesizer: synthesizer,
		voiceID:     strings.TrimSpace(voiceID),
		target:      tag,
		logger:      logger.With(logging.String(logging.FieldComponent, "pipeline.translation")),
	}, nil
}

// Name implements pipeline.Pipeline.
func (p *Pipeline) Name() string { return pipeline.NameTranslation }

const translateSystem = `You are a professional news translator. Respond with a single JSON object and nothing else.`

const translatePromptTemplate = `Translate this article into the language with BCP 47 tag %q.
Return JSON with keys "headline", "body", and "notes" (a list of short
translator notes covering idioms, names, or terms that required judgment).

Headline: %s

Body:
%s`

type translated struct {
	Headline string   `json:"headline"`
	Body     string   `json:"body"`
	Notes    []string `json:"notes"`
}

// Run implements pipeline.Pipeline. The voiceover degrades on TTS failure
// with the error recorded in the translation metadata.
func (p *Pipeline) Run(ctx context.Context, req pipeline.Request) ([]store.Artifact, error) {
	result, err := p.completer.Complete(ctx, llm.Request{
		System: translateSystem,
		Prompt: fmt.Sprintf(translatePromptTemplate,
			p.target.String(), req.Analysis.Headline, req.ArticleText),
		MaxTokens:   4000,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}

	var parsed translated
	if err := llm.DecodeJSON(result.Content, &parsed); err != nil {
		return nil, services.Wrap(services.ErrTransient, "translation", "decode", "model returned malformed translation", err)
	}
	if strings.TrimSpace(parsed.Body) == "" {
		return nil, services.Wrap(services.ErrTransient, "translation", "validate", "translation body is empty", nil)
	}

	translationMeta := store.Metadata{
		"language": p.target.String(),
		"provider": result.Provider,
		"model":    result.Model,
		"cost_usd": result.CostUSD,
	}

	var artifacts []store.Artifact

	voicePath, voiceErr := p.recordVoiceover(ctx, req, parsed)
	if voiceErr != nil {
		p.logger.Warn("voiceover failed, keeping text translation",
			logging.String(logging.FieldJobID, req.JobID),
			logging.Error(voiceErr))
		translationMeta["voiceover_error"] = services.Summary(voiceErr)
	}

	textPath, err := pipeline.WriteFile(req.OutputDir, "translation.txt",
		[]byte(parsed.Headline+"\n\n"+parsed.Body))
	if err != nil {
		return artifacts, fmt.Errorf("translate: %w", err)
	}
	artifacts = append(artifacts, store.Artifact{
		JobID: req.JobID, Type: "translation", Path: textPath, Metadata: translationMeta,
	})

	if voiceErr == nil && voicePath != "" {
		artifacts = append(artifacts, store.Artifact{
			JobID: req.JobID, Type: "translation_audio", Path: voicePath,
			Metadata: store.Metadata{"language": p.target.String(), "voice": p.voiceID},
		})
	}

	if len(parsed.Notes) > 0 {
		notesPath, err := pipeline.WriteJSON(req.OutputDir, "translation_notes.json", parsed.Notes)
		if err != nil {
			return artifacts, fmt.Errorf("translate: %w", err)
		}
		artifacts = append(artifacts, store.Artifact{
			JobID: req.JobID, Type: "translation_notes", Path: notesPath,
			Metadata: store.Metadata{"count": len(parsed.Notes)},
		})
	}
	return artifacts, nil
}

// recordVoiceover returns ("", nil) when no voice is configured.
func (p *Pipeline) recordVoiceover(ctx context.Context, req pipeline.Request, parsed translated) (string, error) {
	if p.synthesizer == nil || p.voiceID == "" {
		return "", nil
	}
	audio, err := p.synthesizer.Synthesize(ctx, parsed.Body, p.voiceID)
	if err != nil {
		return "", err
	}
	return pipeline.WriteFile(req.OutputDir, "translation_audio.mp3", audio)
}
