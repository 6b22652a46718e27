// Package pipeline defines the contract every derived-content producer
// implements, plus the generation options that select which producers run.
package pipeline

import (
	"context"

	"newsforge/internal/analysis"
	"newsforge/internal/store"
)

// Pipeline names. The orchestrator uses these for error artifacts and
// progress accounting, so they are stable identifiers.
const (
	NameVideo       = "video"
	NameAudio       = "audio"
	NameSocial      = "social"
	NameTranslation = "translation"
	NameSEO         = "seo"
	NameQA          = "qa"
)

// Options are the caller-supplied generation knobs, persisted alongside the
// job so the enabled set can be recomputed after restart.
type Options struct {
	Audience string `json:"audience"`
	FastMode bool   `json:"fast_mode"`
	UseStyle bool   `json:"use_style"`
}

// Request carries everything a pipeline needs for one run.
type Request struct {
	JobID       string
	Analysis    analysis.ContentAnalysis
	ArticleText string
	OutputDir   string
	Options     Options
}

// Pipeline produces derived artifacts for one job. Artifacts returned
// alongside an error are still persisted; they represent partial output.
type Pipeline interface {
	Name() string
	Run(ctx context.Context, req Request) ([]store.Artifact, error)
}

// EnabledSet returns the pipeline names that run for the given options.
// Fast mode drops the audio and translation producers.
func EnabledSet(opts Options) map[string]bool {
	if opts.FastMode {
		return map[string]bool{
			NameVideo:  true,
			NameSocial: true,
			NameSEO:    true,
			NameQA:     true,
		}
	}
	return map[string]bool{
		NameVideo:       true,
		NameAudio:       true,
		NameSocial:      true,
		NameTranslation: true,
		NameSEO:         true,
		NameQA:          true,
	}
}
