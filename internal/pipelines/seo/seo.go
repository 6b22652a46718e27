// Package seo produces the search-optimization package for a job: headline
// variants, meta descriptions, FAQs, keywords, and internal link suggestions
// as one JSON artifact.
package seo

import (
	"context"
	"fmt"
	"strings"

	"newsforge/internal/pipeline"
	"newsforge/internal/services"
	"newsforge/internal/services/llm"
	"newsforge/internal/store"
)

// FAQ is one question and its short answer.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Package is the full optimization payload.
type Package struct {
	HeadlineVariants []string `json:"headline_variants"`
	MetaDescriptions []string `json:"meta_descriptions"`
	FAQs             []FAQ    `json:"faqs"`
	Keywords         []string `json:"keywords"`
	InternalLinks    []string `json:"internal_links"`
}

// Pipeline generates the optimization package.
type Pipeline struct {
	completer llm.Completer
}

// New wires the seo pipeline.
func New(completer llm.Completer) *Pipeline {
	return &Pipeline{completer: completer}
}

// Name implements pipeline.Pipeline.
func (p *Pipeline) Name() string { return pipeline.NameSEO }

const seoSystem = `You are a search optimization editor for a news site. Respond with a single JSON object and nothing else.`

const seoPromptTemplate = `Build a search optimization package for this story as JSON with keys
"headline_variants" (3 to 5 alternatives), "meta_descriptions" (2, each under
160 characters), "faqs" (3 objects with "question" and "answer"), "keywords"
(5 to 10 phrases), and "internal_links" (3 to 5 suggested topic anchors).
Category: %s

Headline: %s

Key facts:
%s

Entities: %s`

// Run implements pipeline.Pipeline.
func (p *Pipeline) Run(ctx context.Context, req pipeline.Request) ([]store.Artifact, error) {
	result, err := p.completer.Complete(ctx, llm.Request{
		System: seoSystem,
		Prompt: fmt.Sprintf(seoPromptTemplate,
			req.Analysis.Category, req.Analysis.Headline,
			"- "+strings.Join(req.Analysis.Facts, "\n- "),
			strings.Join(req.Analysis.Entities, ", ")),
		MaxTokens:   1500,
		Temperature: 0.6,
	})
	if err != nil {
		return nil, fmt.Errorf("seo package: %w", err)
	}

	var pkg Package
	if err := llm.DecodeJSON(result.Content, &pkg); err != nil {
		return nil, services.Wrap(services.ErrTransient, "seo", "decode", "model returned malformed package", err)
	}
	if len(pkg.HeadlineVariants) == 0 || len(pkg.Keywords) == 0 {
		return nil, services.Wrap(services.ErrTransient, "seo", "validate", "package is missing headline variants or keywords", nil)
	}

	path, err := pipeline.WriteJSON(req.OutputDir, "seo.json", pkg)
	if err != nil {
		return nil, fmt.Errorf("seo package: %w", err)
	}
	return []store.Artifact{{
		JobID: req.JobID,
		Type:  "seo",
		Path:  path,
		Metadata: store.Metadata{
			"provider": result.Provider,
			"model":    result.Model,
			"cost_usd": result.CostUSD,
			"keywords": len(pkg.Keywords),
		},
	}}, nil
}
