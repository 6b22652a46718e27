// Package social produces the platform post set for a job as one JSON
// artifact covering short-form and long-form platforms.
package social

import (
	"context"
	"fmt"
	"strings"

	"newsforge/internal/pipeline"
	"newsforge/internal/services"
	"newsforge/internal/services/llm"
	"newsforge/internal/store"
)

// PostSet is the generated copy per platform.
type PostSet struct {
	Twitter   string   `json:"twitter"`
	Instagram string   `json:"instagram"`
	LinkedIn  string   `json:"linkedin"`
	Facebook  string   `json:"facebook"`
	Hashtags  []string `json:"hashtags"`
}

// Pipeline generates the social post set.
type Pipeline struct {
	completer llm.Completer
}

// New wires the social pipeline.
func New(completer llm.Completer) *Pipeline {
	return &Pipeline{completer: completer}
}

// Name implements pipeline.Pipeline.
func (p *Pipeline) Name() string { return pipeline.NameSocial }

const postSystem = `You write social media copy for a news outlet. Respond with a single JSON object and nothing else.`

const postPromptTemplate = `Write social posts for this story as JSON with keys
"twitter" (max 280 characters), "instagram", "linkedin", "facebook", and
"hashtags" (list of 3 to 6 tags without the # prefix).
Audience: %s
Tone: %s

Headline: %s

Key facts:
%s`

// Run implements pipeline.Pipeline.
func (p *Pipeline) Run(ctx context.Context, req pipeline.Request) ([]store.Artifact, error) {
	audience := req.Options.Audience
	if audience == "" {
		audience = "general"
	}
	result, err := p.completer.Complete(ctx, llm.Request{
		System: postSystem,
		Prompt: fmt.Sprintf(postPromptTemplate,
			audience, req.Analysis.Tone, req.Analysis.Headline,
			"- "+strings.Join(req.Analysis.Facts, "\n- ")),
		MaxTokens:   1200,
		Temperature: 0.8,
	})
	if err != nil {
		return nil, fmt.Errorf("social posts: %w", err)
	}

	var posts PostSet
	if err := llm.DecodeJSON(result.Content, &posts); err != nil {
		return nil, services.Wrap(services.ErrTransient, "social", "decode", "model returned malformed post set", err)
	}
	if strings.TrimSpace(posts.Twitter) == "" && strings.TrimSpace(posts.LinkedIn) == "" {
		return nil, services.Wrap(services.ErrTransient, "social", "validate", "post set is empty", nil)
	}

	path, err := pipeline.WriteJSON(req.OutputDir, "social.json", posts)
	if err != nil {
		return nil, fmt.Errorf("social posts: %w", err)
	}
	return []store.Artifact{{
		JobID: req.JobID,
		Type:  "social",
		Path:  path,
		Metadata: store.Metadata{
			"provider": result.Provider,
			"model":    result.Model,
			"cost_usd": result.CostUSD,
			"platforms": []any{
				"twitter", "instagram", "linkedin", "facebook",
			},
		},
	}}, nil
}
