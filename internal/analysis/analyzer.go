package analysis

import (
	"context"
	"fmt"
	"strings"

	"newsforge/internal/services"
	"newsforge/internal/services/llm"
)

// Quote is a direct quotation lifted from the article.
type Quote struct {
	Text        string `json:"text"`
	Attribution string `json:"attribution"`
}

// ContentAnalysis is the structured breakdown pipelines consume.
type ContentAnalysis struct {
	Headline     string            `json:"headline"`
	Category     string            `json:"category"`
	Tone         string            `json:"tone"`
	Facts        []string          `json:"facts"`
	Quotes       []Quote           `json:"quotes"`
	Entities     []string          `json:"entities"`
	NarrativeArc map[string]string `json:"narrative_arc"`
}

// Outcome pairs the analysis with provider accounting for the artifact record.
type Outcome struct {
	Analysis ContentAnalysis
	Model    string
	Provider string
	CostUSD  float64
}

// Analyzer runs the analysis step against a completion provider.
type Analyzer struct {
	completer llm.Completer
}

// NewAnalyzer wires an Analyzer to its completion provider.
func NewAnalyzer(completer llm.Completer) *Analyzer {
	return &Analyzer{completer: completer}
}

const analysisSystem = `You are a newsroom content analyst. Respond with a single JSON object and nothing else.`

const analysisPromptTemplate = `Analyze this news article and return JSON with exactly these keys:
- "headline": the article headline, cleaned up
- "category": one of politics, business, technology, science, health, sports, culture, world, local
- "tone": one of neutral, urgent, celebratory, somber, investigative
- "facts": list of the key verifiable factual claims, each a single sentence
- "quotes": list of objects with "text" and "attribution" for each direct quotation
- "entities": list of the people, organizations, and places mentioned
- "narrative_arc": object with "setup", "development", "resolution" summarizing the story flow

Article headline: %s

Article body:
%s`

// Analyze extracts the structured breakdown from a validated article.
func (a *Analyzer) Analyze(ctx context.Context, headline, body string) (Outcome, error) {
	var empty Outcome

	result, err := a.completer.Complete(ctx, llm.Request{
		System:      analysisSystem,
		Prompt:      fmt.Sprintf(analysisPromptTemplate, headline, body),
		MaxTokens:   2000,
		Temperature: 0.2,
	})
	if err != nil {
		return empty, fmt.Errorf("analysis: %w", err)
	}

	var parsed ContentAnalysis
	if err := llm.DecodeJSON(result.Content, &parsed); err != nil {
		return empty, services.Wrap(services.ErrTransient, "analysis", "decode", "model returned malformed analysis", err)
	}
	if err := validate(parsed); err != nil {
		return empty, services.Wrap(services.ErrTransient, "analysis", "validate", err.Error(), nil)
	}

	if strings.TrimSpace(parsed.Headline) == "" {
		parsed.Headline = headline
	}
	return Outcome{
		Analysis: parsed,
		Model:    result.Model,
		Provider: result.Provider,
		CostUSD:  result.CostUSD,
	}, nil
}

func validate(parsed ContentAnalysis) error {
	if strings.TrimSpace(parsed.Category) == "" {
		return fmt.Errorf("analysis missing category")
	}
	if strings.TrimSpace(parsed.Tone) == "" {
		return fmt.Errorf("analysis missing tone")
	}
	if len(parsed.Facts) == 0 {
		return fmt.Errorf("analysis contains no facts")
	}
	return nil
}
