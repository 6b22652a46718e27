// Package qa produces the quality report for a job: per-fact web
// verification, readability scoring, and a prohibited-phrase scan, rolled
// into one JSON artifact with an aggregate score.
package qa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"newsforge/internal/logging"
	"newsforge/internal/pipeline"
	"newsforge/internal/services"
	"newsforge/internal/services/llm"
	"newsforge/internal/services/websearch"
	"newsforge/internal/store"
	"newsforge/internal/textutil"
)

// Searcher finds corroborating sources for a claim.
type Searcher interface {
	Search(ctx context.Context, query string) ([]websearch.Result, error)
}

// prohibitedPhrases are opinion markers that have no place in news copy.
var prohibitedPhrases = []string{
	"I think",
	"In my opinion",
	"We believe",
}

// FactCheck is the verification outcome for one claim.
type FactCheck struct {
	Fact     string   `json:"fact"`
	Verified bool     `json:"verified"`
	Sources  []string `json:"sources,omitempty"`
	Note     string   `json:"note,omitempty"`
}

// Report is the full quality payload.
type Report struct {
	FactChecks        []FactCheck `json:"fact_checks"`
	ReadabilityScore  float64     `json:"readability_score"`
	ProhibitedPhrases []string    `json:"prohibited_phrases"`
	Score             float64     `json:"score"`
}

// Pipeline builds the quality report.
type Pipeline struct {
	completer llm.Completer
	searcher  Searcher
	logger    *slog.Logger
}

// New wires the qa pipeline. searcher may be nil; facts then stay unverified.
func New(completer llm.Completer, searcher Searcher, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		completer: completer,
		searcher:  searcher,
		logger:    logger.With(logging.String(logging.FieldComponent, "pipeline.qa")),
	}
}

// Name implements pipeline.Pipeline.
func (p *Pipeline) Name() string { return pipeline.NameQA }

const verifySystem = `You are a fact checker. Respond with a single JSON object and nothing else.`

const verifyPromptTemplate = `Does the search evidence support this claim?
Return JSON with keys "verified" (boolean) and "note" (one sentence).

Claim: %s

Evidence:
%s`

type verdict struct {
	Verified bool   `json:"verified"`
	Note     string `json:"note"`
}

// Run implements pipeline.Pipeline. Search outages and per-fact errors
// degrade to unverified entries instead of failing the report.
func (p *Pipeline) Run(ctx context.Context, req pipeline.Request) ([]store.Artifact, error) {
	report := Report{
		FactChecks:        p.checkFacts(ctx, req.Analysis.Facts),
		ReadabilityScore:  textutil.FleschReadingEase(req.ArticleText),
		ProhibitedPhrases: textutil.FindProhibited(req.ArticleText, prohibitedPhrases),
	}

	verified := 0
	for _, check := range report.FactChecks {
		if check.Verified {
			verified++
		}
	}
	if total := len(report.FactChecks); total > 0 {
		report.Score = float64(verified) / float64(total) * 100
	}

	path, err := pipeline.WriteJSON(req.OutputDir, "qa.json", report)
	if err != nil {
		return nil, fmt.Errorf("qa report: %w", err)
	}
	return []store.Artifact{{
		JobID: req.JobID,
		Type:  "qa",
		Path:  path,
		Metadata: store.Metadata{
			"score":              report.Score,
			"readability":        report.ReadabilityScore,
			"facts_checked":      len(report.FactChecks),
			"facts_verified":     verified,
			"prohibited_phrases": len(report.ProhibitedPhrases),
		},
	}}, nil
}

func (p *Pipeline) checkFacts(ctx context.Context, facts []string) []FactCheck {
	checks := make([]FactCheck, 0, len(facts))
	searchAvailable := p.searcher != nil
	for _, fact := range facts {
		if !searchAvailable {
			checks = append(checks, FactCheck{Fact: fact, Note: "search unavailable"})
			continue
		}
		check, available := p.checkOne(ctx, fact)
		searchAvailable = available
		checks = append(checks, check)
	}
	return checks
}

// checkOne returns the check plus whether search is still worth attempting
// for the remaining facts.
func (p *Pipeline) checkOne(ctx context.Context, fact string) (FactCheck, bool) {
	check := FactCheck{Fact: fact}

	hits, err := p.searcher.Search(ctx, fact)
	if err != nil {
		if errors.Is(err, services.ErrUnavailable) || services.IsConfiguration(err) {
			check.Note = "search unavailable"
			return check, false
		}
		p.logger.Warn("fact search failed", logging.Error(err))
		check.Note = "search failed: " + services.Summary(err)
		return check, true
	}
	if len(hits) == 0 {
		check.Note = "no corroborating sources found"
		return check, true
	}

	evidence := make([]string, 0, len(hits))
	for _, hit := range hits {
		evidence = append(evidence, fmt.Sprintf("- %s (%s): %s", hit.Title, hit.URL, hit.Snippet))
		check.Sources = append(check.Sources, hit.URL)
	}

	result, err := p.completer.Complete(ctx, llm.Request{
		System:      verifySystem,
		Prompt:      fmt.Sprintf(verifyPromptTemplate, fact, strings.Join(evidence, "\n")),
		MaxTokens:   300,
		Temperature: 0,
	})
	if err != nil {
		p.logger.Warn("fact verification failed", logging.Error(err))
		check.Note = "verification failed: " + services.Summary(err)
		return check, true
	}
	var parsed verdict
	if err := llm.DecodeJSON(result.Content, &parsed); err != nil {
		check.Note = "verification returned malformed verdict"
		return check, true
	}
	check.Verified = parsed.Verified
	check.Note = parsed.Note
	return check, true
}
