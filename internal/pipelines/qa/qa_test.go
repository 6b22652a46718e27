package qa

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"newsforge/internal/analysis"
	"newsforge/internal/pipeline"
	"newsforge/internal/services"
	"newsforge/internal/services/llm"
	"newsforge/internal/services/websearch"
)

type fakeCompleter struct {
	content string
	err     error
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (llm.Result, error) {
	if f.err != nil {
		return llm.Result{}, f.err
	}
	return llm.Result{Content: f.content, Provider: "hosted"}, nil
}

type fakeSearcher struct {
	hits []websearch.Result
	err  error
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]websearch.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

func runPipeline(t *testing.T, p *Pipeline, facts []string, body string) Report {
	t.Helper()
	artifacts, err := p.Run(context.Background(), pipeline.Request{
		JobID:       "job-1",
		Analysis:    analysis.ContentAnalysis{Facts: facts},
		ArticleText: body,
		OutputDir:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].Type != "qa" {
		t.Fatalf("unexpected artifacts %+v", artifacts)
	}
	data, err := os.ReadFile(artifacts[0].Path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	return report
}

func TestRunVerifiesFactsAndScores(t *testing.T) {
	searcher := &fakeSearcher{hits: []websearch.Result{{Title: "t", URL: "https://x", Snippet: "s"}}}
	completer := &fakeCompleter{content: `{"verified": true, "note": "supported"}`}
	p := New(completer, searcher, nil)

	report := runPipeline(t, p, []string{"fact one", "fact two"}, "Plain news text. Short sentences.")
	if report.Score != 100 {
		t.Fatalf("score = %v, want 100", report.Score)
	}
	if len(report.FactChecks) != 2 {
		t.Fatalf("fact checks = %d, want 2", len(report.FactChecks))
	}
	if !report.FactChecks[0].Verified || len(report.FactChecks[0].Sources) == 0 {
		t.Fatalf("first check not verified with sources: %+v", report.FactChecks[0])
	}
}

func TestRunDegradesWhenSearchUnavailable(t *testing.T) {
	searcher := &fakeSearcher{err: services.Wrap(services.ErrUnavailable, "websearch", "search", "api key is not set", nil)}
	p := New(&fakeCompleter{content: `{}`}, searcher, nil)

	report := runPipeline(t, p, []string{"a", "b", "c"}, "Body text here.")
	if report.Score != 0 {
		t.Fatalf("score = %v, want 0", report.Score)
	}
	for _, check := range report.FactChecks {
		if check.Verified {
			t.Fatalf("expected unverified checks, got %+v", check)
		}
		if check.Note != "search unavailable" {
			t.Fatalf("note = %q", check.Note)
		}
	}
}

func TestRunWithoutSearcherStillReports(t *testing.T) {
	p := New(&fakeCompleter{content: `{}`}, nil, nil)
	report := runPipeline(t, p, []string{"a"}, "We believe this is fine. I think so.")
	if len(report.ProhibitedPhrases) != 2 {
		t.Fatalf("prohibited phrases = %v", report.ProhibitedPhrases)
	}
	if report.ReadabilityScore <= 0 {
		t.Fatalf("readability = %v, want > 0", report.ReadabilityScore)
	}
}

func TestRunPerFactErrorDegradesToUnverified(t *testing.T) {
	searcher := &fakeSearcher{err: services.Wrap(services.ErrTransient, "websearch", "search", "http 500", nil)}
	p := New(&fakeCompleter{content: `{}`}, searcher, nil)

	report := runPipeline(t, p, []string{"a", "b"}, "Body.")
	if len(report.FactChecks) != 2 {
		t.Fatalf("fact checks = %d, want 2", len(report.FactChecks))
	}
	for _, check := range report.FactChecks {
		if check.Verified {
			t.Fatalf("expected unverified check, got %+v", check)
		}
	}
}
