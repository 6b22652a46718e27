package seo

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"newsforge/internal/analysis"
	"newsforge/internal/pipeline"
	"newsforge/internal/services/llm"
)

type fakeCompleter struct {
	content string
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (llm.Result, error) {
	return llm.Result{Content: f.content, Provider: "hosted", Model: "m"}, nil
}

const goodPackage = `{
  "headline_variants": ["v1", "v2", "v3"],
  "meta_descriptions": ["d1", "d2"],
  "faqs": [{"question": "q", "answer": "a"}],
  "keywords": ["k1", "k2", "k3", "k4", "k5"],
  "internal_links": ["l1", "l2", "l3"]
}`

func TestRunWritesPackage(t *testing.T) {
	p := New(&fakeCompleter{content: goodPackage})

	artifacts, err := p.Run(context.Background(), pipeline.Request{
		JobID: "job-1",
		Analysis: analysis.ContentAnalysis{
			Headline: "h",
			Category: "politics",
			Facts:    []string{"f1"},
			Entities: []string{"e1"},
		},
		OutputDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].Type != "seo" {
		t.Fatalf("unexpected artifacts %+v", artifacts)
	}
	if artifacts[0].Metadata["keywords"] != 5 {
		t.Fatalf("keywords metadata = %v", artifacts[0].Metadata["keywords"])
	}

	data, err := os.ReadFile(artifacts[0].Path)
	if err != nil {
		t.Fatalf("read package: %v", err)
	}
	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		t.Fatalf("decode package: %v", err)
	}
	if len(pkg.HeadlineVariants) != 3 || len(pkg.FAQs) != 1 {
		t.Fatalf("unexpected package %+v", pkg)
	}
}

func TestRunRejectsIncompletePackage(t *testing.T) {
	p := New(&fakeCompleter{content: `{"headline_variants": [], "keywords": []}`})
	_, err := p.Run(context.Background(), pipeline.Request{
		JobID:     "job-1",
		OutputDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected error for incomplete package")
	}
}
