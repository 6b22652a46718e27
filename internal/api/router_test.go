package api

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"newsforge/internal/analysis"
	"newsforge/internal/article"
	"newsforge/internal/orchestrator"
	"newsforge/internal/pipeline"
	"newsforge/internal/store"
	"newsforge/internal/testsupport"
)

type fakeResolver struct{}

func (fakeResolver) Resolve(ctx context.Context, src article.Source) (string, error) {
	return src.Payload, nil
}

type fakeValidator struct{}

func (fakeValidator) Validate(text string) (article.Article, error) {
	return article.Article{Headline: "h", Body: text}, nil
}

type fakeAnalyzer struct{}

func (fakeAnalyzer) Analyze(ctx context.Context, headline, body string) (analysis.Outcome, error) {
	return analysis.Outcome{
		Analysis: analysis.ContentAnalysis{Headline: headline, Category: "world", Tone: "neutral", Facts: []string{"f"}},
	}, nil
}

type fakePipeline struct{ name, marker string }

func (f fakePipeline) Name() string { return f.name }

func (f fakePipeline) Run(ctx context.Context, req pipeline.Request) ([]store.Artifact, error) {
	return []store.Artifact{{JobID: req.JobID, Type: f.marker}}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	manager := orchestrator.New(st, fakeResolver{}, fakeValidator{}, fakeAnalyzer{},
		[]pipeline.Pipeline{
			fakePipeline{pipeline.NameVideo, "video_raw"},
			fakePipeline{pipeline.NameSocial, "social"},
			fakePipeline{pipeline.NameSEO, "seo"},
			fakePipeline{pipeline.NameQA, "qa"},
		}, cfg.Paths.ArtifactDir, nil)
	service := NewService(st, manager)
	server := httptest.NewServer(NewRouter(service, nil))
	t.Cleanup(server.Close)
	return server, NewClient(server.URL)
}

func waitForTerminal(t *testing.T, client *Client, jobID string) *JobStatus {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		status, err := client.JobStatus(context.Background(), jobID)
		if err != nil {
			t.Fatalf("job status: %v", err)
		}
		parsed, ok := store.ParseStatus(status.Status)
		if ok && parsed.IsTerminal() {
			return status
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("job did not reach a terminal status")
	return nil
}

func TestSubmitAndStatusRoundTrip(t *testing.T) {
	_, client := newTestServer(t)

	jobID, err := client.Submit(context.Background(), SubmitRequest{
		Source:  article.Source{Kind: article.SourcePaste, Payload: "text"},
		Options: pipeline.Options{FastMode: true},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if jobID == "" {
		t.Fatal("empty job id")
	}

	status := waitForTerminal(t, client, jobID)
	if status.Status != string(store.StatusCompleted) {
		t.Fatalf("status = %s, want completed", status.Status)
	}
	if status.Progress != 100 {
		t.Fatalf("progress = %d", status.Progress)
	}
	types := map[string]bool{}
	for _, artifact := range status.Artifacts {
		types[artifact.Type] = true
	}
	for _, want := range []string{"article", "analysis", "options", "video_raw", "social", "seo", "qa"} {
		if !types[want] {
			t.Fatalf("missing artifact %q in %v", want, types)
		}
	}
}

func TestSubmitRejectsUnsupportedKind(t *testing.T) {
	_, client := newTestServer(t)
	_, err := client.Submit(context.Background(), SubmitRequest{
		Source: article.Source{Kind: "ftp", Payload: "x"},
	})
	if err == nil || !strings.Contains(err.Error(), "unsupported source kind") {
		t.Fatalf("expected unsupported-kind rejection, got %v", err)
	}
}

func TestJobStatusUnknownJobIs404(t *testing.T) {
	_, client := newTestServer(t)
	_, err := client.JobStatus(context.Background(), "missing")
	if err == nil || !strings.Contains(err.Error(), "no job with id") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestListJobsFiltersByStatus(t *testing.T) {
	_, client := newTestServer(t)

	jobID, err := client.Submit(context.Background(), SubmitRequest{
		Source:  article.Source{Kind: article.SourcePaste, Payload: "text"},
		Options: pipeline.Options{FastMode: true},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	waitForTerminal(t, client, jobID)

	completed, err := client.ListJobs(context.Background(), "completed")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(completed) != 1 || completed[0].JobID != jobID {
		t.Fatalf("unexpected list %+v", completed)
	}

	failed, err := client.ListJobs(context.Background(), "failed")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(failed) != 0 {
		t.Fatalf("expected no failed jobs, got %+v", failed)
	}

	if _, err := client.ListJobs(context.Background(), "bogus"); err == nil {
		t.Fatal("expected error for unknown status filter")
	}
}

func TestHealthReportsCounts(t *testing.T) {
	_, client := newTestServer(t)
	health, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if health.Status != "ok" {
		t.Fatalf("status = %q", health.Status)
	}
}
