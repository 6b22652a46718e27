package store_test

import (
	"context"
	"testing"
	"time"

	"newsforge/internal/store"
	"newsforge/internal/testsupport"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return testsupport.MustOpenStore(t, cfg)
}

func TestInsertAndGetJob(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	job, err := st.InsertJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("insert job: %v", err)
	}
	if job.Status != store.StatusQueued || job.Progress != 0 {
		t.Fatalf("unexpected new job %+v", job)
	}
	if job.StartedAt == nil {
		t.Fatal("started_at not stamped at insert")
	}
	if job.FinishedAt != nil {
		t.Fatal("finished_at must be unset for a queued job")
	}

	missing, err := st.GetJob(ctx, "nope")
	if err != nil {
		t.Fatalf("get missing job: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing job, got %+v", missing)
	}
}

func TestUpdateJobPartialFields(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	if _, err := st.InsertJob(ctx, "job-1"); err != nil {
		t.Fatalf("insert job: %v", err)
	}

	if err := st.UpdateJob(ctx, "job-1", store.JobUpdate{}.
		WithStatus(store.StatusRunning).
		WithProgress(15)); err != nil {
		t.Fatalf("update job: %v", err)
	}
	job, _ := st.GetJob(ctx, "job-1")
	if job.Status != store.StatusRunning || job.Progress != 15 {
		t.Fatalf("unexpected job %+v", job)
	}
	if job.Error != "" {
		t.Fatalf("error should be untouched, got %q", job.Error)
	}

	if err := st.UpdateJob(ctx, "job-1", store.JobUpdate{}.WithError("boom")); err != nil {
		t.Fatalf("update error: %v", err)
	}
	job, _ = st.GetJob(ctx, "job-1")
	if job.Status != store.StatusRunning || job.Error != "boom" {
		t.Fatalf("partial update clobbered fields: %+v", job)
	}
}

func TestUpdateJobStampsFinishedExactlyOnce(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	if _, err := st.InsertJob(ctx, "job-1"); err != nil {
		t.Fatalf("insert job: %v", err)
	}

	if err := st.UpdateJob(ctx, "job-1", store.JobUpdate{Finished: true}.
		WithStatus(store.StatusCompleted).
		WithProgress(100)); err != nil {
		t.Fatalf("terminal update: %v", err)
	}
	job, _ := st.GetJob(ctx, "job-1")
	if job.FinishedAt == nil {
		t.Fatal("finished_at not stamped")
	}
	first := *job.FinishedAt

	time.Sleep(5 * time.Millisecond)
	if err := st.UpdateJob(ctx, "job-1", store.JobUpdate{Finished: true}.
		WithStatus(store.StatusCompleted)); err != nil {
		t.Fatalf("replayed terminal update: %v", err)
	}
	job, _ = st.GetJob(ctx, "job-1")
	if !job.FinishedAt.Equal(first) {
		t.Fatalf("finished_at restamped: %v -> %v", first, job.FinishedAt)
	}
}

func TestUpdateJobUnknownIDFails(t *testing.T) {
	st := openStore(t)
	if err := st.UpdateJob(context.Background(), "missing", store.JobUpdate{}.WithProgress(10)); err == nil {
		t.Fatal("expected error for unknown job")
	}
}

func TestArtifactsRoundTrip(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	if _, err := st.InsertJob(ctx, "job-1"); err != nil {
		t.Fatalf("insert job: %v", err)
	}

	meta := store.Metadata{"provider": "hosted", "cost_usd": 0.01, "fast_mode": true}
	if err := st.InsertArtifact(ctx, "job-1", "analysis", "/tmp/analysis.json", meta); err != nil {
		t.Fatalf("insert artifact: %v", err)
	}
	if err := st.InsertArtifact(ctx, "job-1", "seo", "", nil); err != nil {
		t.Fatalf("insert artifact without metadata: %v", err)
	}

	artifacts, err := st.ListArtifacts(ctx, "job-1")
	if err != nil {
		t.Fatalf("list artifacts: %v", err)
	}
	if len(artifacts) != 2 {
		t.Fatalf("artifacts = %d, want 2", len(artifacts))
	}
	if artifacts[0].Type != "analysis" || artifacts[1].Type != "seo" {
		t.Fatalf("insertion order not preserved: %+v", artifacts)
	}
	if artifacts[0].Metadata["provider"] != "hosted" {
		t.Fatalf("metadata = %+v", artifacts[0].Metadata)
	}
	if artifacts[0].Metadata["fast_mode"] != true {
		t.Fatalf("bool metadata = %+v", artifacts[0].Metadata["fast_mode"])
	}
}

func TestInsertArtifactRejectsUnencodableMetadata(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	if _, err := st.InsertJob(ctx, "job-1"); err != nil {
		t.Fatalf("insert job: %v", err)
	}
	if err := st.InsertArtifact(ctx, "job-1", "x", "", store.Metadata{"ch": make(chan int)}); err == nil {
		t.Fatal("expected error for unencodable metadata")
	}
}

func TestListJobsFiltersByStatus(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if _, err := st.InsertJob(ctx, id); err != nil {
			t.Fatalf("insert job: %v", err)
		}
	}
	if err := st.UpdateJob(ctx, "b", store.JobUpdate{Finished: true}.
		WithStatus(store.StatusFailed).WithProgress(100)); err != nil {
		t.Fatalf("update job: %v", err)
	}

	queued, err := st.ListJobs(ctx, store.StatusQueued)
	if err != nil {
		t.Fatalf("list queued: %v", err)
	}
	if len(queued) != 2 {
		t.Fatalf("queued = %d, want 2", len(queued))
	}

	all, err := st.ListJobs(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all = %d, want 3", len(all))
	}
}

func TestHealthAggregatesStatuses(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b"} {
		if _, err := st.InsertJob(ctx, id); err != nil {
			t.Fatalf("insert job: %v", err)
		}
	}
	if err := st.UpdateJob(ctx, "a", store.JobUpdate{Finished: true}.
		WithStatus(store.StatusCompletedWithErrors).WithProgress(100)); err != nil {
		t.Fatalf("update job: %v", err)
	}

	health, err := st.Health(ctx)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if health.Total != 2 || health.Queued != 1 || health.Degraded != 1 {
		t.Fatalf("unexpected health %+v", health)
	}
}
