package progress

import (
	"testing"

	"newsforge/internal/pipeline"
)

func TestComputeStartsAtGeneratingCheckpoint(t *testing.T) {
	enabled := pipeline.EnabledSet(pipeline.Options{})
	if got := Compute(enabled, TypeSet(nil)); got != 30 {
		t.Fatalf("Compute with no artifacts = %d, want 30", got)
	}
	fast := pipeline.EnabledSet(pipeline.Options{FastMode: true})
	if got := Compute(fast, TypeSet(nil)); got != 30 {
		t.Fatalf("checkpoint should not depend on pipeline count, got %d", got)
	}
}

func TestComputeHalfDoneOfFour(t *testing.T) {
	enabled := pipeline.EnabledSet(pipeline.Options{FastMode: true})
	types := TypeSet([]string{"video_raw", "seo"})
	if got := Compute(enabled, types); got != 60 {
		t.Fatalf("Compute = %d, want 60", got)
	}
}

func TestComputeAllDone(t *testing.T) {
	enabled := pipeline.EnabledSet(pipeline.Options{})
	types := TypeSet([]string{"video_branded", "audio", "social", "translation", "seo", "qa"})
	if got := Compute(enabled, types); got != 90 {
		t.Fatalf("Compute = %d, want 90", got)
	}
}

func TestComputeUsesAnyCompletionMarker(t *testing.T) {
	enabled := map[string]bool{pipeline.NameVideo: true}
	if got := Compute(enabled, TypeSet([]string{"video_raw"})); got != 90 {
		t.Fatalf("raw video should complete the video pipeline, got %d", got)
	}
	if got := Compute(enabled, TypeSet([]string{"video_branded"})); got != 90 {
		t.Fatalf("branded video should complete the video pipeline, got %d", got)
	}
	if got := Compute(enabled, TypeSet([]string{"video_script"})); got != 30 {
		t.Fatalf("script alone should not complete the video pipeline, got %d", got)
	}
}

func TestComputeZeroEnabled(t *testing.T) {
	if got := Compute(map[string]bool{}, TypeSet(nil)); got != 30 {
		t.Fatalf("Compute with zero enabled pipelines = %d, want 30", got)
	}
}

func TestComputeIgnoresErrorArtifacts(t *testing.T) {
	enabled := map[string]bool{pipeline.NameQA: true, pipeline.NameSEO: true}
	types := TypeSet([]string{"error_qa", "seo"})
	if got := Compute(enabled, types); got != 60 {
		t.Fatalf("Compute = %d, want 60", got)
	}
}
