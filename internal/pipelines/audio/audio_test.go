package audio

import (
	"context"
	"errors"
	"os"
	"testing"

	"newsforge/internal/analysis"
	"newsforge/internal/pipeline"
	"newsforge/internal/services"
	"newsforge/internal/services/llm"
)

type fakeCompleter struct {
	content string
	err     error
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (llm.Result, error) {
	if f.err != nil {
		return llm.Result{}, f.err
	}
	return llm.Result{Content: f.content, Provider: "hosted", Model: "m"}, nil
}

type fakeSynthesizer struct {
	audio []byte
	err   error
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

type fakeTools struct {
	err error
}

func (f *fakeTools) Audiogram(ctx context.Context, audioPath, outputPath string) error {
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outputPath, []byte("audiogram"), 0o644)
}

func request(t *testing.T) pipeline.Request {
	t.Helper()
	return pipeline.Request{
		JobID: "job-1",
		Analysis: analysis.ContentAnalysis{
			Headline: "h",
			Tone:     "neutral",
			Facts:    []string{"f1"},
		},
		OutputDir: t.TempDir(),
	}
}

func TestRunProducesFullChain(t *testing.T) {
	p := New(&fakeCompleter{content: "script"}, &fakeSynthesizer{audio: []byte("mp3")}, &fakeTools{}, nil)

	artifacts, err := p.Run(context.Background(), request(t))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	types := map[string]bool{}
	for _, artifact := range artifacts {
		types[artifact.Type] = true
	}
	for _, want := range []string{"audio_script", "audio", "audiogram"} {
		if !types[want] {
			t.Fatalf("missing artifact %q in %v", want, types)
		}
	}
}

func TestRunAudiogramFailureDegradesToAudio(t *testing.T) {
	tools := &fakeTools{err: errors.New("ffmpeg crashed")}
	p := New(&fakeCompleter{content: "script"}, &fakeSynthesizer{audio: []byte("mp3")}, tools, nil)

	artifacts, err := p.Run(context.Background(), request(t))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	var sawAudio, sawAudiogram bool
	for _, artifact := range artifacts {
		switch artifact.Type {
		case "audio":
			sawAudio = true
			if artifact.Metadata["audiogram_error"] == nil {
				t.Fatal("audiogram_error missing from audio metadata")
			}
		case "audiogram":
			sawAudiogram = true
		}
	}
	if !sawAudio || sawAudiogram {
		t.Fatalf("expected audio without audiogram, got %+v", artifacts)
	}
}

func TestRunTTSFailureKeepsScriptArtifact(t *testing.T) {
	synth := &fakeSynthesizer{err: services.Wrap(services.ErrTransient, "speech", "synthesize", "http 500", nil)}
	p := New(&fakeCompleter{content: "script"}, synth, &fakeTools{}, nil)

	artifacts, err := p.Run(context.Background(), request(t))
	if err == nil {
		t.Fatal("expected error when synthesis fails")
	}
	if len(artifacts) != 1 || artifacts[0].Type != "audio_script" {
		t.Fatalf("expected partial script artifact, got %+v", artifacts)
	}
}

func TestRunMissingSynthesizerIsConfigurationError(t *testing.T) {
	p := New(&fakeCompleter{content: "script"}, nil, &fakeTools{}, nil)
	_, err := p.Run(context.Background(), request(t))
	if !services.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
