package translation

import (
	"context"
	"errors"
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
	err     error
	voiceID string
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	f.voiceID = voiceID
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp3"), nil
}

const goodTranslation = `{"headline": "अनुवादित", "body": "मुख्य पाठ", "notes": ["name kept in English"]}`

func request(t *testing.T) pipeline.Request {
	t.Helper()
	return pipeline.Request{
		JobID:       "job-1",
		Analysis:    analysis.ContentAnalysis{Headline: "h"},
		ArticleText: "body",
		OutputDir:   t.TempDir(),
	}
}

func TestNewRejectsInvalidLanguageTag(t *testing.T) {
	if _, err := New(&fakeCompleter{}, nil, "not a tag!", "", nil); !services.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRunProducesTranslationVoiceoverAndNotes(t *testing.T) {
	synth := &fakeSynthesizer{}
	p, err := New(&fakeCompleter{content: goodTranslation}, synth, "hi", "voice-hi", nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	artifacts, err := p.Run(context.Background(), request(t))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	types := map[string]bool{}
	for _, artifact := range artifacts {
		types[artifact.Type] = true
	}
	for _, want := range []string{"translation", "translation_audio", "translation_notes"} {
		if !types[want] {
			t.Fatalf("missing artifact %q in %v", want, types)
		}
	}
	if synth.voiceID != "voice-hi" {
		t.Fatalf("voiceID = %q", synth.voiceID)
	}
}

func TestRunVoiceoverFailureDegradesToText(t *testing.T) {
	synth := &fakeSynthesizer{err: errors.New("tts down")}
	p, err := New(&fakeCompleter{content: goodTranslation}, synth, "hi", "voice-hi", nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	artifacts, err := p.Run(context.Background(), request(t))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for _, artifact := range artifacts {
		if artifact.Type == "translation_audio" {
			t.Fatal("voiceover artifact should be absent on TTS failure")
		}
		if artifact.Type == "translation" && artifact.Metadata["voiceover_error"] == nil {
			t.Fatal("voiceover_error missing from translation metadata")
		}
	}
}

func TestRunSkipsVoiceoverWithoutVoice(t *testing.T) {
	p, err := New(&fakeCompleter{content: goodTranslation}, &fakeSynthesizer{}, "hi", "", nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	artifacts, err := p.Run(context.Background(), request(t))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for _, artifact := range artifacts {
		if artifact.Type == "translation_audio" {
			t.Fatal("voiceover should be skipped when no voice is configured")
		}
		if artifact.Type == "translation" && artifact.Metadata["voiceover_error"] != nil {
			t.Fatal("skipped voiceover must not record an error")
		}
	}
}

func TestRunEmptyTranslationFails(t *testing.T) {
	p, err := New(&fakeCompleter{content: `{"headline": "x", "body": ""}`}, nil, "hi", "", nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := p.Run(context.Background(), request(t)); err == nil {
		t.Fatal("expected error for empty translation body")
	}
}
