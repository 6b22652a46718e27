package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
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

type fakeRenderer struct {
	renderErr error
	clip      []byte
}

func (f *fakeRenderer) Render(ctx context.Context, script string) (string, error) {
	if f.renderErr != nil {
		return "", f.renderErr
	}
	return "https://example.test/clip.mp4", nil
}

func (f *fakeRenderer) Download(ctx context.Context, resultURL string) ([]byte, error) {
	return f.clip, nil
}

type fakeTools struct {
	placeholderErr error
	overlayErr     error
	placeholders   int
}

func (f *fakeTools) PlaceholderVideo(ctx context.Context, outputPath string, seconds int) error {
	f.placeholders++
	if f.placeholderErr != nil {
		return f.placeholderErr
	}
	return os.WriteFile(outputPath, []byte("placeholder"), 0o644)
}

func (f *fakeTools) OverlayLogo(ctx context.Context, inputPath, logoPath, outputPath string) error {
	if f.overlayErr != nil {
		return f.overlayErr
	}
	return os.WriteFile(outputPath, []byte("branded"), 0o644)
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

func TestRunHostedRendererProducesBrandedChain(t *testing.T) {
	tools := &fakeTools{}
	p := New(&fakeCompleter{content: "script"}, &fakeRenderer{clip: []byte("clip")}, tools, "logo.png", nil)

	artifacts, err := p.Run(context.Background(), request(t))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	got := map[string]string{}
	for _, artifact := range artifacts {
		got[artifact.Type] = artifact.Path
	}
	for _, want := range []string{"video_script", "video_raw", "video_branded"} {
		if got[want] == "" {
			t.Fatalf("missing artifact %q in %v", want, got)
		}
	}
	for _, artifact := range artifacts {
		if artifact.Type == "video_raw" && artifact.Metadata["provider"] != "avatar" {
			t.Fatalf("raw provider = %v", artifact.Metadata["provider"])
		}
	}
}

func TestRunDegradesToPlaceholderWhenAvatarFails(t *testing.T) {
	tools := &fakeTools{}
	renderer := &fakeRenderer{renderErr: services.Wrap(services.ErrTransient, "avatar", "render", "http 503", nil)}
	p := New(&fakeCompleter{content: "script"}, renderer, tools, "logo.png", nil)

	artifacts, err := p.Run(context.Background(), request(t))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if tools.placeholders != 1 {
		t.Fatalf("placeholder renders = %d, want 1", tools.placeholders)
	}
	for _, artifact := range artifacts {
		if artifact.Type == "video_raw" {
			if artifact.Metadata["provider"] != "placeholder" {
				t.Fatalf("provider = %v", artifact.Metadata["provider"])
			}
			if artifact.Metadata["degraded_from"] == nil {
				t.Fatal("degraded_from missing from raw metadata")
			}
		}
	}
}

func TestRunOverlayFailureKeepsRawVideo(t *testing.T) {
	tools := &fakeTools{overlayErr: errors.New("ffmpeg crashed")}
	p := New(&fakeCompleter{content: "script"}, nil, tools, "logo.png", nil)

	artifacts, err := p.Run(context.Background(), request(t))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	var sawRaw, sawBranded bool
	for _, artifact := range artifacts {
		switch artifact.Type {
		case "video_raw":
			sawRaw = true
			if artifact.Metadata["overlay_error"] == nil {
				t.Fatal("overlay_error missing from raw metadata")
			}
		case "video_branded":
			sawBranded = true
		}
	}
	if !sawRaw || sawBranded {
		t.Fatalf("expected raw without branded, got %+v", artifacts)
	}
}

func TestRunScriptFailureReturnsNoArtifacts(t *testing.T) {
	p := New(&fakeCompleter{err: errors.New("provider down")}, nil, &fakeTools{}, "logo.png", nil)
	artifacts, err := p.Run(context.Background(), request(t))
	if err == nil {
		t.Fatal("expected error")
	}
	if len(artifacts) != 0 {
		t.Fatalf("expected no artifacts, got %+v", artifacts)
	}
}

func TestRunScriptArtifactWritten(t *testing.T) {
	tools := &fakeTools{}
	p := New(&fakeCompleter{content: "the script"}, nil, tools, "logo.png", nil)

	req := request(t)
	artifacts, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for _, artifact := range artifacts {
		if artifact.Type == "video_script" {
			data, err := os.ReadFile(artifact.Path)
			if err != nil {
				t.Fatalf("read script: %v", err)
			}
			if string(data) != "the script" {
				t.Fatalf("script content = %q", data)
			}
			if filepath.Dir(artifact.Path) != req.OutputDir {
				t.Fatalf("script written outside output dir: %s", artifact.Path)
			}
		}
	}
}
