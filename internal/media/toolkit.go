package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"newsforge/internal/services"
)

const (
	audiogramFilter = "showwaves=s=1080x1080:mode=line:rate=25"
	overlayFilter   = "overlay=W-w-40:H-h-40"
)

// Toolkit wraps the ffmpeg binary for the handful of renders pipelines need.
type Toolkit struct {
	ffmpegPath string
}

// NewToolkit resolves the ffmpeg binary. An empty path searches PATH.
func NewToolkit(ffmpegPath string) (*Toolkit, error) {
	candidate := strings.TrimSpace(ffmpegPath)
	if candidate == "" {
		candidate = "ffmpeg"
	}
	resolved, err := exec.LookPath(candidate)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "media", "init",
			fmt.Sprintf("ffmpeg not found at %q", candidate), err)
	}
	return &Toolkit{ffmpegPath: resolved}, nil
}

// FFmpegPath returns the resolved binary path.
func (t *Toolkit) FFmpegPath() string {
	return t.ffmpegPath
}

// PlaceholderVideo renders a solid-color clip with silent audio, used when
// the avatar service cannot produce a talking-head segment.
func (t *Toolkit) PlaceholderVideo(ctx context.Context, outputPath string, seconds int) error {
	if seconds < 1 {
		seconds = 5
	}
	duration := strconv.Itoa(seconds)
	args := []string{
		"-y",
		"-f", "lavfi", "-i", "color=c=0x1a1a2e:s=1920x1080:d=" + duration,
		"-f", "lavfi", "-i", "anullsrc=channel_layout=stereo:sample_rate=44100",
		"-t", duration,
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-shortest",
		outputPath,
	}
	return t.run(ctx, "placeholder", args)
}

// OverlayLogo stamps the station logo in the bottom-right corner, copying
// the audio stream untouched.
func (t *Toolkit) OverlayLogo(ctx context.Context, inputPath, logoPath, outputPath string) error {
	if _, err := os.Stat(logoPath); err != nil {
		return services.Wrap(services.ErrConfiguration, "media", "overlay",
			fmt.Sprintf("logo file %q not readable", logoPath), err)
	}
	args := []string{
		"-y",
		"-i", inputPath,
		"-i", logoPath,
		"-filter_complex", overlayFilter,
		"-c:a", "copy",
		outputPath,
	}
	return t.run(ctx, "overlay", args)
}

// Audiogram renders a square waveform video over the narration track.
func (t *Toolkit) Audiogram(ctx context.Context, audioPath, outputPath string) error {
	args := []string{
		"-y",
		"-i", audioPath,
		"-filter_complex", audiogramFilter,
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-shortest",
		outputPath,
	}
	return t.run(ctx, "audiogram", args)
}

func (t *Toolkit) run(ctx context.Context, operation string, args []string) error {
	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return services.Wrap(services.ErrTransient, "media", operation,
			fmt.Sprintf("ffmpeg failed: %s", tailLines(stderr.String(), 5)), err)
	}
	return nil
}

func tailLines(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
