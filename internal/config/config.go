package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	StateDir    string `toml:"state_dir"`
	ArtifactDir string `toml:"artifact_dir"`
	LogDir      string `toml:"log_dir"`
	APIBind     string `toml:"api_bind"`
}

// LLM contains settings for the primary hosted text-generation provider.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LocalGen contains settings for the local inference fallback. When Preferred
// is true generation runs against the local backend instead of the hosted one.
type LocalGen struct {
	Preferred      bool   `toml:"preferred"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Concurrency    int    `toml:"concurrency"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Speech contains text-to-speech provider settings.
type Speech struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	VoiceID        string `toml:"voice_id"`
	HindiVoiceID   string `toml:"hindi_voice_id"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Avatar contains presenter-video provider settings.
type Avatar struct {
	APIKey              string `toml:"api_key"`
	BaseURL             string `toml:"base_url"`
	SourceURL           string `toml:"source_url"`
	TimeoutSeconds      int    `toml:"timeout_seconds"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	PollAttempts        int    `toml:"poll_attempts"`
}

// Search contains web search provider settings used by fact checking.
type Search struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	ResultCount    int    `toml:"result_count"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Media contains settings for local media rendering.
type Media struct {
	FFmpegPath      string `toml:"ffmpeg_path"`
	LogoPath        string `toml:"logo_path"`
	AvatarImagePath string `toml:"avatar_image_path"`
}

// Workflow contains retry discipline and orchestration timing.
type Workflow struct {
	RetryAttempts          int `toml:"retry_attempts"`
	RetryBaseDelayMS       int `toml:"retry_base_delay_ms"`
	PipelineTimeoutSeconds int `toml:"pipeline_timeout_seconds"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Validation contains article acceptance bounds.
type Validation struct {
	MinArticleWords int `toml:"min_article_words"`
	MaxArticleWords int `toml:"max_article_words"`
	MinBodyWords    int `toml:"min_body_words"`
}

// Config encapsulates all configuration values for newsforge.
type Config struct {
	Paths      Paths      `toml:"paths"`
	LLM        LLM        `toml:"llm"`
	LocalGen   LocalGen   `toml:"local_gen"`
	Speech     Speech     `toml:"speech"`
	Avatar     Avatar     `toml:"avatar"`
	Search     Search     `toml:"search"`
	Media      Media      `toml:"media"`
	Workflow   Workflow   `toml:"workflow"`
	Logging    Logging    `toml:"logging"`
	Validation Validation `toml:"validation"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/newsforge/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file was found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Sample returns the embedded sample configuration.
func Sample() string {
	return sampleConfig
}

// EnsureDirectories creates the state, artifact, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.ArtifactDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Validate checks invariants that the rest of the system relies on.
func (c *Config) Validate() error {
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must not be empty")
	}
	if c.Paths.ArtifactDir == "" {
		return errors.New("paths.artifact_dir must not be empty")
	}
	if c.Workflow.RetryAttempts < 1 {
		return errors.New("workflow.retry_attempts must be at least 1")
	}
	if c.Workflow.RetryBaseDelayMS < 0 {
		return errors.New("workflow.retry_base_delay_ms must not be negative")
	}
	if c.Validation.MinArticleWords <= 0 || c.Validation.MaxArticleWords <= 0 {
		return errors.New("validation word bounds must be positive")
	}
	if c.Validation.MinArticleWords >= c.Validation.MaxArticleWords {
		return errors.New("validation.min_article_words must be below max_article_words")
	}
	if c.Validation.MinBodyWords <= 0 {
		return errors.New("validation.min_body_words must be positive")
	}
	if c.LocalGen.Concurrency < 1 {
		return errors.New("local_gen.concurrency must be at least 1")
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) normalize() error {
	fields := []*string{
		&c.Paths.StateDir,
		&c.Paths.ArtifactDir,
		&c.Paths.LogDir,
		&c.Media.LogoPath,
		&c.Media.AvatarImagePath,
	}
	for _, field := range fields {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	projectPath, err := filepath.Abs("newsforge.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return trimmed, nil
}
