package config

const (
	defaultStateDir            = "~/.local/share/newsforge"
	defaultArtifactDir         = "~/.local/share/newsforge/artifacts"
	defaultLogDir              = "~/.local/share/newsforge/logs"
	defaultAPIBind             = "127.0.0.1:8490"
	defaultLLMBaseURL          = "https://api.anthropic.com/v1/messages"
	defaultLLMModel            = "claude-sonnet-4-20250514"
	defaultLLMTimeoutSeconds   = 30
	defaultLocalGenBaseURL     = "http://127.0.0.1:11434"
	defaultLocalGenConcurrency = 1
	defaultLocalGenTimeout     = 120
	defaultSpeechBaseURL       = "https://api.elevenlabs.io/v1"
	defaultSpeechTimeout       = 30
	defaultAvatarBaseURL       = "https://api.d-id.com"
	defaultAvatarTimeout       = 30
	defaultAvatarPollInterval  = 3
	defaultAvatarPollAttempts  = 40
	defaultSearchBaseURL       = "https://api.search.brave.com/res/v1/web/search"
	defaultSearchResultCount   = 5
	defaultSearchTimeout       = 20
	defaultFFmpegPath          = "ffmpeg"
	defaultRetryAttempts       = 3
	defaultRetryBaseDelayMS    = 800
	defaultPipelineTimeout     = 600
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultMinArticleWords     = 200
	defaultMaxArticleWords     = 10000
	defaultMinBodyWords        = 50
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:    defaultStateDir,
			ArtifactDir: defaultArtifactDir,
			LogDir:      defaultLogDir,
			APIBind:     defaultAPIBind,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		LocalGen: LocalGen{
			BaseURL:        defaultLocalGenBaseURL,
			Concurrency:    defaultLocalGenConcurrency,
			TimeoutSeconds: defaultLocalGenTimeout,
		},
		Speech: Speech{
			BaseURL:        defaultSpeechBaseURL,
			TimeoutSeconds: defaultSpeechTimeout,
		},
		Avatar: Avatar{
			BaseURL:             defaultAvatarBaseURL,
			TimeoutSeconds:      defaultAvatarTimeout,
			PollIntervalSeconds: defaultAvatarPollInterval,
			PollAttempts:        defaultAvatarPollAttempts,
		},
		Search: Search{
			BaseURL:        defaultSearchBaseURL,
			ResultCount:    defaultSearchResultCount,
			TimeoutSeconds: defaultSearchTimeout,
		},
		Media: Media{
			FFmpegPath: defaultFFmpegPath,
		},
		Workflow: Workflow{
			RetryAttempts:          defaultRetryAttempts,
			RetryBaseDelayMS:       defaultRetryBaseDelayMS,
			PipelineTimeoutSeconds: defaultPipelineTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Validation: Validation{
			MinArticleWords: defaultMinArticleWords,
			MaxArticleWords: defaultMaxArticleWords,
			MinBodyWords:    defaultMinBodyWords,
		},
	}
}
