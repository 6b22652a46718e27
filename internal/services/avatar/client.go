package avatar

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"newsforge/internal/retry"
	"newsforge/internal/services"
)

const (
	defaultTimeout      = 60 * time.Second
	defaultPollInterval = 3 * time.Second
	defaultPollAttempts = 40
)

// Config captures the settings required to reach the avatar service.
type Config struct {
	APIKey              string
	BaseURL             string
	SourceURL           string
	TimeoutSeconds      int
	PollIntervalSeconds int
	PollAttempts        int
}

// Client drives the hosted talking-head rendering API.
type Client struct {
	cfg          Config
	httpClient   *http.Client
	policy       retry.Policy
	pollInterval time.Duration
	pollAttempts int
	sleep        func(context.Context, time.Duration) error
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryPolicy overrides the retry policy for individual HTTP calls.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(c *Client) {
		c.policy = policy
	}
}

// WithSleeper overrides the wait between render polls.
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// NewClient constructs an avatar rendering client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	pollInterval := defaultPollInterval
	if cfg.PollIntervalSeconds > 0 {
		pollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second
	}
	pollAttempts := cfg.PollAttempts
	if pollAttempts < 1 {
		pollAttempts = defaultPollAttempts
	}
	client := &Client{
		cfg: Config{
			APIKey:    strings.TrimSpace(cfg.APIKey),
			BaseURL:   strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			SourceURL: strings.TrimSpace(cfg.SourceURL),
		},
		httpClient:   &http.Client{Timeout: timeout},
		policy:       retry.Default(),
		pollInterval: pollInterval,
		pollAttempts: pollAttempts,
		sleep:        sleepWithContext,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type createTalkRequest struct {
	SourceURL string     `json:"source_url"`
	Script    talkScript `json:"script"`
}

type talkScript struct {
	Type  string `json:"type"`
	Input string `json:"input"`
}

type talkResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	ResultURL string `json:"result_url"`
	Error     *struct {
		Description string `json:"description"`
	} `json:"error"`
}

// Render submits a script, waits for the service to finish rendering, and
// returns the URL of the finished clip.
func (c *Client) Render(ctx context.Context, script string) (string, error) {
	if strings.TrimSpace(script) == "" {
		return "", errors.New("avatar render: script required")
	}
	if c.cfg.APIKey == "" {
		return "", services.Wrap(services.ErrConfiguration, "avatar", "render", "api key is not set", nil)
	}
	if c.cfg.SourceURL == "" {
		return "", services.Wrap(services.ErrConfiguration, "avatar", "render", "source image url is not set", nil)
	}

	talkID, err := c.createTalk(ctx, script)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, c.pollInterval); err != nil {
				return "", err
			}
		}
		talk, err := c.getTalk(ctx, talkID)
		if err != nil {
			return "", err
		}
		switch talk.Status {
		case "done":
			if talk.ResultURL == "" {
				return "", services.Wrap(services.ErrTransient, "avatar", "render", "finished talk has no result url", nil)
			}
			return talk.ResultURL, nil
		case "error", "rejected":
			message := "render failed"
			if talk.Error != nil && talk.Error.Description != "" {
				message = talk.Error.Description
			}
			return "", services.Wrap(services.ErrValidation, "avatar", "render", message, nil)
		}
	}
	return "", services.Wrap(services.ErrTimeout, "avatar", "render",
		fmt.Sprintf("talk %s not finished after %d polls", talkID, c.pollAttempts), nil)
}

func (c *Client) createTalk(ctx context.Context, script string) (string, error) {
	payload := createTalkRequest{
		SourceURL: c.cfg.SourceURL,
		Script:    talkScript{Type: "text", Input: script},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("avatar render: encode body: %w", err)
	}

	talk, err := retry.Do(ctx, c.policy, func(ctx context.Context) (talkResponse, error) {
		return c.postTalk(ctx, encoded)
	})
	if err != nil {
		return "", err
	}
	if talk.ID == "" {
		return "", services.Wrap(services.ErrTransient, "avatar", "render", "create talk returned no id", nil)
	}
	return talk.ID, nil
}

func (c *Client) postTalk(ctx context.Context, encoded []byte) (talkResponse, error) {
	var empty talkResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/talks", bytes.NewReader(encoded))
	if err != nil {
		return empty, fmt.Errorf("avatar render: new request: %w", err)
	}
	c.setHeaders(req)
	return c.doTalkRequest(req)
}

func (c *Client) getTalk(ctx context.Context, talkID string) (talkResponse, error) {
	return retry.Do(ctx, c.policy, func(ctx context.Context) (talkResponse, error) {
		var empty talkResponse
		endpoint := c.cfg.BaseURL + "/talks/" + url.PathEscape(talkID)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return empty, fmt.Errorf("avatar render: new request: %w", err)
		}
		c.setHeaders(req)
		return c.doTalkRequest(req)
	})
}

func (c *Client) setHeaders(req *http.Request) {
	credential := base64.StdEncoding.EncodeToString([]byte(c.cfg.APIKey))
	req.Header.Set("Authorization", "Basic "+credential)
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) doTalkRequest(req *http.Request) (talkResponse, error) {
	var empty talkResponse
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, services.Wrap(services.ErrTransient, "avatar", "render", "http error", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, services.Wrap(services.ErrTransient, "avatar", "render", "read body", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		marker := error(services.ErrValidation)
		switch {
		case retryableStatus(resp.StatusCode):
			marker = services.ErrTransient
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			marker = services.ErrConfiguration
		}
		return empty, services.Wrap(marker, "avatar", "render",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var decoded talkResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return empty, fmt.Errorf("avatar render: decode response: %w", err)
	}
	return decoded, nil
}

// Download fetches the finished clip into memory.
func (c *Client) Download(ctx context.Context, resultURL string) ([]byte, error) {
	return retry.Do(ctx, c.policy, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, resultURL, nil)
		if err != nil {
			return nil, fmt.Errorf("avatar download: new request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, services.Wrap(services.ErrTransient, "avatar", "download", "http error", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= http.StatusMultipleChoices {
			marker := error(services.ErrValidation)
			if retryableStatus(resp.StatusCode) {
				marker = services.ErrTransient
			}
			return nil, services.Wrap(marker, "avatar", "download",
				fmt.Sprintf("http %d", resp.StatusCode), nil)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, services.Wrap(services.ErrTransient, "avatar", "download", "read body", err)
		}
		if len(data) == 0 {
			return nil, services.Wrap(services.ErrTransient, "avatar", "download", "empty clip", nil)
		}
		return data, nil
	})
}

func retryableStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= http.StatusInternalServerError
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
