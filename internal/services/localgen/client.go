package localgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"newsforge/internal/retry"
	"newsforge/internal/services"
	"newsforge/internal/services/llm"
)

const defaultTimeout = 120 * time.Second

// Config captures the settings required to reach the local server.
type Config struct {
	BaseURL        string
	Model          string
	Concurrency    int
	TimeoutSeconds int
}

// Client calls a local chat-completion endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	policy     retry.Policy
	slots      *semaphore.Weighted
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

// WithRetryPolicy overrides the retry policy.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(c *Client) {
		c.policy = policy
	}
}

// NewClient constructs a local inference client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	client := &Client{
		cfg: Config{
			BaseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:       strings.TrimSpace(cfg.Model),
			Concurrency: concurrency,
		},
		httpClient: &http.Client{Timeout: timeout},
		policy:     retry.Default(),
		slots:      semaphore.NewWeighted(int64(concurrency)),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options,omitempty"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	Error           string `json:"error"`
}

// Complete generates text on the local server. Requests beyond the configured
// concurrency wait for a slot or for context cancellation.
func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Result, error) {
	var empty llm.Result
	if strings.TrimSpace(req.Prompt) == "" {
		return empty, errors.New("localgen complete: prompt required")
	}
	if c.cfg.Model == "" {
		return empty, services.Wrap(services.ErrConfiguration, "localgen", "complete", "local model is not set", nil)
	}

	if err := c.slots.Acquire(ctx, 1); err != nil {
		return empty, err
	}
	defer c.slots.Release(1)

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	payload := chatRequest{
		Model:    c.cfg.Model,
		Messages: messages,
		Stream:   false,
		Options: chatOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}

	return retry.Do(ctx, c.policy, func(ctx context.Context) (llm.Result, error) {
		return c.sendOnce(ctx, payload)
	})
}

func (c *Client) sendOnce(ctx context.Context, payload chatRequest) (llm.Result, error) {
	var empty llm.Result

	encoded, err := json.Marshal(payload)
	if err != nil {
		return empty, fmt.Errorf("localgen request: encode body: %w", err)
	}
	endpoint := c.cfg.BaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return empty, fmt.Errorf("localgen request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, services.Wrap(services.ErrUnavailable, "localgen", "complete", "local server unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, fmt.Errorf("localgen request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		marker := error(services.ErrTransient)
		if resp.StatusCode == http.StatusNotFound {
			marker = services.ErrConfiguration
		}
		return empty, services.Wrap(marker, "localgen", "complete",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return empty, fmt.Errorf("localgen request: decode response: %w", err)
	}
	if decoded.Error != "" {
		return empty, fmt.Errorf("localgen request: server error: %s", decoded.Error)
	}
	content := strings.TrimSpace(decoded.Message.Content)
	if content == "" {
		return empty, services.Wrap(services.ErrTransient, "localgen", "complete", "empty completion", nil)
	}

	return llm.Result{
		Content:  content,
		Model:    c.cfg.Model,
		Provider: "local",
		Usage: llm.Usage{
			InputTokens:  decoded.PromptEvalCount,
			OutputTokens: decoded.EvalCount,
		},
	}, nil
}
