package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newsforge/internal/retry"
	"newsforge/internal/services"
)

const (
	defaultTimeout     = 20 * time.Second
	defaultResultCount = 5
)

// Result is one search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Config captures the settings required to reach the search API.
type Config struct {
	APIKey         string
	BaseURL        string
	ResultCount    int
	TimeoutSeconds int
}

// Client queries the hosted web-search API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	policy     retry.Policy
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

// NewClient constructs a search client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	count := cfg.ResultCount
	if count < 1 {
		count = defaultResultCount
	}
	client := &Client{
		cfg: Config{
			APIKey:      strings.TrimSpace(cfg.APIKey),
			BaseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			ResultCount: count,
		},
		httpClient: &http.Client{Timeout: timeout},
		policy:     retry.Default(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type searchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search runs a web query and returns up to the configured number of hits.
// A missing API key reports ErrUnavailable so callers can degrade instead of
// failing the whole pipeline.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("websearch: query required")
	}
	if c.cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrUnavailable, "websearch", "search", "api key is not set", nil)
	}

	endpoint := c.cfg.BaseURL + "?q=" + url.QueryEscape(query) +
		"&count=" + strconv.Itoa(c.cfg.ResultCount)

	return retry.Do(ctx, c.policy, func(ctx context.Context) ([]Result, error) {
		return c.sendOnce(ctx, endpoint)
	})
}

func (c *Client) sendOnce(ctx context.Context, endpoint string) ([]Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("websearch: new request: %w", err)
	}
	req.Header.Set("X-Subscription-Token", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "websearch", "search", "http error", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "websearch", "search", "read body", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		marker := error(services.ErrValidation)
		switch {
		case retryableStatus(resp.StatusCode):
			marker = services.ErrTransient
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			marker = services.ErrUnavailable
		}
		return nil, services.Wrap(marker, "websearch", "search",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("websearch: decode response: %w", err)
	}

	results := make([]Result, 0, len(decoded.Web.Results))
	for _, hit := range decoded.Web.Results {
		if hit.URL == "" {
			continue
		}
		results = append(results, Result{
			Title:   hit.Title,
			URL:     hit.URL,
			Snippet: hit.Description,
		})
		if len(results) == c.cfg.ResultCount {
			break
		}
	}
	return results, nil
}

func retryableStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= http.StatusInternalServerError
}
