package article

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"newsforge/internal/logging"
	"newsforge/internal/retry"
	"newsforge/internal/services"
)

// SourceKind identifies how job input is delivered.
type SourceKind string

const (
	SourcePaste  SourceKind = "paste"
	SourceUpload SourceKind = "upload"
	SourceURL    SourceKind = "url"
)

// Source describes job input: a kind plus its payload (raw text for paste and
// upload, the address for url).
type Source struct {
	Kind    SourceKind `json:"kind"`
	Payload string     `json:"payload"`
}

// Resolver turns a Source into article text.
type Resolver struct {
	httpClient *http.Client
	policy     retry.Policy
	logger     *slog.Logger
}

// ResolverOption customizes Resolver construction.
type ResolverOption func(*Resolver)

// WithHTTPClient overrides the HTTP client used for url sources.
func WithHTTPClient(client *http.Client) ResolverOption {
	return func(r *Resolver) {
		if client != nil {
			r.httpClient = client
		}
	}
}

// WithRetryPolicy overrides the retry policy used for url fetches.
func WithRetryPolicy(policy retry.Policy) ResolverOption {
	return func(r *Resolver) {
		r.policy = policy
	}
}

// NewResolver constructs a Resolver.
func NewResolver(logger *slog.Logger, opts ...ResolverOption) *Resolver {
	resolver := &Resolver{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		policy:     retry.Default(),
		logger:     logging.NewComponentLogger(logger, "article-resolver"),
	}
	for _, opt := range opts {
		opt(resolver)
	}
	return resolver
}

// Resolve returns the article text for a source. Unsupported kinds fail with
// an input error and are never retried; url fetches retry transient network
// failures before giving up.
func (r *Resolver) Resolve(ctx context.Context, src Source) (string, error) {
	switch src.Kind {
	case SourcePaste, SourceUpload:
		return src.Payload, nil
	case SourceURL:
		return r.resolveURL(ctx, src.Payload)
	default:
		return "", services.Wrap(services.ErrUnsupported, "resolver", "resolve",
			fmt.Sprintf("unsupported source kind %q", src.Kind), nil)
	}
}

func (r *Resolver) resolveURL(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", services.Wrap(services.ErrValidation, "resolver", "resolve", "url payload is empty", nil)
	}

	r.logger.Info("fetching article",
		logging.String("url", url),
		logging.String(logging.FieldEventType, "url_fetch_start"),
	)

	html, err := retry.Do(ctx, r.policy, func(ctx context.Context) (string, error) {
		return r.fetchOnce(ctx, url)
	})
	if err != nil {
		return "", err
	}

	text, err := MainText(html)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "resolver", "extract",
			"unable to extract article text from URL", err)
	}

	r.logger.Info("article fetched",
		logging.String("url", url),
		logging.Int("chars", len(text)),
		logging.String(logging.FieldEventType, "url_fetch_complete"),
	)
	return text, nil
}

func (r *Resolver) fetchOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "resolver", "fetch", "build request", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "resolver", "fetch", "http error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		marker := services.ErrValidation
		if resp.StatusCode == http.StatusRequestTimeout ||
			resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode >= http.StatusInternalServerError {
			marker = services.ErrTransient
		}
		return "", services.Wrap(marker, "resolver", "fetch",
			fmt.Sprintf("http %d fetching %s", resp.StatusCode, url), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "resolver", "fetch", "read body", err)
	}
	return string(body), nil
}
