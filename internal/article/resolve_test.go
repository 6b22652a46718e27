package article

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"newsforge/internal/retry"
	"newsforge/internal/services"
)

func noSleepPolicy() retry.Policy {
	return retry.Policy{
		Attempts:  3,
		BaseDelay: time.Millisecond,
		Sleep: func(ctx context.Context, d time.Duration) error {
			return nil
		},
	}
}

func TestResolvePasteReturnsPayload(t *testing.T) {
	r := NewResolver(nil)
	text, err := r.Resolve(context.Background(), Source{Kind: SourcePaste, Payload: "the text"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if text != "the text" {
		t.Fatalf("text = %q", text)
	}
}

func TestResolveUnsupportedKindFailsWithoutRetry(t *testing.T) {
	attempts := 0
	policy := retry.Policy{Attempts: 3, Sleep: func(ctx context.Context, d time.Duration) error {
		attempts++
		return nil
	}}
	r := NewResolver(nil, WithRetryPolicy(policy))

	_, err := r.Resolve(context.Background(), Source{Kind: "ftp", Payload: "ftp://host/file"})
	if !errors.Is(err, services.ErrUnsupported) {
		t.Fatalf("expected unsupported error, got %v", err)
	}
	if attempts != 0 {
		t.Fatalf("unsupported kind slept %d times, want 0", attempts)
	}
}

func TestResolveURLExtractsMainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><script>junk()</script></head><body>
<nav>menu</nav>
<h1>Big Story</h1>
<p>First paragraph of the article.</p>
<p>Second paragraph.</p>
<footer>copyright</footer>
</body></html>`)
	}))
	defer server.Close()

	r := NewResolver(nil, WithRetryPolicy(noSleepPolicy()))
	text, err := r.Resolve(context.Background(), Source{Kind: SourceURL, Payload: server.URL})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !strings.Contains(text, "Big Story") || !strings.Contains(text, "Second paragraph.") {
		t.Fatalf("text = %q", text)
	}
	if strings.Contains(text, "menu") || strings.Contains(text, "copyright") {
		t.Fatalf("chrome not stripped: %q", text)
	}
}

func TestResolveURLRetriesServerErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "<html><body><p>recovered content</p></body></html>")
	}))
	defer server.Close()

	r := NewResolver(nil, WithRetryPolicy(noSleepPolicy()))
	text, err := r.Resolve(context.Background(), Source{Kind: SourceURL, Payload: server.URL})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !strings.Contains(text, "recovered content") {
		t.Fatalf("text = %q", text)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestResolveURLClientErrorDoesNotRetry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	r := NewResolver(nil, WithRetryPolicy(noSleepPolicy()))
	_, err := r.Resolve(context.Background(), Source{Kind: SourceURL, Payload: server.URL})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestMainTextFallsBackToVisibleText(t *testing.T) {
	text, err := MainText("<html><body><div>bare text without paragraphs</div></body></html>")
	if err != nil {
		t.Fatalf("MainText returned error: %v", err)
	}
	if !strings.Contains(text, "bare text without paragraphs") {
		t.Fatalf("text = %q", text)
	}
}
