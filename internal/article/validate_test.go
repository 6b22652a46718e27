package article

import (
	"strings"
	"testing"

	"newsforge/internal/config"
	"newsforge/internal/services"
)

func newValidator() *Validator {
	return NewValidator(config.Validation{
		MinArticleWords: 200,
		MaxArticleWords: 10000,
		MinBodyWords:    50,
	})
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestValidateAcceptsBoundaryArticle(t *testing.T) {
	text := "Headline words here\n\n" + words(197)
	art, err := newValidator().Validate(text)
	if err != nil {
		t.Fatalf("Validate rejected a 200-word article: %v", err)
	}
	if art.Headline != "Headline words here" {
		t.Fatalf("headline = %q", art.Headline)
	}
	if !strings.HasPrefix(art.Body, "word") {
		t.Fatalf("body = %q", art.Body[:20])
	}
}

func TestValidateRejectsTooLong(t *testing.T) {
	text := "Headline\n\n" + words(10000)
	_, err := newValidator().Validate(text)
	if err == nil {
		t.Fatal("expected rejection for 10001 words")
	}
	if !services.IsFatalInput(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateRejectsShortBody(t *testing.T) {
	// Pad the headline so the total passes but the body stays under 50 words.
	text := words(180) + "\n" + words(40)
	_, err := newValidator().Validate(text)
	if err == nil {
		t.Fatal("expected rejection for 40-word body")
	}
	if !services.IsFatalInput(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateRejectsSingleLine(t *testing.T) {
	_, err := newValidator().Validate(words(300))
	if err == nil {
		t.Fatal("expected rejection for article without a body")
	}
}

func TestValidateRejectsEmpty(t *testing.T) {
	_, err := newValidator().Validate("   \n\n  ")
	if err == nil {
		t.Fatal("expected rejection for empty article")
	}
}

func TestValidateRejectsBelowMinimum(t *testing.T) {
	text := "Headline\n\n" + words(100)
	if _, err := newValidator().Validate(text); err == nil {
		t.Fatal("expected rejection for 101 words")
	}
}
