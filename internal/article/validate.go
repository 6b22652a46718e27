package article

import (
	"fmt"
	"strings"

	"newsforge/internal/config"
	"newsforge/internal/services"
	"newsforge/internal/textutil"
)

// Article is validated input split into headline and body.
type Article struct {
	Headline string
	Body     string
}

// Validator enforces article acceptance bounds. Bounds are inclusive on the
// minimum side: an article exactly at MinTotalWords passes.
type Validator struct {
	MinTotalWords int
	MaxTotalWords int
	MinBodyWords  int
}

// NewValidator builds a Validator from configuration.
func NewValidator(cfg config.Validation) *Validator {
	return &Validator{
		MinTotalWords: cfg.MinArticleWords,
		MaxTotalWords: cfg.MaxArticleWords,
		MinBodyWords:  cfg.MinBodyWords,
	}
}

// Validate checks article text and splits it into headline and body. The
// first non-empty line is the headline; everything after is the body.
func (v *Validator) Validate(text string) (Article, error) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return Article{}, v.reject("article text is empty")
	}

	total := textutil.CountWords(cleaned)
	if total < v.MinTotalWords || total > v.MaxTotalWords {
		return Article{}, v.reject(fmt.Sprintf(
			"article must be between %d and %d words, got %d",
			v.MinTotalWords, v.MaxTotalWords, total))
	}

	var lines []string
	for _, line := range strings.Split(cleaned, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) < 2 {
		return Article{}, v.reject("article must include a headline and body")
	}

	headline := lines[0]
	body := strings.TrimSpace(strings.Join(lines[1:], "\n"))
	if textutil.CountWords(body) < v.MinBodyWords {
		return Article{}, v.reject(fmt.Sprintf(
			"article body is too short, need at least %d words", v.MinBodyWords))
	}

	return Article{Headline: headline, Body: body}, nil
}

func (v *Validator) reject(message string) error {
	return services.Wrap(services.ErrValidation, "validator", "validate", message, nil)
}
