// Package textutil provides plain-text heuristics used by validation and QA:
// word counting, Flesch reading ease, and prohibited phrase scanning.
package textutil

import (
	"regexp"
	"strings"
)

var (
	wordPattern     = regexp.MustCompile(`\b[\w'-]+\b`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
	nonLetter       = regexp.MustCompile(`[^a-z]`)
)

// CountWords returns the number of whitespace-delimited words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// FleschReadingEase scores text readability on the standard 0-100 scale.
// Scores are clamped to [0, 100]; empty input scores 0.
func FleschReadingEase(text string) float64 {
	sentences := 0
	for _, part := range sentencePattern.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			sentences++
		}
	}
	words := wordPattern.FindAllString(text, -1)
	if sentences == 0 || len(words) == 0 {
		return 0
	}

	syllables := 0
	for _, word := range words {
		syllables += countSyllables(word)
	}

	asl := float64(len(words)) / float64(sentences)
	asw := float64(syllables) / float64(len(words))
	score := 206.835 - (1.015 * asl) - (84.6 * asw)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// FindProhibited returns the phrases that occur in text, case-insensitively.
func FindProhibited(text string, phrases []string) []string {
	lowered := strings.ToLower(text)
	var found []string
	for _, phrase := range phrases {
		if strings.Contains(lowered, strings.ToLower(phrase)) {
			found = append(found, phrase)
		}
	}
	return found
}

func countSyllables(word string) int {
	word = nonLetter.ReplaceAllString(strings.ToLower(word), "")
	if word == "" {
		return 0
	}
	const vowels = "aeiouy"
	count := 0
	prevVowel := false
	for _, char := range word {
		isVowel := strings.ContainsRune(vowels, char)
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}
	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}
