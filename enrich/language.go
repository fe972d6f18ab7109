// Package enrich derives extra document fields from extracted text.
package enrich

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// ErrTooFewLanguages is returned when fewer than two candidate languages are
// configured; a detector needs something to choose between.
var ErrTooFewLanguages = errors.New("language detection needs at least two languages")

// Languages detects which of a fixed set of languages a text is written in.
type Languages struct {
	detector lingua.LanguageDetector
}

// NewLanguages builds a detector for the given ISO 639-1 codes, such as
// "en" or "de". Codes are case-insensitive.
func NewLanguages(codes []string, lowAccuracy bool) (*Languages, error) {
	byCode := make(map[string]lingua.Language)
	for _, language := range lingua.AllLanguages() {
		byCode[strings.ToLower(language.IsoCode639_1().String())] = language
	}

	seen := make(map[lingua.Language]bool)
	var languages []lingua.Language
	for _, code := range codes {
		language, ok := byCode[strings.ToLower(strings.TrimSpace(code))]
		if !ok {
			return nil, fmt.Errorf("unknown language code %q", code)
		}
		if seen[language] {
			continue
		}
		seen[language] = true
		languages = append(languages, language)
	}

	if len(languages) < 2 {
		return nil, ErrTooFewLanguages
	}

	builder := lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		WithMinimumRelativeDistance(0.1)
	if lowAccuracy {
		builder = builder.WithLowAccuracyMode()
	}

	return &Languages{detector: builder.Build()}, nil
}

// Detect returns the lowercase ISO 639-1 code of text's language. It reports
// false when the text is empty or too ambiguous to call.
func (l *Languages) Detect(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	language, ok := l.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(language.IsoCode639_1().String()), true
}
