// Package intent decides whether a question is a greeting, a knowledge question
// or a request for campus resources.
package intent

import (
	"strings"
	"unicode"

	domintent "github.com/peroute/hackwest-project/internal/domain/intent"
)

// Classifier matches normalized questions against phrase lists.
// Precedence: greeting, then resource, then educational; default educational.
type Classifier struct {
	greetings   []string
	resource    []string
	educational []string
}

// NewClassifier creates a classifier from configured phrase lists.
func NewClassifier(greetings, resource, educational []string) *Classifier {
	return &Classifier{
		greetings:   normalizeAll(greetings),
		resource:    normalizeAll(resource),
		educational: normalizeAll(educational),
	}
}

// Classify returns the intent of question.
func (c *Classifier) Classify(question string) domintent.Intent {
	text := normalize(question)
	switch {
	case containsAny(text, c.greetings):
		return domintent.Greeting
	case containsAny(text, c.resource):
		return domintent.Resource
	case containsAny(text, c.educational):
		return domintent.Educational
	default:
		return domintent.Educational
	}
}

// normalize lowercases, replaces non-alphanumerics with spaces, collapses runs
// and pads both ends so phrases match on word boundaries.
func normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		if r == '\'' {
			return -1
		}
		return ' '
	}, s)
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return " " + strings.Join(fields, " ") + " "
}

func normalizeAll(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if n := normalize(p); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func containsAny(text string, phrases []string) bool {
	if text == "" {
		return false
	}
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
