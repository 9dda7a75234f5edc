package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func trimSpace(s string) string {
	return strings.TrimSpace(s)
}

// collapseWhitespace replaces runs of whitespace (including control
// characters) with a single space.
func collapseWhitespace(s string) string {
	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func truncate(limit int) Strategy {
	return func(s string) string {
		if len(s) <= limit {
			return s
		}
		runes := []rune(s)
		if len(runes) <= limit {
			return s
		}
		return string(runes[:limit])
	}
}

// SanitizeFreeText normalizes user-entered text such as a meeting purpose or
// a reschedule reason.
func SanitizeFreeText(input string) string {
	p := Pipeline{
		collapseWhitespace,
		trimSpace,
		truncate(500),
	}
	return p.Apply(input)
}

// SanitizeLabel normalizes short labels such as a meeting provider name.
func SanitizeLabel(input string) string {
	p := Pipeline{
		collapseWhitespace,
		trimSpace,
		strings.ToLower,
		truncate(50),
	}
	return p.Apply(input)
}
