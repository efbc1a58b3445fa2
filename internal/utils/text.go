package utils

import (
	"strings"
	"unicode/utf8"
)

// ContainsAny reports whether lowered text contains any keyword.
func ContainsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// CountContained returns how many keywords occur in text at least once.
func CountContained(text string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(text, keyword) {
			count++
		}
	}
	return count
}

// Normalize lower-cases text and collapses runs of whitespace.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// TruncateRunes cuts text to at most n runes.
func TruncateRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n])
}

// Sentences splits text after '.', '!', '?' and newlines, keeping the terminator.
func Sentences(text string) []string {
	var out []string
	var sb strings.Builder
	flush := func() {
		s := strings.TrimSpace(sb.String())
		if s != "" {
			out = append(out, s)
		}
		sb.Reset()
	}
	for _, r := range text {
		if r == '\n' {
			flush()
			continue
		}
		sb.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()
	return out
}

// Segments splits text like Sentences but loses nothing: each sentence keeps
// its leading spaces and every newline is its own segment, so joining the
// segments gives back text.
func Segments(text string) []string {
	var out []string
	var sb strings.Builder
	flush := func() {
		if sb.Len() > 0 {
			out = append(out, sb.String())
			sb.Reset()
		}
	}
	for _, r := range text {
		if r == '\n' {
			flush()
			out = append(out, "\n")
			continue
		}
		sb.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()
	return out
}

// Questions returns the sentences of text that end with a question mark.
func Questions(text string) []string {
	var out []string
	for _, s := range Sentences(text) {
		if strings.HasSuffix(s, "?") {
			out = append(out, s)
		}
	}
	return out
}

// SentenceContaining returns the first sentence whose lowered form contains needle.
func SentenceContaining(text, needle string) string {
	needle = strings.ToLower(needle)
	for _, s := range Sentences(text) {
		if strings.Contains(strings.ToLower(s), needle) {
			return s
		}
	}
	return strings.TrimSpace(text)
}
