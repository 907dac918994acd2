package utils

import (
	"strings"
	"unicode"
)

// SplitSentences breaks text on sentence-ending punctuation. The terminator
// stays attached to its sentence. Whitespace-only pieces are dropped.
func SplitSentences(text string) []string {
	var sentences []string
	var b strings.Builder

	flush := func() {
		s := strings.TrimSpace(b.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}

	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()
	return sentences
}

// ChunkText splits text into ordered chunks of at most maxChars characters,
// preferring sentence boundaries. A single sentence longer than maxChars is
// hard-split on rune boundaries. Deterministic for identical input.
func ChunkText(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = 600
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	var b strings.Builder

	flush := func() {
		s := strings.TrimSpace(b.String())
		if s != "" {
			chunks = append(chunks, s)
		}
		b.Reset()
	}

	for _, sentence := range SplitSentences(text) {
		for len([]rune(sentence)) > maxChars {
			runes := []rune(sentence)
			flush()
			chunks = append(chunks, string(runes[:maxChars]))
			sentence = strings.TrimSpace(string(runes[maxChars:]))
		}
		if sentence == "" {
			continue
		}
		if b.Len() > 0 && len([]rune(b.String()))+len([]rune(sentence))+1 > maxChars {
			flush()
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sentence)
	}
	flush()
	return chunks
}

// Slug lowercases s and replaces every run of non-alphanumeric characters
// with a single underscore, suitable for object keys and segment IDs.
func Slug(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
		} else if !lastUnderscore && b.Len() > 0 {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
