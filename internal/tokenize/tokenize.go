// Package tokenize turns free text into the word tokens used for search and
// auto-tagging. Matching is case- and accent-insensitive.
package tokenize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinLength is the shortest token kept; anything of two characters or
// fewer is dropped.
const MinLength = 3

var stopwords = makeSet(
	"a", "ante", "bajo", "cabe", "con", "contra", "de", "desde", "en", "entre",
	"hacia", "hasta", "para", "por", "segun", "sin", "sobre", "tras", "un", "una",
	"unos", "unas", "el", "la", "los", "las", "lo", "y", "o", "u", "que", "como",
	"del", "al", "es", "son", "ser", "estar", "esta", "este", "estos", "estas",
	"ese", "esa", "eso", "esas", "esos",
)

func makeSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopword reports whether w is in the fixed stopword list.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

// Fold lower-cases s and removes diacritical marks, so "Análisis" becomes
// "analisis".
func Fold(s string) string {
	lower := strings.ToLower(s)
	// The chain carries state, so each call gets its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, lower)
	if err != nil {
		return lower
	}
	return folded
}

// Tokenize splits text into tokens. Non-ASCII runes left after folding are
// removed, ASCII punctuation separates words, and stopwords and short
// tokens are discarded. Empty input yields no tokens.
func Tokenize(text string) []string {
	folded := Fold(text)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r > unicode.MaxASCII:
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', unicode.IsSpace(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	var tokens []string
	for _, w := range strings.Fields(b.String()) {
		if len(w) < MinLength || IsStopword(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}
