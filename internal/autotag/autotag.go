// Package autotag assigns topic labels to a card from its text using
// keyword rules and the most frequent terms.
package autotag

import (
	"regexp"
	"slices"
	"strings"

	"github.com/conorfennell/flashcards/internal/tokenize"
)

// Rule maps a pattern, matched against the lower-cased card text, to a label.
type Rule struct {
	Pattern *regexp.Regexp
	Label   string
}

// DefaultRules is evaluated in order; every matching rule contributes.
var DefaultRules = []Rule{
	{Pattern: regexp.MustCompile(`ecg|electro`), Label: "Cardiología"},
	{Pattern: regexp.MustCompile(`renal|creatin|tfg|kdigo`), Label: "Nefrología"},
	{Pattern: regexp.MustCompile(`asm|epoc|bronco|gold`), Label: "Neumología"},
	{Pattern: regexp.MustCompile(`sepsis|sofa|qsofa|lactato`), Label: "Cuidados Críticos"},
	{Pattern: regexp.MustCompile(`hepat|bilirr|alt|ast|child|meld`), Label: "Hepatología"},
	{Pattern: regexp.MustCompile(`diabet|insulin|hba1c|gluc`), Label: "Endocrino"},
	{Pattern: regexp.MustCompile(`abx|antib|idsa|ats`), Label: "Infecciosas"},
}

// DefaultFrequentTerms is how many of the most frequent tokens become tags.
const DefaultFrequentTerms = 2

// Tagger derives tags from card text.
type Tagger struct {
	Rules         []Rule
	FrequentTerms int
}

// Default returns a Tagger with the built-in rules.
func Default() *Tagger {
	return &Tagger{Rules: DefaultRules, FrequentTerms: DefaultFrequentTerms}
}

// AutoTags tags front/back with the default tagger.
func AutoTags(front, back string) []string {
	return Default().Tags(front, back)
}

// Tags returns the sorted, de-duplicated union of rule labels and the
// capitalized most frequent tokens of front and back. It does not modify
// anything; callers decide whether to apply the result.
func (t *Tagger) Tags(front, back string) []string {
	text := strings.ToLower(front + " " + back)

	var tags []string
	for _, r := range t.Rules {
		if r.Pattern.MatchString(text) {
			tags = append(tags, r.Label)
		}
	}
	for _, w := range TopTerms(tokenize.Tokenize(text), t.FrequentTerms) {
		tags = append(tags, capitalize(w))
	}

	slices.Sort(tags)
	return slices.Compact(tags)
}

// TopTerms returns up to n tokens ordered by descending frequency.
// Tokens with the same count keep the order in which they first appeared.
func TopTerms(tokens []string, n int) []string {
	if n <= 0 || len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]int)
	var order []string
	for _, tok := range tokens {
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}
	slices.SortStableFunc(order, func(a, b string) int {
		return counts[b] - counts[a]
	})
	return order[:min(n, len(order))]
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}
