package search

import "github.com/conorfennell/flashcards/internal/tokenize"

// Vocabulary maps each token to its position in a vector.
type Vocabulary map[string]int

// BuildVocabulary indexes every token of docs in first-occurrence order.
func BuildVocabulary(docs []string) Vocabulary {
	vocab := make(Vocabulary)
	for _, d := range docs {
		for _, tok := range tokenize.Tokenize(d) {
			if _, ok := vocab[tok]; !ok {
				vocab[tok] = len(vocab)
			}
		}
	}
	return vocab
}

// Vectorize counts the occurrences of each vocabulary token in text.
// Tokens outside the vocabulary are ignored.
func Vectorize(text string, vocab Vocabulary) []float64 {
	vec := make([]float64, len(vocab))
	for _, tok := range tokenize.Tokenize(text) {
		if i, ok := vocab[tok]; ok {
			vec[i]++
		}
	}
	return vec
}
