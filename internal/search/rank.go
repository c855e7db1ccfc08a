package search

import (
	"cmp"
	"slices"
	"strings"
)

// Scored pairs a candidate with its similarity to the query.
type Scored[T any] struct {
	Item  T
	Score float64
}

// Rank scores every candidate against query and returns those with a
// positive score, best first. Candidates with equal scores keep their
// input order. The vocabulary is rebuilt from the candidates on each call.
func Rank[T any](query string, candidates []T, doc func(T) string) []Scored[T] {
	if strings.TrimSpace(query) == "" || len(candidates) == 0 {
		return nil
	}

	docs := make([]string, len(candidates))
	for i, c := range candidates {
		docs[i] = doc(c)
	}
	vocab := BuildVocabulary(docs)
	qvec := Vectorize(query, vocab)

	var scored []Scored[T]
	for i, c := range candidates {
		s := Cosine(Vectorize(docs[i], vocab), qvec)
		if s > 0 {
			scored = append(scored, Scored[T]{Item: c, Score: s})
		}
	}
	slices.SortStableFunc(scored, func(a, b Scored[T]) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return scored
}
