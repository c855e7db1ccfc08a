// Package search implements the bag-of-words similarity used to rank cards
// against a free-text query.
//
// A Vocabulary is built from the candidate documents, each text becomes a
// raw term-count vector over it, and candidates are ordered by cosine
// similarity to the query vector.
package search
