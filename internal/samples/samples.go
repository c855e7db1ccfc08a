// Package samples embeds the starter deck installed by "flashcards seed".
package samples

import (
	_ "embed"
)

//go:embed hepatic_pearls.tsv
var hepaticPearls string

// HepaticPearlsTSV returns the liver function test deck in import format,
// one front<TAB>back<TAB>notes line per card.
func HepaticPearlsTSV() string {
	return hepaticPearls
}
