package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "stopwords and short tokens", input: "ECG y análisis", want: []string{"ecg", "analisis"}},
		{name: "punctuation splits", input: "ALT/AST ratio, (R-value)", want: []string{"alt", "ast", "ratio", "value"}},
		{name: "non-ascii symbols removed", input: "GGT↑ FA≫", want: []string{"ggt"}},
		{name: "digits kept", input: "HbA1c 6.5%", want: []string{"hba1c"}},
		{name: "enye folds", input: "Niño año", want: []string{"nino", "ano"}},
		{name: "only stopwords", input: "de la para los", want: nil},
		{name: "whitespace variants", input: "sepsis\tsofa\nlactato", want: []string{"sepsis", "sofa", "lactato"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Tokenize(tc.input))
		})
	}
}

func TestTokenizeAccentInsensitive(t *testing.T) {
	assert.Equal(t, Tokenize("analisis"), Tokenize("análisis"))
	assert.Equal(t, Tokenize("BILIRRUBINA"), Tokenize("bilirrubina"))
	assert.NotContains(t, Tokenize("ECG y análisis"), "y")
}

func TestFold(t *testing.T) {
	assert.Equal(t, "nefrologia", Fold("Nefrología"))
	assert.Equal(t, "cuidados criticos", Fold("Cuidados Críticos"))
}
