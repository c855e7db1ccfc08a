package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVocabularyFirstOccurrence(t *testing.T) {
	vocab := BuildVocabulary([]string{
		"sepsis lactato",
		"lactato creatinina sepsis",
		"",
	})
	assert.Equal(t, Vocabulary{"sepsis": 0, "lactato": 1, "creatinina": 2}, vocab)
}

func TestVectorize(t *testing.T) {
	vocab := BuildVocabulary([]string{"sepsis sofa lactato"})

	t.Run("raw counts", func(t *testing.T) {
		assert.Equal(t, []float64{2, 1, 0}, Vectorize("Sepsis, SOFA y sepsis", vocab))
	})
	t.Run("unknown tokens ignored", func(t *testing.T) {
		assert.Equal(t, []float64{0, 0, 0}, Vectorize("bilirrubina albumina", vocab))
	})
	t.Run("empty vocabulary", func(t *testing.T) {
		assert.Empty(t, Vectorize("sepsis", Vocabulary{}))
	})
}

func TestCosine(t *testing.T) {
	vocab := BuildVocabulary([]string{"sepsis sofa", "ecg electro"})

	t.Run("identical text", func(t *testing.T) {
		v := Vectorize("sepsis sofa", vocab)
		assert.InDelta(t, 1.0, Cosine(v, v), 1e-12)
	})
	t.Run("zero vector", func(t *testing.T) {
		zero := make([]float64, len(vocab))
		assert.Equal(t, 0.0, Cosine(zero, Vectorize("sepsis", vocab)))
		assert.Equal(t, 0.0, Cosine(Vectorize("sepsis", vocab), zero))
		assert.Equal(t, 0.0, Cosine(nil, nil))
	})
	t.Run("orthogonal", func(t *testing.T) {
		assert.Equal(t, 0.0, Cosine(Vectorize("sepsis", vocab), Vectorize("ecg", vocab)))
	})
	t.Run("partial overlap", func(t *testing.T) {
		got := Cosine([]float64{1, 1, 0}, []float64{1, 0, 0})
		assert.InDelta(t, 0.7071, got, 1e-4)
	})
}

func TestRank(t *testing.T) {
	docs := []string{
		"ECG en bloqueo de rama",
		"Sepsis: lactato y SOFA",
		"Lactato elevado",
		"Lactato alto",
	}
	id := func(s string) string { return s }

	t.Run("orders by score and drops zero", func(t *testing.T) {
		got := Rank("sepsis lactato", docs, id)
		require.Len(t, got, 3)
		assert.Equal(t, "Sepsis: lactato y SOFA", got[0].Item)
		assert.Greater(t, got[0].Score, got[1].Score)
	})
	t.Run("ties keep input order", func(t *testing.T) {
		got := Rank("lactato", docs[2:], id)
		require.Len(t, got, 2)
		assert.Equal(t, "Lactato elevado", got[0].Item)
		assert.Equal(t, "Lactato alto", got[1].Item)
		assert.Equal(t, got[0].Score, got[1].Score)
	})
	t.Run("blank query", func(t *testing.T) {
		assert.Empty(t, Rank("   ", docs, id))
	})
	t.Run("unseen tokens", func(t *testing.T) {
		assert.Empty(t, Rank("hemolisis", docs, id))
	})
}
