package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestNewCard(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewCard("id-1", "What is MELD-Na?", "A mortality score", "", t0)
		require.NoError(t, err)
		assert.Equal(t, DefaultEF, c.EF)
		assert.Zero(t, c.Reps)
		assert.Zero(t, c.IntervalDays)
		assert.Equal(t, t0, c.Due)
		assert.Empty(t, c.Tags)
		assert.True(t, c.IsDue(t0))
	})

	testCases := []struct {
		name  string
		front string
		back  string
		field string
	}{
		{name: "empty front", front: "", back: "answer", field: "front"},
		{name: "empty back", front: "question", back: "", field: "back"},
		{name: "whitespace back", front: "question", back: "  \t", field: "back"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewCard("id-1", tc.front, tc.back, "", t0)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Contains(t, err.Error(), tc.field+" is required")
		})
	}
}

func TestValidateSchedulingFields(t *testing.T) {
	c, err := NewCard("id-1", "q", "a", "", t0)
	require.NoError(t, err)

	c.EF = 1.2
	c.Reps = -1
	err = c.Validate()
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "ef must be >= 1.3")
	assert.Contains(t, err.Error(), "reps must be >= 0")
}

func TestValidateEdit(t *testing.T) {
	blank, text := " \t", "texto"
	assert.NoError(t, ValidateEdit(nil, nil))
	assert.NoError(t, ValidateEdit(&text, nil))

	err := ValidateEdit(&blank, &text)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "front is required")

	err = ValidateEdit(&text, &blank)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "back is required")
	assert.NotContains(t, err.Error(), "front")
}

func TestSetTags(t *testing.T) {
	c := &Card{}
	c.SetTags([]string{"Sepsis", "Cuidados Críticos", "", "Sepsis", " Lactato "})
	assert.Equal(t, []string{"Cuidados Críticos", "Lactato", "Sepsis"}, c.Tags)
	assert.True(t, c.HasTag("Lactato"))
	assert.False(t, c.HasTag("lactato"))

	c.ClearTags()
	assert.Empty(t, c.Tags)
	assert.NotNil(t, c.Tags)
}

func TestCloneDoesNotShareTags(t *testing.T) {
	c := &Card{Tags: []string{"A", "B"}}
	cp := c.Clone()
	cp.Tags[0] = "Z"
	assert.Equal(t, "A", c.Tags[0])
}

func TestImportError(t *testing.T) {
	var ie ImportError
	assert.NoError(t, ie.OrNil())

	ie.Add(3, ErrValidation)
	err := ie.OrNil()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImportParse)
	assert.Contains(t, err.Error(), "line 3")

	var target *ImportError
	require.ErrorAs(t, err, &target)
	assert.Len(t, target.Rows, 1)
	assert.ErrorIs(t, target.Rows[0].Err, ErrValidation)
}
