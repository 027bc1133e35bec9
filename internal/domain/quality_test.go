package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualityScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		quality     Quality
		valid       bool
		passing     bool
		description string
	}{
		{QualityBlackout, true, false, "Complete blackout"},
		{QualityIncorrect, true, false, "Incorrect response"},
		{QualityHard, true, false, "Hard to recall"},
		{QualityCorrect, true, true, "Correct response"},
		{QualityPerfect, true, true, "Perfect response"},
		{QualityEasy, true, true, "Easy to recall"},
		{Quality(-1), false, false, "Unknown"},
		{Quality(6), false, true, "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.quality.Valid(), "Valid(%d)", tt.quality)
		assert.Equal(t, tt.passing, tt.quality.Passing(), "Passing(%d)", tt.quality)
		assert.Equal(t, tt.description, tt.quality.Description(), "Description(%d)", tt.quality)
	}
}

func TestQualityValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, QualityCorrect.Validate())

	err := Quality(7).Validate()
	assert.True(t, errors.Is(err, ErrInvalidQuality))
	assert.Contains(t, err.Error(), "7")
}

func TestQualities(t *testing.T) {
	t.Parallel()

	qs := Qualities()
	assert.Len(t, qs, 6)
	assert.Equal(t, MinQuality, qs[0])
	assert.Equal(t, MaxQuality, qs[len(qs)-1])
}
