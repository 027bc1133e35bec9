package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/studydeck/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestEntityErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		notFound  bool
		duplicate bool
		message   string
	}{
		{"card not found", store.ErrCardNotFound, true, false, "entity not found: card"},
		{"progress not found", store.ErrProgressNotFound, true, false, "entity not found: study progress"},
		{"settings not found", store.ErrSettingsNotFound, true, false, "entity not found: learner settings"},
		{"card exists", store.ErrCardExists, false, true, "entity already exists: card"},
		{"wrapped not found", fmt.Errorf("lookup: %w", store.ErrCardNotFound), true, false, "lookup: entity not found: card"},
		{"unrelated", errors.New("boom"), false, false, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.notFound, store.IsNotFoundError(tt.err))
			assert.Equal(t, tt.duplicate, store.IsDuplicateError(tt.err))
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}

	assert.False(t, errors.Is(store.ErrCardNotFound, store.ErrProgressNotFound))
}

func TestIsInternalError(t *testing.T) {
	t.Parallel()

	assert.False(t, store.IsInternalError(nil))
	assert.False(t, store.IsInternalError(errors.New("some error")))
	assert.True(t, store.IsInternalError(store.ErrInternal))
	assert.True(t, store.IsInternalError(fmt.Errorf("failed to process: %w", store.ErrInternal)))
}
