package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Distinct tests that every sentinel is non-nil and unique
func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrInvalidInput, ErrConfiguration, ErrToken, ErrFetch,
		ErrResolutionMiss, ErrResolution, ErrConstraintViolation, ErrAttachMiss, ErrNoData,
	}

	for i, a := range all {
		assert.NotNil(t, a)
		assert.NotEmpty(t, a.Error())
		for j, b := range all {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: search %q: %w", ErrResolution, "a b", errors.New("reset"))

	assert.ErrorIs(t, wrapped, ErrResolution)
	assert.NotErrorIs(t, wrapped, ErrResolutionMiss)
}

func TestFieldError(t *testing.T) {
	err := fmt.Errorf("features: %w", &FieldError{Field: "tempo", Reason: "missing"})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `field "tempo": missing`)

	var fieldErr *FieldError
	assert.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "tempo", fieldErr.Field)
}
