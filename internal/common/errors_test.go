package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_WrapsSentinel(t *testing.T) {
	err := ValidationError("name is required")
	assert.ErrorIs(t, err, ErrorValidation)
	assert.Equal(t, "name is required", Reason(err))
}

func TestBadRequestError_WrapsSentinel(t *testing.T) {
	err := BadRequestError("cannot delete yourself")
	assert.ErrorIs(t, err, ErrorBadRequest)
	assert.Equal(t, "cannot delete yourself", Reason(err))
}

func TestStorageError(t *testing.T) {
	assert.Nil(t, StorageError(nil))

	raw := errors.New("disk full")
	wrapped := StorageError(raw)
	assert.ErrorIs(t, wrapped, ErrorStorage)
	assert.ErrorIs(t, wrapped, raw)

	// domain sentinels pass through untouched
	nf := fmt.Errorf("lookup: %w", ErrorNotFound)
	assert.Same(t, nf, StorageError(nf))
	assert.Same(t, ErrorConflict, StorageError(ErrorConflict))
	v := ValidationError("reps must be positive")
	assert.Same(t, v, StorageError(v))

	// no double wrapping
	assert.Same(t, wrapped, StorageError(wrapped))
}

func TestReason_FallsBackToMessage(t *testing.T) {
	assert.Equal(t, "boom", Reason(errors.New("boom")))
}
