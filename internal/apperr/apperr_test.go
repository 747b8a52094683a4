package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesKind(t *testing.T) {
	err := NotFound("campaign")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))

	wrapped := fmt.Errorf("apply: %w", Conflict("already applied"))
	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.Equal(t, KindConflict, KindOf(wrapped))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestValidationMessageListsFields(t *testing.T) {
	err := Validation("missing required fields", "budget", "currency")
	assert.Equal(t, "missing required fields: budget, currency", err.Error())
	assert.Equal(t, []string{"budget", "currency"}, FieldsOf(err))
}

func TestStorageUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := Storage(cause, "write failed")
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrStorage))
}
