package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf_WrappedAppError(t *testing.T) {
	err := fmt.Errorf("creating offering: %w", NewConflictError("offering already exists", nil))

	assert.Equal(t, ErrorTypeConflict, TypeOf(err))
	assert.True(t, Is(err, ErrorTypeConflict))
	assert.False(t, Is(err, ErrorTypeNotFound))
}

func TestTypeOf_ForeignErrorIsInternal(t *testing.T) {
	assert.Equal(t, ErrorTypeInternal, TypeOf(errors.New("boom")))
	assert.False(t, Is(nil, ErrorTypeInternal))
}

func TestPublicMessage_HidesForeignDetail(t *testing.T) {
	assert.Equal(t, "hospital not found", PublicMessage(NewNotFoundError("hospital not found")))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("dial tcp 10.0.0.3:3306: refused")))
}

func TestAppError_ErrorIncludesCause(t *testing.T) {
	cause := errors.New("driver: bad connection")
	err := NewInternalError("failed to count tests", cause)

	assert.Equal(t, "INTERNAL: failed to count tests: driver: bad connection", err.Error())
	assert.ErrorIs(t, err, cause)
}
