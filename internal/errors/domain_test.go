package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesCode(t *testing.T) {
	detailed := ErrDepositCapExceeded.WithDetails(map[string]interface{}{"cap": "5000"})

	assert.True(t, stderrors.Is(detailed, ErrDepositCapExceeded))
	assert.False(t, stderrors.Is(detailed, ErrInvalidAmount))
	assert.Equal(t, "5000", detailed.Details["cap"])
	assert.Nil(t, ErrDepositCapExceeded.Details, "sentinel must not be mutated")
}

func TestDomainError_WrappedStatus(t *testing.T) {
	wrapped := fmt.Errorf("upload: %w", ErrUploadRateLimited)

	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(wrapped))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(stderrors.New("boom")))

	de, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "UPLOAD_RATE_LIMITED", de.Code)
}

func TestDomainError_WithMessage(t *testing.T) {
	err := ErrCommentRequired.WithMessage("comment must be at least %d characters", 10)

	assert.Equal(t, "comment must be at least 10 characters", err.Error())
	assert.ErrorIs(t, err, ErrCommentRequired)
}
