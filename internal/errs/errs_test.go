package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("market price must be positive, got %.2f", -1.0)

	assert.Equal(t, CodeInvalidInput, err.Code)
	assert.False(t, err.Retryable)
	assert.Contains(t, err.Error(), "INVALID_INPUT")
	assert.Contains(t, err.Error(), "-1.00")
}

func TestTransientCarriesCodeAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Transient(CodeMalformedResponse, "blank completion from GigaChat", cause)

	assert.Equal(t, CodeMalformedResponse, err.Code)
	assert.True(t, err.Retryable)
	assert.ErrorIs(t, err, cause)
}

func TestRejectedIsNeverRetryable(t *testing.T) {
	err := Rejected("backend rejected credentials", nil)

	assert.Equal(t, CodeInferenceRejected, err.Code)
	assert.False(t, err.Retryable)
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("gigachat generate: %w",
		Transient(CodeInferenceTimeout, "generation attempt timed out", nil))

	assert.True(t, IsRetryable(wrapped))
	assert.False(t, IsInvalidInput(wrapped))

	invalid := fmt.Errorf("build facts: %w", InvalidInput("unknown loan category %q", "crypto"))
	assert.True(t, IsInvalidInput(invalid))
	assert.False(t, IsRetryable(invalid))
}

func TestPredicatesOnForeignErrors(t *testing.T) {
	plain := errors.New("something else entirely")

	assert.False(t, IsRetryable(plain))
	assert.False(t, IsInvalidInput(plain))
	assert.False(t, IsRetryable(nil))
}

func TestErrorStringWithoutCause(t *testing.T) {
	err := Transient(CodeInferenceThrottled, "backend throttled", nil)
	require.Equal(t, "INFERENCE_THROTTLED: backend throttled", err.Error())
}
