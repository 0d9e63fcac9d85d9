package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Verbatim(t *testing.T) {
	err := NewAPIError("replan", 500, "Claude returned invalid JSON: line 1")
	assert.Equal(t, "Claude returned invalid JSON: line 1", err.Error())
	assert.Contains(t, err.Detail(), "replan")
	assert.Contains(t, err.Detail(), "500")
}

func TestTransportError(t *testing.T) {
	err := NewTransportError("layout", 502, nil)
	assert.Equal(t, "server error 502", err.Error())
	assert.ErrorIs(t, err, ErrUnavailable)

	inner := errors.New("connection refused")
	err = NewTransportError("query", 0, inner)
	assert.Equal(t, "server unreachable", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Detail(), "connection refused")
}

func TestValidationError(t *testing.T) {
	err := Missing("question", "question is required")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "question is required", err.Error())

	var ve *ValidationError
	wrapped := fmt.Errorf("query: %w", err)
	assert.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "question", ve.Field)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindNone, Classify(nil))
	assert.Equal(t, KindValidation, Classify(Missing("schedule", "schedule is required")))
	assert.Equal(t, KindBackend, Classify(NewAPIError("query", 500, "boom")))
	assert.Equal(t, KindTransport, Classify(NewTransportError("query", 503, nil)))
	assert.Equal(t, KindTransport, Classify(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
}
