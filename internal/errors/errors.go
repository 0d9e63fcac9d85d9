// Package errors provides structured error types for the dashboard client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("backend unavailable")
	ErrTimeout      = errors.New("operation timed out")
)

// Kind classifies a capability failure.
type Kind string

const (
	KindNone       Kind = ""
	KindValidation Kind = "validation"
	KindBackend    Kind = "backend"
	KindTransport  Kind = "transport"
)

// ValidationError is a local validation failure. The backend was never contacted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Missing returns a validation error for a required input.
func Missing(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// APIError represents a failed backend call. Message is what the user sees and is
// taken verbatim from the backend's error field when one was returned.
type APIError struct {
	Capability string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

// Detail returns a log-friendly description including capability and status.
func (e *APIError) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (status %d): %s: %v", e.Capability, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Capability, e.StatusCode, e.Message)
}

// NewAPIError creates a backend-reported error.
func NewAPIError(capability string, statusCode int, message string) *APIError {
	return &APIError{Capability: capability, StatusCode: statusCode, Message: message}
}

// NewTransportError creates an error for a response that carried no usable error body,
// or for a request that never got a response (statusCode 0).
func NewTransportError(capability string, statusCode int, cause error) *APIError {
	msg := fmt.Sprintf("server error %d", statusCode)
	if statusCode == 0 {
		msg = "server unreachable"
	}
	if cause == nil {
		cause = ErrUnavailable
	}
	return &APIError{Capability: capability, StatusCode: statusCode, Message: msg, Err: cause}
}

// Classify maps an error to its failure kind.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrInvalidInput) {
		return KindValidation
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Err != nil {
			return KindTransport
		}
		return KindBackend
	}
	return KindTransport
}
