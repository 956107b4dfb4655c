package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	CodeExtraction    = "EXTRACTION_ERROR"
	CodeTransport     = "TRANSPORT_ERROR"
	CodeRemoteService = "REMOTE_SERVICE_ERROR"
	CodeTerminal      = "TERMINAL_FAILURE"
	CodeWrite         = "WRITE_ERROR"
)

// Common application errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrExtraction    = errors.New("extraction failed")
	ErrTransport     = errors.New("transport failed")
	ErrRemoteService = errors.New("remote service error")
	ErrTerminal      = errors.New("retries exhausted")
	ErrWrite         = errors.New("write failed")
	ErrDatabase      = errors.New("database error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ExtractionError is local and deterministic; the document is skipped, never retried.
func ExtractionError(path string, cause error) error {
	return NewAppError(CodeExtraction, path, join(ErrExtraction, cause))
}

// TransportError marks a failed round trip (dial, timeout, reset). Retryable.
func TransportError(cause error) error {
	return NewAppError(CodeTransport, "request failed", join(ErrTransport, cause))
}

// RemoteServiceError marks a non-success answer from the endpoint. Retryable.
func RemoteServiceError(status int, cause error) error {
	return NewAppError(CodeRemoteService, fmt.Sprintf("status %d", status), join(ErrRemoteService, cause))
}

// TerminalError wraps the last attempt's error once the retry budget is spent.
func TerminalError(attempts int, last error) error {
	return NewAppError(CodeTerminal, fmt.Sprintf("gave up after %d attempts", attempts), join(ErrTerminal, last))
}

// WriteError is fatal for the run.
func WriteError(path string, cause error) error {
	return NewAppError(CodeWrite, path, join(ErrWrite, cause))
}

// IsRetryable reports whether a completion error may succeed on another attempt.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrRemoteService)
}

func join(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}
