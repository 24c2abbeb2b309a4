package helpers

import (
	"context"
	"errors"
	"fmt"

	"github.com/flowforge/reflow-engine/internal/core"
)

// ErrTimeout is the timeout sentinel matched by TimeoutError.Is and
// IsTimeoutError.
var ErrTimeout = errors.New("operation timed out")

// TimeoutError represents a timeout error with additional context.
type TimeoutError struct {
	Operation string
	Duration  string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation %s timed out after %s", e.Operation, e.Duration)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// NewTimeoutError creates a new timeout error.
func NewTimeoutError(operation, duration string) error {
	return &TimeoutError{Operation: operation, Duration: duration}
}

// CliError is a structured error with a machine-readable Code, suitable for
// serializing into a JSON error response.
type CliError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *CliError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewCliError builds a CliError, with an optional details string.
func NewCliError(code, message string, details ...string) *CliError {
	d := ""
	if len(details) > 0 {
		d = details[0]
	}
	return &CliError{Code: code, Message: message, Details: d}
}

// IsTimeoutError reports whether err represents a timeout, by sentinel or
// by context deadline.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout)
}

// CategorizeError converts an error surfaced by the loader or the reflow
// driver into a structured CliError. A fatal *core.Error keeps its own
// Code; context cancellation and deadline errors get a dedicated code;
// anything else falls back to a generic internal error.
func CategorizeError(err error) *CliError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.Canceled):
		return NewCliError("OPERATION_CANCELED", "operation was canceled")
	case IsTimeoutError(err):
		return NewCliError("OPERATION_TIMEOUT", "operation timed out")
	}
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		return NewCliError(coreErr.Code, coreErr.Message)
	}
	return NewCliError("INTERNAL_ERROR", err.Error())
}
