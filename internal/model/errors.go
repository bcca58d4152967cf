package model

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a referenced update or child row does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError carries one message per violated constraint so the API can
// report every failed rule, not just the first.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation error: " + strings.Join(e.Messages, "; ")
}

// NewValidationError builds a ValidationError from the given messages.
// Returns nil when there are no messages, so callers can do
// `if err := model.NewValidationError(msgs); err != nil { ... }` directly.
func NewValidationError(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	return &ValidationError{Messages: msgs}
}
