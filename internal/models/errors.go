package models

import "errors"

// ErrNotFound is returned by services when a lookup misses. Handlers map it
// to 404 instead of treating it as a validation problem.
var ErrNotFound = errors.New("record not found")

// ValidationError is a domain invariant violation. Handlers map it to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}
