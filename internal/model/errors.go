package model

import (
	"errors"
	"fmt"
)

// Error kinds returned by the item model and the store. Callers match them
// with errors.Is; the wrapped message names the id, field or template.
var (
	ErrValidation   = errors.New("invalid item")
	ErrPrecondition = errors.New("precondition failed")
	ErrNotFound     = errors.New("not found")
	ErrQuery        = errors.New("query failed")
	ErrStoreIO      = errors.New("store unavailable")
)

// Validationf returns an ErrValidation with a formatted reason
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Preconditionf returns an ErrPrecondition with a formatted reason
func Preconditionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}

// NotFoundf returns an ErrNotFound with a formatted reason
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
