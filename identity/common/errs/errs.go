// Package errs defines the error categories surfaced by the identity
// connectors: validation failures detected before any side effect, missing
// referenced entities, and wrapped lower-layer failures.
package errs

import (
	"errors"
	"fmt"
)

// NotFoundError reports a referenced document, verification method, service
// or profile that does not exist. The offending identifier is attached so
// callers can diagnose without re-deriving state.
type NotFoundError struct {
	Op string
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q not found", e.Op, e.ID)
}

// NewNotFound creates a NotFoundError for the given operation and identifier.
func NewNotFound(op, id string) error {
	return &NotFoundError{Op: op, ID: id}
}

// ValidationError reports malformed or missing required input. It is always
// raised before any vault or store side effect.
type ValidationError struct {
	Op     string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Op, e.Field, e.Reason)
}

// NewValidation creates a ValidationError for the given operation, field and
// reason.
func NewValidation(op, field, reason string) error {
	return &ValidationError{Op: op, Field: field, Reason: reason}
}

// OperationError wraps an unexpected lower-layer failure (vault, codec,
// signature mismatch) with the failing operation's name.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// NewOperation wraps err with the failing operation's name.
func NewOperation(op string, err error) error {
	return &OperationError{Op: op, Err: err}
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
