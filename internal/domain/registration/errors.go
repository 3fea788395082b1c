package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the registration and statistics services.
// Callers classify with errors.Is; wrapped errors keep their kind.
var (
	ErrNotFound              = errors.New("not found")
	ErrCapacityExceeded      = errors.New("session is full")
	ErrDuplicateRegistration = errors.New("student is already registered for this session")
	ErrBusy                  = errors.New("resource busy, retry later")
	ErrValidation            = errors.New("validation failed")
)

// NotFoundError names the entity that was missing
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	if e.ID > 0 {
		return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Entity)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFound returns a NotFoundError for entity with the given id
func NewNotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError carries a user-facing reason for malformed input
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsRetriable reports whether the caller may resubmit the same operation
func IsRetriable(err error) bool {
	return errors.Is(err, ErrBusy)
}
