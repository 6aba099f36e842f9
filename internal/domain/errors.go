package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the requested record does not exist in the store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails field-level validation
// (malformed date, inverted range, non-positive capacity, ...).
// It is always raised before a write transaction opens.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrOwnership is returned when a record exists but belongs to a different trip
// than the caller expected. Nothing is mutated when it is returned.
// Handlers should map this to HTTP 403.
var ErrOwnership = errors.New("ownership mismatch")

// ErrConflict is returned when a write would violate a uniqueness rule or
// overlap an existing room assignment. Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrStorage marks failures of the underlying storage engine.
var ErrStorage = errors.New("storage error")

// ValidationError describes one rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

// Validationf builds a *ValidationError for field with a formatted reason.
func Validationf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError names the entity kind and id that could not be found.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// OwnershipError reports that an entity's stored trip differs from the one
// the caller supplied.
type OwnershipError struct {
	Entity         string
	ID             string
	ExpectedTripID string
	ActualTripID   string
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("%s %q belongs to trip %q, not %q", e.Entity, e.ID, e.ActualTripID, e.ExpectedTripID)
}

func (e *OwnershipError) Unwrap() error { return ErrOwnership }

// StorageError wraps an engine failure with the operation and record it hit.
// errors.Is matches both ErrStorage and the wrapped engine error.
type StorageError struct {
	Op     string
	Entity string
	ID     string
	Err    error
}

func (e *StorageError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Entity, e.Err)
	}
	return fmt.Sprintf("storage error: %s %s %q: %v", e.Op, e.Entity, e.ID, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }
