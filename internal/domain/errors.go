package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrResourceNotFound signals a missing catalog resource.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrUserNotFound signals a missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrAlreadyExists signals a uniqueness violation.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput signals a request that failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStoreUnavailable signals that a backing store could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrAIUnavailable signals that the generative AI collaborator is not usable.
	ErrAIUnavailable = errors.New("ai collaborator unavailable")
	// ErrEmbeddingProviderError signals a learned embedding model failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// ValidationError carries the offending field alongside ErrInvalidInput.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
