// Package apperr is the error vocabulary shared by the repo, service and
// handler layers. Handlers map these onto HTTP statuses; nothing below the
// handler layer knows about HTTP.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals that the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict signals a lost race against a uniqueness constraint.
	ErrConflict = errors.New("conflict")
)

// ValidationError rejects malformed input before any store mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StoreError wraps an underlying persistence failure; callers may retry.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return "store unavailable: " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// Store wraps err as a StoreError unless it is already one of the typed
// errors above.
func Store(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || IsValidation(err) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Err: err}
}
