package engine

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed caller input. It is always returned
// before the store is touched, so a validation failure never leaves a
// partial write.
type ValidationError struct {
	// Field names the offending argument (hour, day, base, range, ...).
	Field string

	// Message is a human-readable description.
	Message string

	// Err is the underlying sentinel (daykey.ErrInvalidDay, codec.ErrInvalidBase, ...).
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("invalid %s: %s: %v", e.Field, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	default:
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}
}

// Unwrap exposes the underlying sentinel to errors.Is.
func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError reports that no record exists at Key.
type NotFoundError struct {
	Key string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no record at %s", e.Key)
}

// StoreError wraps a failure from the backing store. The engine never
// retries; the caller decides.
type StoreError struct {
	// Op is the store operation that failed (get, put, delete_range).
	Op string

	// Key is the key or prefix involved.
	Key string

	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the driver error.
func (e *StoreError) Unwrap() error { return e.Err }

// DecodeError reports stored symbols that do not decode under the base a
// reconstruction asked for, typically hours recorded with a different base.
// The caller's arguments were valid; the stored data is not.
type DecodeError struct {
	Day  string
	Base int
	Err  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s as base %d: %v", e.Day, e.Base, e.Err)
}

// Unwrap returns the codec error.
func (e *DecodeError) Unwrap() error { return e.Err }

// IsValidationError returns true if err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound returns true if err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsStoreError returns true if err is or wraps a StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// IsDecodeError returns true if err is or wraps a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

func invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}
