// Package apperr defines the error taxonomy shared across stores, services,
// and handlers. Callers classify failures with errors.Is.
package apperr

import "errors"

var (
	// ErrValidation marks rejected input (blank name, non-positive quantity).
	// The operation is left un-applied.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound marks a missing product, list, or item reference.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness violation on insert. The product
	// resolver handles it internally (re-read by normalized name); it is
	// not expected to reach a handler.
	ErrConflict = errors.New("conflict")

	// ErrInvalidState marks a mutation against a completed list.
	ErrInvalidState = errors.New("invalid state")

	// ErrTransport marks a store/database failure. Write paths surface it
	// as retryable; suggestion reads degrade to empty results instead.
	ErrTransport = errors.New("storage unavailable")
)
