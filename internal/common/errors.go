package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// View controller errors: the command is not available in the current view
	// or the view has no draft/context bound to it.
	ErrInvalidTransition = errors.New("invalid view transition")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Sealed storage errors.
	ErrSealedData = errors.New("stored data is sealed")
)
