package schema

import "errors"

// Common errors for schema operations.
var (
	// ErrAlreadyRegistered is returned when a name is registered twice.
	ErrAlreadyRegistered = errors.New("name already registered")

	// ErrInvalidSpec is returned when a spec fails validation.
	ErrInvalidSpec = errors.New("invalid spec")
)
