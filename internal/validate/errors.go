package validate

import "errors"

// Common errors for validation.
var (
	// ErrInvalidData is returned by Structure for malformed linear data.
	ErrInvalidData = errors.New("invalid document data")

	// ErrInvalidTransaction is returned by TransactionFor for a
	// transaction that cannot apply.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrInvalidInterchange is returned by Interchange for raw JSON that
	// does not follow the interchange format.
	ErrInvalidInterchange = errors.New("invalid interchange document")
)
