package document

import "errors"

// Errors returned by document operations.
var (
	// ErrContract indicates a transaction inconsistent with the document it
	// was applied to, such as operations that do not consume the document's
	// exact length.
	ErrContract = errors.New("transaction violates document contract")
)
