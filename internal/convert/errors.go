package convert

import "errors"

// Common errors for conversions.
var (
	// ErrUnbalanced is returned when markers do not pair up: a close
	// without a matching open, a close of the wrong type, or an element
	// left open at the end.
	ErrUnbalanced = errors.New("unbalanced structural markers")

	// ErrMalformedTree is returned when a tree node mixes text and
	// structural roles or is otherwise unusable.
	ErrMalformedTree = errors.New("malformed element tree")
)
