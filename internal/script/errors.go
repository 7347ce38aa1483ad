package script

import "errors"

// Common errors for script hosting.
var (
	ErrNilSurface = errors.New("nil surface")
	ErrHostClosed = errors.New("script host closed")
)
