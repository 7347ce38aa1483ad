package config

import "errors"

// Common errors for configuration handling.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNilReload     = errors.New("nil reload handler")
)
