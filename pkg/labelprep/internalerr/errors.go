package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrMissingCredential = errors.New("missing credential")
	ErrSourceUnavailable = errors.New("record source unavailable")
	ErrOutputLocked      = errors.New("output directory locked")
)
