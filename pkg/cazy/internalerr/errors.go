package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrUnsupportedIDType = errors.New("unsupported id type")
	ErrModelLoad         = errors.New("model load failed")
	ErrScoring           = errors.New("scoring failed")
	ErrMisaligned        = errors.New("corpus misaligned with documents")
)
