package attrs

import "errors"

// Errors returned by RunStore operations.
var (
	// ErrIndexOutOfRange indicates a location outside the store.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrLengthMismatch indicates two stores describing texts of different length.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrInvalidRange indicates a reversed range or one extending past the store.
	ErrInvalidRange = errors.New("invalid range")
)
