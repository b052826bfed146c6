package syntax

import "errors"

// Errors returned by tree lookups and validation.
var (
	// ErrIndexOutOfRange indicates an offset that no node in the tree covers.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrLengthMismatch indicates a node whose length differs from the sum of its children.
	ErrLengthMismatch = errors.New("node length does not match children")

	// ErrFrozen is the panic value cause when a frozen node is mutated.
	ErrFrozen = errors.New("node is frozen")
)
