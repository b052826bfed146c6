package document

import "errors"

var (
	// ErrInvalidEdit indicates an edit that does not fit the current text.
	ErrInvalidEdit = errors.New("invalid edit")

	// ErrTreeMismatch indicates a grammar returned a tree whose length
	// differs from the text it parsed.
	ErrTreeMismatch = errors.New("tree length does not match text")
)
