package convert

import "errors"

var (
	// ErrParse is returned when a file is not syntactically valid JavaScript.
	ErrParse = errors.New("failed to parse JavaScript source")

	// ErrBoundaryNotFound is returned when a provide declaration seen while
	// scanning cannot be located again in the original file text.
	ErrBoundaryNotFound = errors.New("provide declaration not found in source")
)
