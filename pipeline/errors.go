package pipeline

import "errors"

var (
	// ErrNoFiles is returned when the source root yields no files.
	ErrNoFiles = errors.New("no files to convert")

	// ErrOutsideRoot is returned for a path that is not below the source root.
	ErrOutsideRoot = errors.New("path is outside the source root")

	// ErrBootstrapFragment is returned when a bootstrap fragment cannot be
	// read from the destination tree.
	ErrBootstrapFragment = errors.New("failed to read bootstrap fragment")
)
