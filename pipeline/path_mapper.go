package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PathMapper mirrors paths below a source root onto a destination root.
type PathMapper struct {
	srcRoot string
	dstRoot string
}

// NewPathMapper returns a mapper from srcRoot to dstRoot. Trailing
// separators are ignored.
func NewPathMapper(srcRoot, dstRoot string) PathMapper {
	return PathMapper{
		srcRoot: filepath.Clean(srcRoot),
		dstRoot: filepath.Clean(dstRoot),
	}
}

// SourceRoot returns the cleaned source root.
func (m PathMapper) SourceRoot() string {
	return m.srcRoot
}

// DestinationRoot returns the cleaned destination root.
func (m PathMapper) DestinationRoot() string {
	return m.dstRoot
}

// Rel returns path relative to the source root. Paths outside the root are
// rejected.
func (m PathMapper) Rel(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	rel, err := filepath.Rel(m.srcRoot, filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate path %q: %w", path, err)
	}
	if !below(rel) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, path)
	}
	return rel, nil
}

// InDestination reports whether path lies below the destination root. A
// source root that contains the destination lists earlier output as well;
// those paths must not be converted again. In-place conversion, with both
// roots equal, never reports a path.
func (m PathMapper) InDestination(path string) bool {
	if m.dstRoot == m.srcRoot {
		return false
	}
	rel, err := filepath.Rel(m.dstRoot, filepath.Clean(path))
	if err != nil {
		return false
	}
	return below(rel)
}

// below reports whether a path relative to some root stays inside it.
func below(rel string) bool {
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// Map returns the destination path mirroring path.
func (m PathMapper) Map(path string) (string, error) {
	rel, err := m.Rel(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(m.dstRoot, rel), nil
}
