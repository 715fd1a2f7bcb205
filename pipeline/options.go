package pipeline

import (
	"path/filepath"
	"strings"
)

// Options control which files are converted and how the bootstrap file is
// assembled.
type Options struct {
	// Extensions of files to convert, including the dot.
	Extensions []string
	// SkipDirs are directory names whose files are copied unconverted.
	SkipDirs  []string
	Bootstrap Bootstrap
}

// Eligible reports whether path should be converted rather than copied.
func (o Options) Eligible(path string) bool {
	ext := filepath.Ext(path)
	matched := false
	for _, candidate := range o.Extensions {
		if ext == candidate {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	dirs := strings.Split(filepath.ToSlash(filepath.Dir(path)), "/")
	for _, dir := range dirs {
		for _, skipped := range o.SkipDirs {
			if dir == skipped {
				return false
			}
		}
	}
	return true
}
