// Package convert rewrites files written against a global provide/require
// module system into loader registration calls with explicit dependency
// lists.
package convert

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Options configure a Converter.
type Options struct {
	Syntax Syntax
	// LoaderScript is prepended to converted files whose name matches
	// LoaderTarget. Nothing is prepended when either is unset.
	LoaderScript []byte
	LoaderTarget *regexp.Regexp
}

// Converter converts single files. It holds no per-file state and may be
// reused for any number of files.
type Converter struct {
	syntax       Syntax
	patterns     *patterns
	loaderScript []byte
	loaderTarget *regexp.Regexp
}

// New returns a Converter for opts.
func New(opts Options) (*Converter, error) {
	if err := opts.Syntax.Validate(); err != nil {
		return nil, fmt.Errorf("invalid syntax: %w", err)
	}
	return &Converter{
		syntax:       opts.Syntax,
		patterns:     compilePatterns(opts.Syntax),
		loaderScript: opts.LoaderScript,
		loaderTarget: opts.LoaderTarget,
	}, nil
}

// Dependencies returns the modules declared by src, ignoring comments.
func (c *Converter) Dependencies(ctx context.Context, src []byte) (FileDependencySet, error) {
	normalized, err := Normalize(ctx, src)
	if err != nil {
		return FileDependencySet{}, err
	}
	return c.Scan(normalized), nil
}

// StripRequires removes every require declaration from text.
func (c *Converter) StripRequires(text string) string {
	return c.patterns.require.ReplaceAllString(text, "")
}

// Convert rewrites src, the content of fileName. Files that declare no module
// are returned unchanged. Each module segment is wrapped in a registration
// call; files declaring several modules are bracketed by pause and resume
// calls so the loader does not fetch modules the file is about to register.
func (c *Converter) Convert(ctx context.Context, fileName string, src []byte) ([]byte, error) {
	deps, err := c.Dependencies(ctx, src)
	if err != nil {
		return nil, err
	}
	if len(deps.Modules) == 0 {
		return src, nil
	}

	text := c.StripRequires(string(src))
	bounds, err := c.Split(text, deps)
	if err != nil {
		return nil, err
	}

	var out strings.Builder
	out.Grow(len(text) + 256*len(bounds))

	if c.loaderTarget != nil && len(c.loaderScript) > 0 && c.loaderTarget.MatchString(fileName) {
		out.Write(c.loaderScript)
	}

	multi := len(deps.Modules) > 1
	if multi {
		out.WriteString(c.pauseCall())
	}

	var block *WrapBlock
	cursor := 0
	for i, bound := range bounds {
		out.WriteString(c.Emit(block, text[bound.Start:bound.MatchStart]))
		block = newWrapBlock(deps.Modules[i], deps, text[bound.MatchStart:bound.MatchEnd])
		cursor = bound.MatchEnd
	}
	out.WriteString(c.Emit(block, text[cursor:]))

	if multi {
		out.WriteString(c.resumeCall())
	}

	return []byte(out.String()), nil
}

// ConvertSafe is Convert for batch use: on failure it returns src unchanged
// together with the error.
func (c *Converter) ConvertSafe(ctx context.Context, fileName string, src []byte) ([]byte, error) {
	out, err := c.Convert(ctx, fileName, src)
	if err != nil {
		return src, fmt.Errorf("could not convert %s: %w", fileName, err)
	}
	return out, nil
}
