package pipeline

import (
	"bytes"
	"fmt"
	"path/filepath"
)

// Bootstrap describes the file assembled from already converted fragments
// once a run completes.
type Bootstrap struct {
	// Name is the output path relative to the destination root. An empty
	// name disables the bootstrap.
	Name   string
	Header string
	// Fragments are slash-separated paths relative to the destination root.
	Fragments []string
	// Loader and Aliases produce the trailer registering each alias as a
	// top-level module.
	Loader  string
	Aliases []string
}

// Trailer registers every alias with the loader, e.g.
// run("dojo", function(){return dojo;});
func (b Bootstrap) Trailer() string {
	var buf bytes.Buffer
	for _, alias := range b.Aliases {
		fmt.Fprintf(&buf, `%s("%s", function(){return %s;});`, b.Loader, alias, alias)
	}
	return buf.String()
}

// WriteBootstrap assembles the bootstrap file below dstRoot.
func (r *Runner) WriteBootstrap(dstRoot string) error {
	b := r.opts.Bootstrap
	if b.Name == "" {
		return nil
	}

	var buf bytes.Buffer
	buf.WriteString(b.Header)
	for _, fragment := range b.Fragments {
		content, err := r.fs.ReadFile(filepath.Join(dstRoot, filepath.FromSlash(fragment)))
		if err != nil {
			return fmt.Errorf("%w %s: %w", ErrBootstrapFragment, fragment, err)
		}
		buf.Write(content)
	}
	buf.WriteString(b.Trailer())

	target := filepath.Join(dstRoot, filepath.FromSlash(b.Name))
	if err := r.fs.WriteFile(target, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write bootstrap %s: %w", target, err)
	}
	r.logger.Debug("wrote bootstrap", "file", target, "fragments", len(b.Fragments))
	return nil
}

// IsFragment reports whether rel, relative to the destination root, is one
// of the bootstrap fragments.
func (b Bootstrap) IsFragment(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, fragment := range b.Fragments {
		if fragment == rel {
			return true
		}
	}
	return false
}
