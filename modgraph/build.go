package modgraph

import (
	"context"
	"fmt"

	"github.com/LegacyCodeHQ/runconvert/convert"
	"github.com/LegacyCodeHQ/runconvert/pipeline"

	"github.com/charmbracelet/log"
)

// Build scans every eligible file below root. Files that fail to parse are
// logged and left out of the graph.
func Build(ctx context.Context, fsys pipeline.FileSystem, opts pipeline.Options, converter *convert.Converter, root string, logger *log.Logger) (*ModuleGraph, error) {
	files, err := fsys.ListFiles(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in directory: %s", pipeline.ErrNoFiles, root)
	}

	g := New()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !opts.Eligible(file) {
			continue
		}

		src, err := fsys.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		deps, err := converter.Dependencies(ctx, src)
		if err != nil {
			logger.Warn("skipping unparsable file", "file", file, "err", err)
			continue
		}
		if err := g.AddFile(file, deps); err != nil {
			return nil, err
		}
	}

	return g, nil
}
