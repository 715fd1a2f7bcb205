// Package pipeline drives the converter over a source tree and mirrors the
// result into a destination tree.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/LegacyCodeHQ/runconvert/convert"

	"github.com/charmbracelet/log"
)

// Outcome is what happened to one file.
type Outcome int

const (
	// OutcomeCopied means the file was not eligible and was copied as is.
	OutcomeCopied Outcome = iota
	// OutcomeConverted means the converted content was written.
	OutcomeConverted
	// OutcomeFailed means conversion failed and the original was written.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCopied:
		return "copied"
	case OutcomeConverted:
		return "converted"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Summary counts the outcomes of a run.
type Summary struct {
	Converted int
	Copied    int
	Failed    int
	Duration  time.Duration
}

// Files returns the number of files processed.
func (s Summary) Files() int {
	return s.Converted + s.Copied + s.Failed
}

func (s *Summary) add(o Outcome) {
	switch o {
	case OutcomeCopied:
		s.Copied++
	case OutcomeConverted:
		s.Converted++
	case OutcomeFailed:
		s.Failed++
	}
}

// Runner converts trees one file at a time.
type Runner struct {
	fs        FileSystem
	converter *convert.Converter
	opts      Options
	logger    *log.Logger
}

// NewRunner returns a Runner. A nil logger discards all messages.
func NewRunner(fs FileSystem, converter *convert.Converter, opts Options, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		fs:        fs,
		converter: converter,
		opts:      opts,
		logger:    logger,
	}
}

// Options returns the options the runner was built with.
func (r *Runner) Options() Options {
	return r.opts
}

// Run converts every file below srcRoot into the mirrored path below
// dstRoot, then writes the bootstrap file. A file that fails to convert is
// logged and written unchanged, and so is a bootstrap fragment missing from
// the tree. Files below dstRoot are skipped when dstRoot is inside srcRoot.
// Run returns ErrNoFiles, without writing anything, when srcRoot yields no
// files. The context is checked between files.
func (r *Runner) Run(ctx context.Context, srcRoot, dstRoot string) (Summary, error) {
	start := time.Now()
	mapper := NewPathMapper(srcRoot, dstRoot)

	files, err := r.fs.ListFiles(mapper.SourceRoot())
	if err != nil {
		return Summary{}, fmt.Errorf("failed to list files: %w", err)
	}
	files = slices.DeleteFunc(files, mapper.InDestination)
	if len(files) == 0 {
		return Summary{}, fmt.Errorf("%w in directory: %s", ErrNoFiles, srcRoot)
	}

	var summary Summary
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcome, err := r.ProcessFile(ctx, mapper, file)
		if err != nil {
			return summary, err
		}
		summary.add(outcome)
	}

	err = r.WriteBootstrap(mapper.DestinationRoot())
	if errors.Is(err, ErrBootstrapFragment) {
		r.logger.Error("skipping bootstrap", "err", err)
	} else if err != nil {
		return summary, err
	}

	summary.Duration = time.Since(start)
	r.logger.Info(fmt.Sprintf("Convert time: %.3f seconds", summary.Duration.Seconds()),
		"converted", summary.Converted, "copied", summary.Copied, "failed", summary.Failed)
	return summary, nil
}

// ProcessFile converts or copies a single source file to its mirrored
// destination. Only failures to read the source or write the destination
// are returned; conversion failures are logged and reported as
// OutcomeFailed.
func (r *Runner) ProcessFile(ctx context.Context, mapper PathMapper, path string) (Outcome, error) {
	dst, err := mapper.Map(path)
	if err != nil {
		return OutcomeFailed, err
	}

	if !r.opts.Eligible(path) {
		if err := r.fs.CopyFile(path, dst); err != nil {
			return OutcomeFailed, fmt.Errorf("failed to copy %s: %w", path, err)
		}
		r.logger.Debug("copied", "file", path)
		return OutcomeCopied, nil
	}

	src, err := r.fs.ReadFile(path)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to read %s: %w", path, err)
	}

	outcome := OutcomeConverted
	out, err := r.converter.ConvertSafe(ctx, path, src)
	if err != nil {
		r.logger.Error("could not convert, keeping original", "file", path, "err", err)
		outcome = OutcomeFailed
	}

	if err := r.fs.WriteFile(dst, out); err != nil {
		return OutcomeFailed, fmt.Errorf("failed to write %s: %w", dst, err)
	}
	r.logger.Debug("converted", "file", path)
	return outcome, nil
}

// ConvertFile converts one file without writing anything. Like ProcessFile
// it logs a conversion failure and returns the original content; only a
// read failure is returned.
func (r *Runner) ConvertFile(ctx context.Context, path string) ([]byte, error) {
	src, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	out, err := r.converter.ConvertSafe(ctx, path, src)
	if err != nil {
		r.logger.Error("could not convert, keeping original", "file", path, "err", err)
	}
	return out, nil
}

// RemoveOutput deletes the destination mirroring path, for sources that no
// longer exist.
func (r *Runner) RemoveOutput(mapper PathMapper, path string) error {
	dst, err := mapper.Map(path)
	if err != nil {
		return err
	}
	if err := r.fs.Remove(dst); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dst, err)
	}
	r.logger.Debug("removed", "file", dst)
	return nil
}
