package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/LegacyCodeHQ/runconvert/pipeline"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 300 * time.Millisecond

var skippedDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
}

// watchAndConvert reconverts files below the mapper's source root as they
// change, until ctx is done. Changes are batched; each batch is converted
// serially on this goroutine. Events below the destination root are the
// watcher's own output and are ignored.
func watchAndConvert(ctx context.Context, runner *pipeline.Runner, mapper pipeline.PathMapper, logger *log.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, mapper, mapper.SourceRoot()); err != nil {
		return fmt.Errorf("failed to watch directories: %w", err)
	}

	pending := make(map[string]bool)
	var debounceTimer *time.Timer
	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if mapper.InDestination(event.Name) {
				continue
			}

			if event.Has(fsnotify.Create) {
				addIfDirectory(watcher, mapper, event.Name)
			}
			if !isRelevantChange(event) {
				continue
			}

			pending[event.Name] = true
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(debounceInterval)
			debounce = debounceTimer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "err", err)

		case <-debounce:
			debounce = nil
			if err := convertBatch(ctx, runner, mapper, pending, logger); err != nil {
				logger.Error("reconversion failed", "err", err)
			}
			pending = make(map[string]bool)
		}
	}
}

// convertBatch reconverts every changed path that is still a regular file,
// removes the output of paths that no longer exist, and rewrites the
// bootstrap when one of its fragments changed.
func convertBatch(ctx context.Context, runner *pipeline.Runner, mapper pipeline.PathMapper, changed map[string]bool, logger *log.Logger) error {
	paths := make([]string, 0, len(changed))
	for path := range changed {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	bootstrap := runner.Options().Bootstrap
	rewriteBootstrap := false
	for _, path := range paths {
		if mapper.InDestination(path) {
			continue
		}

		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			if err := runner.RemoveOutput(mapper, path); err != nil {
				return err
			}
			logger.Info("removed", "file", path)
			continue
		}
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		outcome, err := runner.ProcessFile(ctx, mapper, path)
		if err != nil {
			return err
		}
		logger.Info("updated", "file", path, "outcome", outcome)

		if rel, err := mapper.Rel(path); err == nil && bootstrap.IsFragment(rel) {
			rewriteBootstrap = true
		}
	}

	if rewriteBootstrap {
		return runner.WriteBootstrap(mapper.DestinationRoot())
	}
	return nil
}

// isRelevantChange reports events that change a file's content or existence.
// A rename is seen as a removal of the old name and a creation of the new one.
func isRelevantChange(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func addWatchDirs(watcher *fsnotify.Watcher, mapper pipeline.PathMapper, root string) error {
	return addWatchDirsWithAdder(root, mapper.InDestination, watcher.Add)
}

// addWatchDirsWithAdder registers root and every directory below it that
// skip does not exclude. Directories that vanish during the walk are ignored.
func addWatchDirsWithAdder(root string, skip func(string) bool, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (skippedDirs[d.Name()] || skip(path)) {
			return filepath.SkipDir
		}
		if err := add(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
}

func addIfDirectory(watcher *fsnotify.Watcher, mapper pipeline.PathMapper, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		_ = addWatchDirs(watcher, mapper, path)
	}
}
