package watch

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LegacyCodeHQ/runconvert/convert"
	"github.com/LegacyCodeHQ/runconvert/pipeline"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T, bootstrap pipeline.Bootstrap) *pipeline.Runner {
	t.Helper()
	converter, err := convert.New(convert.Options{Syntax: convert.DefaultSyntax()})
	require.NoError(t, err)
	opts := pipeline.Options{Extensions: []string{".js"}, SkipDirs: []string{"nls"}, Bootstrap: bootstrap}
	return pipeline.NewRunner(pipeline.OSFileSystem{}, converter, opts, log.New(&bytes.Buffer{}))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, pipeline.OSFileSystem{}.WriteFile(path, []byte(content)))
}

func noSkip(string) bool { return false }

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestAddWatchDirsIgnoresMissingDirectoriesFromAdder(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "missing-dir")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatalf("mkdir target: %v", err)
	}

	adder := func(path string) error {
		if path == target {
			return fs.ErrNotExist
		}
		return nil
	}

	if err := addWatchDirsWithAdder(root, noSkip, adder); err != nil {
		t.Fatalf("addWatchDirsWithAdder: %v", err)
	}
}

func TestAddWatchDirsSkipsVersionControlDirectories(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{".git/objects", "dojo/_base", "node_modules/x"} {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	var added []string
	adder := func(path string) error {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		added = append(added, filepath.ToSlash(rel))
		return nil
	}

	if err := addWatchDirsWithAdder(root, noSkip, adder); err != nil {
		t.Fatalf("addWatchDirsWithAdder: %v", err)
	}
	assert.Equal(t, []string{".", "dojo", "dojo/_base"}, added)
}

func TestAddWatchDirsSkipsDestination(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"my", "out/my"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o755))
	}
	mapper := pipeline.NewPathMapper(root, filepath.Join(root, "out"))

	var added []string
	adder := func(path string) error {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		added = append(added, filepath.ToSlash(rel))
		return nil
	}

	require.NoError(t, addWatchDirsWithAdder(root, mapper.InDestination, adder))
	assert.Equal(t, []string{".", "my"}, added)
}

func TestIsRelevantChange(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want bool
	}{
		{op: fsnotify.Write, want: true},
		{op: fsnotify.Create, want: true},
		{op: fsnotify.Remove, want: true},
		{op: fsnotify.Rename, want: true},
		{op: fsnotify.Chmod, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.op.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, isRelevantChange(fsnotify.Event{Name: "a.js", Op: tc.op}))
		})
	}
}

func TestConvertBatchRemovesOutputOfDeletedFiles(t *testing.T) {
	root := t.TempDir()
	src, dst := filepath.Join(root, "src"), filepath.Join(root, "dst")
	writeFile(t, filepath.Join(dst, "my", "Old.js"), "stale")
	writeFile(t, filepath.Join(dst, "my", "Kept.js"), "kept")
	runner := newTestRunner(t, pipeline.Bootstrap{})

	err := convertBatch(context.Background(), runner, pipeline.NewPathMapper(src, dst),
		map[string]bool{filepath.Join(src, "my", "Old.js"): true}, log.New(&bytes.Buffer{}))

	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dst, "my", "Old.js"))
	assert.FileExists(t, filepath.Join(dst, "my", "Kept.js"))
}

func TestConvertBatchIgnoresDestinationPaths(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(src, "out")
	output := filepath.Join(dst, "my", "A.js")
	writeFile(t, output, `run("my.A", [], function() {});`)
	runner := newTestRunner(t, pipeline.Bootstrap{})

	err := convertBatch(context.Background(), runner, pipeline.NewPathMapper(src, dst),
		map[string]bool{output: true}, log.New(&bytes.Buffer{}))

	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(dst, "out"))
	assert.Equal(t, `run("my.A", [], function() {});`, readFile(t, output))
}

func TestConvertBatchRewritesBootstrapForFragments(t *testing.T) {
	root := t.TempDir()
	src, dst := filepath.Join(root, "src"), filepath.Join(root, "dst")
	writeFile(t, filepath.Join(src, "boot.js"), "var dojo = {};")
	writeFile(t, filepath.Join(src, "my", "A.js"), `dojo.provide("my.A");`)
	runner := newTestRunner(t, pipeline.Bootstrap{
		Name:      "all.js",
		Fragments: []string{"boot.js"},
		Loader:    "run",
		Aliases:   []string{"dojo"},
	})
	mapper := pipeline.NewPathMapper(src, dst)

	changed := map[string]bool{
		filepath.Join(src, "boot.js"):     true,
		filepath.Join(src, "my", "A.js"): true,
		filepath.Join(src, "gone.js"):     true,
	}
	err := convertBatch(context.Background(), runner, mapper, changed, log.New(&bytes.Buffer{}))

	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dst, "my", "A.js")), `run("my.A", [`)
	assert.Equal(t, `var dojo = {};run("dojo", function(){return dojo;});`, readFile(t, filepath.Join(dst, "all.js")))
	assert.NoFileExists(t, filepath.Join(dst, "gone.js"))
}

func TestConvertBatchLeavesBootstrapAlone(t *testing.T) {
	root := t.TempDir()
	src, dst := filepath.Join(root, "src"), filepath.Join(root, "dst")
	writeFile(t, filepath.Join(src, "my", "A.js"), `dojo.provide("my.A");`)
	runner := newTestRunner(t, pipeline.Bootstrap{Name: "all.js", Fragments: []string{"boot.js"}})

	err := convertBatch(context.Background(), runner, pipeline.NewPathMapper(src, dst),
		map[string]bool{filepath.Join(src, "my", "A.js"): true}, log.New(&bytes.Buffer{}))

	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dst, "all.js"))
}

func TestWatchAndConvertReconvertsChangedFiles(t *testing.T) {
	root := t.TempDir()
	src, dst := filepath.Join(root, "src"), filepath.Join(root, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "my"), 0o755))
	runner := newTestRunner(t, pipeline.Bootstrap{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchAndConvert(ctx, runner, pipeline.NewPathMapper(src, dst), log.New(&bytes.Buffer{}))
	}()

	target := filepath.Join(dst, "my", "B.js")
	require.Eventually(t, func() bool {
		if err := os.WriteFile(filepath.Join(src, "my", "B.js"), []byte(`dojo.provide("my.B");`), 0o644); err != nil {
			return false
		}
		content, err := os.ReadFile(target)
		return err == nil && bytes.Contains(content, []byte(`run("my.B", [`))
	}, 10*time.Second, 500*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatchAndConvertIgnoresNestedDestination(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(src, "out")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "my"), 0o755))
	runner := newTestRunner(t, pipeline.Bootstrap{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchAndConvert(ctx, runner, pipeline.NewPathMapper(src, dst), log.New(&bytes.Buffer{}))
	}()

	target := filepath.Join(dst, "my", "C.js")
	require.Eventually(t, func() bool {
		if err := os.WriteFile(filepath.Join(src, "my", "C.js"), []byte(`dojo.provide("my.C");`), 0o644); err != nil {
			return false
		}
		_, err := os.Stat(target)
		return err == nil
	}, 10*time.Second, 500*time.Millisecond)

	// Give a feedback loop time to show up before stopping.
	time.Sleep(2 * debounceInterval)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}

	assert.NoDirExists(t, filepath.Join(dst, "out"))
	assert.Equal(t, 1, bytes.Count([]byte(readFile(t, target)), []byte(`run("my.C"`)))
}
