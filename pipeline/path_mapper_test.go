package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathMapper_Map(t *testing.T) {
	mapper := NewPathMapper(filepath.FromSlash("release/dojo/"), filepath.FromSlash("out/rundojo/"))

	got, err := mapper.Map(filepath.FromSlash("release/dojo/dijit/form/Button.js"))

	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("out/rundojo/dijit/form/Button.js"), got)
}

func TestPathMapper_RejectsPathsOutsideRoot(t *testing.T) {
	mapper := NewPathMapper("release", "out")

	for _, path := range []string{"other/a.js", "release/../other/a.js", ".."} {
		_, err := mapper.Map(filepath.FromSlash(path))
		assert.ErrorIs(t, err, ErrOutsideRoot, path)
	}
}

func TestPathMapper_InDestination(t *testing.T) {
	nested := NewPathMapper("src", filepath.FromSlash("src/out/"))
	tests := []struct {
		path string
		want bool
	}{
		{path: "src/out/a/m.js", want: true},
		{path: "src/out", want: true},
		{path: "src/a/m.js", want: false},
		{path: "src/outside/m.js", want: false},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, nested.InDestination(filepath.FromSlash(tc.path)))
		})
	}

	assert.False(t, NewPathMapper("src", "src").InDestination(filepath.FromSlash("src/a.js")))
}

func TestPathMapper_RejectsEmptyPath(t *testing.T) {
	_, err := NewPathMapper("release", "out").Map("")

	assert.Error(t, err)
}
