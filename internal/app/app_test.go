package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commandWithFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String(ConfigFlag, "", "")
	cmd.Flags().Bool(VerboseFlag, false, "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestFromCommand_Defaults(t *testing.T) {
	a, err := FromCommand(commandWithFlags(t))

	require.NoError(t, err)
	assert.NotNil(t, a.Converter)
	assert.Equal(t, "run", a.Runner.Options().Bootstrap.Loader)
	assert.Equal(t, "dojo.js", a.Runner.Options().Bootstrap.Name)
}

func TestFromCommand_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runconvert.yaml")
	require.NoError(t, os.WriteFile(path, []byte("loader: define\n"), 0o644))

	a, err := FromCommand(commandWithFlags(t, "--config", path))

	require.NoError(t, err)
	assert.Equal(t, "define", a.Runner.Options().Bootstrap.Loader)
}

func TestFromCommand_BadConfig(t *testing.T) {
	_, err := FromCommand(commandWithFlags(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")))

	assert.Error(t, err)
}

func TestFromCommand_WithoutFlags(t *testing.T) {
	_, err := FromCommand(&cobra.Command{Use: "bare"})

	assert.NoError(t, err)
}

func TestNewLogger_VerboseEnablesDebug(t *testing.T) {
	var quiet, verbose bytes.Buffer

	NewLogger(&quiet, false).Debug("hidden")
	NewLogger(&verbose, true).Debug("shown")

	assert.Empty(t, quiet.String())
	assert.Contains(t, verbose.String(), "shown")
	assert.Contains(t, verbose.String(), "runconvert")
}
