// Package app wires settings, logging and the converter for the CLI
// commands.
package app

import (
	"fmt"
	"io"

	"github.com/LegacyCodeHQ/runconvert/convert"
	"github.com/LegacyCodeHQ/runconvert/internal/config"
	"github.com/LegacyCodeHQ/runconvert/pipeline"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Flag names registered on the root command.
const (
	ConfigFlag  = "config"
	VerboseFlag = "verbose"
)

// App holds what a command needs to convert files.
type App struct {
	Settings  config.Settings
	Logger    *log.Logger
	FS        pipeline.FileSystem
	Converter *convert.Converter
	Runner    *pipeline.Runner
}

// FromCommand builds an App from the persistent flags visible to cmd. Log
// output goes to the command's error stream.
func FromCommand(cmd *cobra.Command) (*App, error) {
	logger := NewLogger(cmd.ErrOrStderr(), boolFlag(cmd, VerboseFlag))

	settings, err := config.Load(stringFlag(cmd, ConfigFlag))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	opts, err := settings.ConverterOptions()
	if err != nil {
		return nil, err
	}
	converter, err := convert.New(opts)
	if err != nil {
		return nil, err
	}

	fsys := pipeline.OSFileSystem{}
	return &App{
		Settings:  settings,
		Logger:    logger,
		FS:        fsys,
		Converter: converter,
		Runner:    pipeline.NewRunner(fsys, converter, settings.PipelineOptions(), logger),
	}, nil
}

// NewLogger returns the runconvert logger. Verbose output includes debug
// messages and timestamps.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          config.AppName,
		ReportTimestamp: verbose,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func stringFlag(cmd *cobra.Command, name string) string {
	if f := cmd.Flag(name); f != nil {
		return f.Value.String()
	}
	return ""
}

func boolFlag(cmd *cobra.Command, name string) bool {
	if f := cmd.Flag(name); f != nil {
		return f.Value.String() == "true"
	}
	return false
}
