package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	convertcmd "github.com/LegacyCodeHQ/runconvert/cmd/convert"
	graphcmd "github.com/LegacyCodeHQ/runconvert/cmd/graph"
	watchcmd "github.com/LegacyCodeHQ/runconvert/cmd/watch"
	"github.com/LegacyCodeHQ/runconvert/internal/app"

	"github.com/spf13/cobra"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// NewRootCommand returns the runconvert command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "runconvert",
		Short: "Convert dojo.provide/dojo.require modules to run() modules",
		Long: `runconvert rewrites a source tree written against the global
dojo.provide/dojo.require module system into modules registered with the
run() loader, each wrapped with an explicit dependency list.

Use 'runconvert --help' to see all available commands, or 'runconvert <command> --help'
for detailed information about a specific command.`,
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(convertcmd.NewCommand())
	rootCmd.AddCommand(graphcmd.NewCommand())
	rootCmd.AddCommand(watchcmd.NewCommand())

	rootCmd.Annotations = map[string]string{
		"buildDate": buildDate,
		"commit":    commit,
	}

	// Customize version template to show additional build info
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	rootCmd.PersistentFlags().String(app.ConfigFlag, "", "Config file (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().BoolP(app.VerboseFlag, "v", false, "Log every file and include timestamps")

	return rootCmd
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
