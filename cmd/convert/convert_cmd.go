package convert

import (
	"errors"
	"fmt"

	"github.com/LegacyCodeHQ/runconvert/internal/app"
	"github.com/LegacyCodeHQ/runconvert/pipeline"

	"github.com/spf13/cobra"
)

// singleFileToken as the source root asks for a single file conversion when
// no directory by that name exists.
const singleFileToken = "convert"

// NewCommand returns a new convert command instance.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <sourceRoot> <destRoot>",
		Short: "Convert a source tree into run() modules",
		Long: `Convert every JavaScript file below sourceRoot and write the result to the
same relative path below destRoot. Other files, and files in nls/ directories,
are copied unchanged. A file that cannot be converted is logged and copied
unchanged. Once the tree is written, the bootstrap file is assembled from
its converted fragments.

To print the conversion of a single file instead:
  runconvert convert convert path/to/file.js

Examples:
  runconvert convert release/dojo rundojo
  runconvert convert --config runconvert.yaml src out`,
		Args: cobra.ExactArgs(2),
		RunE: runConvert,
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	a, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}

	srcRoot, dstRoot := args[0], args[1]
	summary, err := a.Runner.Run(cmd.Context(), srcRoot, dstRoot)
	if errors.Is(err, pipeline.ErrNoFiles) && srcRoot == singleFileToken {
		return printConversion(cmd, a, dstRoot)
	}
	if err != nil {
		a.Logger.Error(err.Error())
		return err
	}

	if summary.Failed > 0 {
		a.Logger.Warn("some files were copied unconverted", "failed", summary.Failed)
	}
	return nil
}

// printConversion prints the conversion of path. A file that cannot be
// converted is logged and printed unchanged.
func printConversion(cmd *cobra.Command, a *app.App, path string) error {
	out, err := a.Runner.ConvertFile(cmd.Context(), path)
	if err != nil {
		a.Logger.Error(err.Error())
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "\n\n%s", out)
	return err
}
