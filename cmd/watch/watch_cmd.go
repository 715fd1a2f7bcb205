package watch

import (
	"github.com/LegacyCodeHQ/runconvert/internal/app"
	"github.com/LegacyCodeHQ/runconvert/pipeline"

	"github.com/spf13/cobra"
)

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <sourceRoot> <destRoot>",
		Short: "Convert a source tree, then reconvert files as they change",
		Long: `Convert sourceRoot into destRoot like 'runconvert convert', then keep
watching sourceRoot and reconvert each file that is written or created.
The bootstrap file is rebuilt when one of its fragments changes.

Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(2),
		RunE: runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if _, err := a.Runner.Run(ctx, args[0], args[1]); err != nil {
		a.Logger.Error(err.Error())
		return err
	}

	mapper := pipeline.NewPathMapper(args[0], args[1])
	a.Logger.Info("watching for changes", "dir", mapper.SourceRoot())
	return watchAndConvert(ctx, a.Runner, mapper, a.Logger)
}
