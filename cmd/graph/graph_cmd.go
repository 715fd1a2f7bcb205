package graph

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/LegacyCodeHQ/runconvert/internal/app"
	"github.com/LegacyCodeHQ/runconvert/modgraph"

	"github.com/spf13/cobra"
)

type graphOptions struct {
	format string
}

// NewCommand returns a new graph command instance.
func NewCommand() *cobra.Command {
	opts := &graphOptions{
		format: OutputFormatDOT.String(),
	}

	cmd := &cobra.Command{
		Use:   "graph <sourceRoot>",
		Short: "Show the module dependency graph of a source tree",
		Long: `Scan the provide and require declarations below sourceRoot and print the
module dependency graph. Modules required but not provided by any file are
marked as external.

Output formats:
  - dot: Graphviz DOT format for visualization (default)
  - json: modules with their file and requires
  - order: one module per line, dependencies first

Examples:
  runconvert graph release/dojo
  runconvert graph release/dojo -f order`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format,
		fmt.Sprintf("Output format (%s)", SupportedFormats()))

	return cmd
}

func runGraph(cmd *cobra.Command, root string, opts *graphOptions) error {
	format, ok := ParseOutputFormat(opts.format)
	if !ok {
		return fmt.Errorf("unknown format: %s (valid options: %s)", opts.format, SupportedFormats())
	}

	a, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}

	g, err := modgraph.Build(cmd.Context(), a.FS, a.Settings.PipelineOptions(), a.Converter, root, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to build module graph: %w", err)
	}

	out := cmd.OutOrStdout()
	switch format {
	case OutputFormatJSON:
		return writeJSON(out, g)
	case OutputFormatOrder:
		order, err := g.LoadOrder()
		if err != nil {
			return err
		}
		for _, module := range order {
			if _, err := fmt.Fprintln(out, module); err != nil {
				return err
			}
		}
		return nil
	default:
		return g.WriteDOT(out)
	}
}

type jsonModule struct {
	Name     string   `json:"name"`
	File     string   `json:"file"`
	Requires []string `json:"requires"`
}

type jsonGraph struct {
	Modules  []jsonModule `json:"modules"`
	External []string     `json:"external"`
}

func writeJSON(w io.Writer, g *modgraph.ModuleGraph) error {
	doc := jsonGraph{
		Modules:  []jsonModule{},
		External: g.External(),
	}
	for _, name := range g.Modules() {
		file, _ := g.File(name)
		requires := g.Requires(name)
		if requires == nil {
			requires = []string{}
		}
		doc.Modules = append(doc.Modules, jsonModule{Name: name, File: file, Requires: requires})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
