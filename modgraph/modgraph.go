// Package modgraph builds the module dependency graph of a legacy source
// tree from its provide and require declarations.
package modgraph

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/LegacyCodeHQ/runconvert/convert"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

var (
	// ErrDuplicateModule is returned when two files provide the same module.
	ErrDuplicateModule = errors.New("module provided more than once")

	// ErrCycle is returned when no load order exists.
	ErrCycle = errors.New("module dependencies contain a cycle")
)

// ModuleGraph maps provided modules to the files declaring them and to the
// modules they require.
type ModuleGraph struct {
	files    map[string]string
	requires map[string][]string
}

// New returns an empty graph.
func New() *ModuleGraph {
	return &ModuleGraph{
		files:    make(map[string]string),
		requires: make(map[string][]string),
	}
}

// AddFile records every module declared by file. Intra-file requires are
// kept since they still order modules.
func (g *ModuleGraph) AddFile(file string, deps convert.FileDependencySet) error {
	for _, module := range deps.Modules {
		if existing, ok := g.files[module.Provide]; ok {
			return fmt.Errorf("%w: %s in %s and %s", ErrDuplicateModule, module.Provide, existing, file)
		}
		g.files[module.Provide] = file
		g.requires[module.Provide] = append([]string(nil), module.Requires...)
	}
	return nil
}

// Modules returns the provided module names, sorted.
func (g *ModuleGraph) Modules() []string {
	modules := make([]string, 0, len(g.files))
	for module := range g.files {
		modules = append(modules, module)
	}
	sort.Strings(modules)
	return modules
}

// File returns the file that provides module.
func (g *ModuleGraph) File(module string) (string, bool) {
	file, ok := g.files[module]
	return file, ok
}

// Requires returns the modules required by module in declaration order.
func (g *ModuleGraph) Requires(module string) []string {
	return append([]string(nil), g.requires[module]...)
}

// External returns the required modules no recorded file provides, sorted.
func (g *ModuleGraph) External() []string {
	seen := make(map[string]bool)
	for _, reqs := range g.requires {
		for _, req := range reqs {
			if _, ok := g.files[req]; !ok {
				seen[req] = true
			}
		}
	}

	external := make([]string, 0, len(seen))
	for module := range seen {
		external = append(external, module)
	}
	sort.Strings(external)
	return external
}

// build materializes the graph with an edge from each module to every module
// it requires. External modules are drawn dashed.
func (g *ModuleGraph) build() (graph.Graph[string, string], error) {
	dg := graph.New(graph.StringHash, graph.Directed())

	for _, module := range g.Modules() {
		if err := dg.AddVertex(module); err != nil {
			return nil, fmt.Errorf("failed to add module %s: %w", module, err)
		}
	}
	for _, module := range g.External() {
		if err := dg.AddVertex(module, graph.VertexAttribute("style", "dashed")); err != nil {
			return nil, fmt.Errorf("failed to add module %s: %w", module, err)
		}
	}

	for _, module := range g.Modules() {
		for _, req := range g.requires[module] {
			if req == module {
				continue
			}
			err := dg.AddEdge(module, req)
			if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("failed to add dependency %s -> %s: %w", module, req, err)
			}
		}
	}

	return dg, nil
}

// LoadOrder returns every module, external ones included, ordered so that
// each module comes after the modules it requires. The order is stable for a
// given graph.
func (g *ModuleGraph) LoadOrder() ([]string, error) {
	dg, err := g.build()
	if err != nil {
		return nil, err
	}

	order, err := graph.StableTopologicalSort(dg, func(a, b string) bool { return a > b })
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCycle, err)
	}

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// WriteDOT renders the graph in Graphviz DOT format.
func (g *ModuleGraph) WriteDOT(w io.Writer) error {
	dg, err := g.build()
	if err != nil {
		return err
	}
	return draw.DOT(dg, w)
}
