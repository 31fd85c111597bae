package builder

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/assetgraph/internal/assetkey"
	"github.com/specialistvlad/assetgraph/internal/ctxlog"
	"github.com/specialistvlad/assetgraph/internal/model"
	"github.com/specialistvlad/assetgraph/internal/resolver"
)

// Build constructs the unit-level dependency graph from the definitions and
// their resolved inputs.
func Build(ctx context.Context, defs []*model.Definition, resolved resolver.Resolved) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph assembly.", "definitions", len(defs))

	graph := &Graph{
		Deps:      make(map[NodeKey]map[string]Dependency, len(defs)),
		Units:     make(map[string]*model.Definition, len(defs)),
		InputKeys: make(map[InputHandle]assetkey.Key),
		Producers: make(map[assetkey.Key]Dependency),
	}

	sorted := sortDefinitions(defs)

	// First pass: name every unit and index its outputs.
	keys := make([]NodeKey, len(sorted))
	counts := make(map[string]int)
	for i, d := range sorted {
		alias := assignAlias(d.Name, counts, graph.Units)
		key := Simple(d.Name)
		if alias != d.Name {
			key = Invocation(d.Name, alias)
		}
		keys[i] = key
		graph.Units[alias] = d
		graph.Deps[key] = make(map[string]Dependency)
		graph.Order = append(graph.Order, alias)

		for _, k := range d.Keys() {
			output, _ := d.OutputName(k)
			if prev, dup := graph.Producers[k]; dup {
				return nil, model.Definitionf(k, d.Name,
					"asset is produced by both '%s' and '%s'", prev.Unit, alias)
			}
			graph.Producers[k] = Dependency{Unit: alias, Output: output}
		}
	}
	logger.Debug("Build: Units named.", "units", len(graph.Units))

	// Second pass: record input handles and link in-graph producers.
	edges := 0
	for i, d := range sorted {
		key := keys[i]
		inputs, ok := resolved[d]
		if !ok && len(d.Inputs) > 0 {
			return nil, model.Invariantf("no resolved inputs for unit '%s'", key.Unit())
		}
		for _, name := range d.InputNames() {
			k, ok := inputs[name]
			if !ok {
				return nil, model.Invariantf("input '%s' of unit '%s' was not resolved", name, key.Unit())
			}
			graph.InputKeys[InputHandle{Unit: key.Unit(), Input: name}] = k
			if dep, ok := graph.Producers[k]; ok {
				graph.Deps[key][name] = dep
				edges++
			}
		}
	}

	logger.Debug("Build: Graph assembly complete.", "units", len(graph.Units), "edges", edges, "input_handles", len(graph.InputKeys))
	return graph, nil
}

// sortDefinitions orders definitions by their sorted output-key sets.
func sortDefinitions(defs []*model.Definition) []*model.Definition {
	sorted := slices.Clone(defs)
	slices.SortStableFunc(sorted, func(a, b *model.Definition) int {
		return assetkey.CompareSets(a.Keys(), b.Keys())
	})
	return sorted
}

// assignAlias returns the unit identifier for the next definition with the
// given base name. Suffixes already taken by another unit are skipped.
func assignAlias(name string, counts map[string]int, taken map[string]*model.Definition) string {
	for {
		counts[name]++
		alias := name
		if n := counts[name]; n > 1 {
			alias = fmt.Sprintf("%s_%d", name, n)
		}
		if _, used := taken[alias]; !used {
			return alias
		}
	}
}
