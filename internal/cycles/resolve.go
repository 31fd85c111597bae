package cycles

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/specialistvlad/assetgraph/internal/assetkey"
	"github.com/specialistvlad/assetgraph/internal/ctxlog"
	"github.com/specialistvlad/assetgraph/internal/dag"
	"github.com/specialistvlad/assetgraph/internal/model"
	"github.com/specialistvlad/assetgraph/internal/resolver"
)

// Result is the outcome of one resolution pass.
type Result struct {
	// Definitions is the new definition set. Split definitions are replaced
	// in place by their subsets in ascending colour order.
	Definitions []*model.Definition
	// Split lists the definitions that were replaced by subsets.
	Split []*model.Definition
	// Unsplittable lists the definitions whose outputs received several
	// colours but which cannot be subset. A cycle through them remains.
	Unsplittable []*model.Definition
}

// artifactGraph is the artifact-level view of the job.
type artifactGraph struct {
	dag   *dag.Graph
	owner map[assetkey.Key]*model.Definition
}

// Resolve runs one colouring pass over the artifact-level graph and splits
// every subsettable definition whose outputs received more than one colour.
// A cycle between artifacts themselves cannot be fixed by splitting and is
// reported as a DefinitionError carrying the cycle.
func Resolve(ctx context.Context, defs []*model.Definition, resolved resolver.Resolved) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolve: Building artifact graph.", "definitions", len(defs))

	ag, err := buildArtifactGraph(defs, resolved)
	if err != nil {
		return nil, err
	}

	if err := ag.dag.DetectCycles(); err != nil {
		var cycleErr *dag.CycleError
		if errors.As(err, &cycleErr) {
			first := assetkey.Key(cycleErr.Path[0])
			owner := ""
			if d := ag.owner[first]; d != nil {
				owner = d.Name
			}
			return nil, model.Definitionf(first, owner, "assets form a dependency cycle: %s", strings.Join(cycleErr.Path, " -> "))
		}
		return nil, fmt.Errorf("error checking artifact graph: %w", err)
	}

	roots := ag.dag.Roots()
	colors, err := ag.color(roots)
	if err != nil {
		return nil, err
	}
	logger.Debug("Resolve: Artifacts coloured.", "roots", len(roots), "artifacts", len(ag.dag.Nodes()), "coloured", len(colors))

	res := &Result{Definitions: make([]*model.Definition, 0, len(defs))}
	for _, d := range defs {
		byColor := make(map[int][]assetkey.Key)
		for _, k := range d.Keys() {
			byColor[colors[k]] = append(byColor[colors[k]], k)
		}
		if len(byColor) <= 1 {
			res.Definitions = append(res.Definitions, d)
			continue
		}
		if !d.CanSubset {
			logger.Debug("Resolve: Computation spans several colours but cannot be subset.", "computation", d.Name, "colours", len(byColor))
			res.Definitions = append(res.Definitions, d)
			res.Unsplittable = append(res.Unsplittable, d)
			continue
		}
		for _, c := range slices.Sorted(maps.Keys(byColor)) {
			sub, err := d.Subset(byColor[c])
			if err != nil {
				return nil, fmt.Errorf("error splitting computation '%s': %w", d.Name, err)
			}
			res.Definitions = append(res.Definitions, sub)
		}
		res.Split = append(res.Split, d)
		logger.Debug("Resolve: Computation split.", "computation", d.Name, "parts", len(byColor))
	}

	logger.Debug("Resolve: Pass complete.", "split", len(res.Split), "unsplittable", len(res.Unsplittable))
	return res, nil
}

// buildArtifactGraph links every resolved upstream key to each output that
// depends on it.
func buildArtifactGraph(defs []*model.Definition, resolved resolver.Resolved) (*artifactGraph, error) {
	ag := &artifactGraph{dag: dag.New(), owner: make(map[assetkey.Key]*model.Definition)}

	for _, d := range defs {
		for _, k := range d.Keys() {
			ag.dag.AddNode(k.String())
			ag.owner[k] = d
		}
	}

	for _, d := range defs {
		inputs := resolved[d]
		for _, out := range d.Keys() {
			for _, declared := range d.UpstreamOf(out) {
				for _, name := range d.InputNames() {
					if d.Inputs[name] != declared {
						continue
					}
					up, ok := inputs[name]
					if !ok {
						return nil, model.Invariantf("input '%s' of computation '%s' was not resolved", name, d.Name)
					}
					if up == out {
						return nil, model.Definitionf(out, d.Name, "asset depends on itself")
					}
					ag.dag.AddNode(up.String())
					if err := ag.dag.AddEdge(up.String(), out.String()); err != nil {
						return nil, model.Invariantf("linking asset '%s' to '%s': %v", up, out, err)
					}
				}
			}
		}
	}
	return ag, nil
}

// colorItem is one pending visit of the colouring walk.
type colorItem struct {
	key   assetkey.Key
	color int
}

// color assigns every artifact reachable from roots the length of the longest
// computation-crossing path that reaches it. An artifact is revisited only
// when a strictly greater colour reaches it, so the walk terminates on any
// acyclic graph.
func (ag *artifactGraph) color(roots []string) (map[assetkey.Key]int, error) {
	best := make(map[assetkey.Key]int)

	stack := make([]colorItem, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, colorItem{key: assetkey.Key(roots[i])})
	}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if prev, seen := best[item.key]; seen && item.color <= prev {
			continue
		}
		best[item.key] = item.color

		downstream, err := ag.dag.Dependents(item.key.String())
		if err != nil {
			return nil, model.Invariantf("colouring asset '%s': %v", item.key, err)
		}
		for i := len(downstream) - 1; i >= 0; i-- {
			next := assetkey.Key(downstream[i])
			color := item.color
			if ag.crossesComputation(item.key, next) {
				color++
			}
			stack = append(stack, colorItem{key: next, color: color})
		}
	}
	return best, nil
}

// crossesComputation reports whether the edge from one artifact to another
// leaves one in-job computation for a different one.
func (ag *artifactGraph) crossesComputation(from, to assetkey.Key) bool {
	a, b := ag.owner[from], ag.owner[to]
	if a == nil || b == nil {
		return false
	}
	return a != b
}
