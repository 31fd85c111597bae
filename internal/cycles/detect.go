package cycles

import (
	"cmp"
	"errors"
	"maps"
	"slices"

	"github.com/specialistvlad/assetgraph/internal/builder"
	"github.com/specialistvlad/assetgraph/internal/dag"
	"github.com/specialistvlad/assetgraph/internal/model"
)

// HasCycle reports whether the unit-level dependency edges admit no
// topological order. A unit that depends on its own output is a cycle.
func HasCycle(deps map[builder.NodeKey]map[string]builder.Dependency) (bool, error) {
	cycle, err := FindCycle(deps)
	if err != nil {
		return false, err
	}
	return cycle != nil, nil
}

// FindCycle returns the units of one dependency cycle, in edge order with the
// first unit repeated at the end, or nil when the edges form a DAG. An edge
// from a unit that is not part of deps is an InvariantViolation.
func FindCycle(deps map[builder.NodeKey]map[string]builder.Dependency) ([]string, error) {
	g := dag.New()
	for k := range deps {
		g.AddNode(k.Unit())
	}

	keys := slices.SortedFunc(maps.Keys(deps), func(a, b builder.NodeKey) int {
		return cmp.Compare(a.Unit(), b.Unit())
	})
	for _, k := range keys {
		unit := k.Unit()
		inputs := deps[k]
		for _, input := range slices.Sorted(maps.Keys(inputs)) {
			from := inputs[input].Unit
			if !g.HasNode(from) {
				return nil, model.Invariantf("input '%s' of unit '%s' depends on unknown unit '%s'", input, unit, from)
			}
			if from == unit {
				return []string{unit, unit}, nil
			}
			if err := g.AddEdge(from, unit); err != nil {
				return nil, model.Invariantf("linking unit '%s' to '%s': %v", from, unit, err)
			}
		}
	}

	var cycleErr *dag.CycleError
	if err := g.DetectCycles(); errors.As(err, &cycleErr) {
		return cycleErr.Path, nil
	} else if err != nil {
		return nil, err
	}
	return nil, nil
}
