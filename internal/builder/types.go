package builder

import (
	"cmp"
	"maps"
	"slices"

	"github.com/specialistvlad/assetgraph/internal/assetkey"
	"github.com/specialistvlad/assetgraph/internal/model"
)

// NodeKey identifies a unit in the dependency map. It is either a simple
// reference by name, or an invocation of a named computation under an alias.
type NodeKey struct {
	// Name is the computation's base name.
	Name string
	// Alias is set only for invocations; it is the unit identifier.
	Alias string
}

// Simple returns a NodeKey that refers to a unit by its base name.
func Simple(name string) NodeKey {
	return NodeKey{Name: name}
}

// Invocation returns a NodeKey for a computation invoked under an alias.
func Invocation(name, alias string) NodeKey {
	return NodeKey{Name: name, Alias: alias}
}

// IsInvocation reports whether the key carries an alias.
func (k NodeKey) IsInvocation() bool {
	return k.Alias != ""
}

// Unit returns the unit identifier the key resolves to.
func (k NodeKey) Unit() string {
	if k.Alias != "" {
		return k.Alias
	}
	return k.Name
}

func (k NodeKey) String() string {
	if k.Alias != "" {
		return k.Name + " as " + k.Alias
	}
	return k.Name
}

// Dependency is the upstream end of an edge: a unit and one of its outputs.
type Dependency struct {
	Unit   string
	Output string
}

// InputHandle names one input of one unit.
type InputHandle struct {
	Unit  string
	Input string
}

// Edge is a flattened dependency edge.
type Edge struct {
	Unit  string
	Input string
	From  Dependency
}

// Graph is the assembled unit-level dependency graph.
type Graph struct {
	// Deps holds, for every unit, its input names mapped to the producing
	// unit output. Every unit has an entry, possibly empty.
	Deps map[NodeKey]map[string]Dependency
	// Units maps each unit identifier to its definition.
	Units map[string]*model.Definition
	// InputKeys records the resolved key of every input of every unit,
	// whether or not the key is produced in this graph.
	InputKeys map[InputHandle]assetkey.Key
	// Producers maps every key produced in this graph to its unit output.
	Producers map[assetkey.Key]Dependency
	// Order lists the unit identifiers in assignment order.
	Order []string
}

// NodeKey returns the dependency map key of the given unit.
func (g *Graph) NodeKey(unit string) (NodeKey, bool) {
	for k := range g.Deps {
		if k.Unit() == unit {
			return k, true
		}
	}
	return NodeKey{}, false
}

// Edges returns every dependency edge sorted by unit, then input name.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for k, inputs := range g.Deps {
		for input, dep := range inputs {
			edges = append(edges, Edge{Unit: k.Unit(), Input: input, From: dep})
		}
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		return cmp.Or(cmp.Compare(a.Unit, b.Unit), cmp.Compare(a.Input, b.Input))
	})
	return edges
}

// Upstream returns the sorted, de-duplicated units the given unit depends on.
func (g *Graph) Upstream(unit string) []string {
	k, ok := g.NodeKey(unit)
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	for _, dep := range g.Deps[k] {
		seen[dep.Unit] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Keys returns the keys produced by the given unit in sorted order.
func (g *Graph) Keys(unit string) []assetkey.Key {
	if d, ok := g.Units[unit]; ok {
		return d.Keys()
	}
	return nil
}
