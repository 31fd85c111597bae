package dag

import (
	"maps"
	"slices"
)

// TopologicalLayers groups the nodes into layers using Kahn's algorithm. The
// first layer holds every node without dependencies; each later layer holds
// the nodes whose dependencies all sit in earlier layers. IDs are sorted
// within a layer. A *CycleError is returned if the graph is not acyclic.
func (g *Graph) TopologicalLayers() ([][]string, error) {
	g.mutex.RLock()
	inDegree := make(map[string]int, len(g.nodes))
	for id, n := range g.nodes {
		inDegree[id] = len(n.deps)
	}

	var current []string
	for id, d := range inDegree {
		if d == 0 {
			current = append(current, id)
		}
	}
	slices.Sort(current)

	var layers [][]string
	visited := 0
	for len(current) > 0 {
		layers = append(layers, current)
		visited += len(current)

		var next []string
		for _, id := range current {
			for dep := range g.nodes[id].dependents {
				inDegree[dep]--
				if inDegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		slices.Sort(next)
		current = next
	}
	total := len(g.nodes)
	g.mutex.RUnlock()

	if visited != total {
		if err := g.DetectCycles(); err != nil {
			return nil, err
		}
	}
	return layers, nil
}

// TopologicalOrder flattens TopologicalLayers into a single slice.
func (g *Graph) TopologicalOrder() ([]string, error) {
	layers, err := g.TopologicalLayers()
	if err != nil {
		return nil, err
	}
	var order []string
	for _, layer := range layers {
		order = append(order, layer...)
	}
	return order, nil
}

// Roots returns the sorted IDs of nodes without dependencies.
func (g *Graph) Roots() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	var roots []string
	for _, id := range slices.Sorted(maps.Keys(g.nodes)) {
		if len(g.nodes[id].deps) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}
