/*
Package builder assembles the unit-level dependency graph of a job from its
computation definitions and their resolved inputs.

The primary artifact produced by this package is a *Graph: the dependency
edges grouped by consuming unit, the unit identifier to definition map, and
the input handle to artifact key map.

The graph construction is a multi-phase process:

 1. Ordering: definitions are sorted by their sorted output-key sets. Every
    later phase walks this order, so identical inputs always yield an
    identical graph.

 2. Naming: each definition receives a unit identifier. The first definition
    with a given base name keeps it; later ones are suffixed `_2`, `_3` and so
    on. A unit whose identifier differs from its base name is recorded as an
    invocation carrying an alias.

 3. Linking: every resolved input is recorded under its input handle. When the
    resolved key is produced by a unit of this graph, an edge to that unit's
    output is added. Keys produced outside the job leave no edge.

The builder does not check the result for cycles. That is the job of the
cycles package.
*/
package builder
