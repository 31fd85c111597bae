// Package cycles detects dependency cycles in an assembled unit graph and
// resolves those caused by grouping several outputs into one computation.
//
// Detection works on unit-level edges. Resolution works on the finer
// artifact-level graph: artifacts are coloured by a depth-first walk from the
// root artifacts, the colour growing by one every time the walk crosses from
// one computation to another. A computation whose outputs end up with
// several colours is split into one subset per colour, which removes the
// round trip through another unit that created the cycle.
package cycles
