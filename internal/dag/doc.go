// Package dag provides a small directed graph over string identifiers with
// the queries the job compiler needs: cycle detection with a witness path and
// deterministic topological layering.
//
// Edges point from a dependency to its dependent. Every query that returns a
// list returns it sorted, so results never depend on map iteration order.
package dag
