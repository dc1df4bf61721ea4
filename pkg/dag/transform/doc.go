// Package transform prepares a ranked [dag.DAG] for layered drawing.
//
// Schema graphs are arbitrary directed graphs: entities reference each other
// in both directions, point at themselves and form long chains. The layered
// layout engine needs every edge to point one row down, so it applies the
// transformations in this order:
//
//	transform.BreakCycles(g)    // reverse back edges, drop self-loops
//	transform.AssignLayers(g)   // longest-path ranking
//	transform.Subdivide(g)      // split edges spanning several rows
//	orders := transform.OrderRows(g, 0)
//
// # Cycle Breaking
//
// [BreakCycles] runs a depth-first search in insertion order and reverses
// every back edge it finds. Reversed relations still pull their endpoints
// onto adjacent ranks.
//
// # Layer Assignment
//
// [AssignLayers] places each node one row below its deepest parent.
//
// # Edge Subdivision
//
// [Subdivide] inserts zero-sized subdivider nodes so long relations take
// part in crossing reduction like any other edge.
//
// # Row Ordering
//
// [OrderRows] runs barycentric sweeps, keeps the ordering with the fewest
// crossings and finishes with adjacent swaps.
package transform
