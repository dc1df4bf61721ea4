// Package dag provides the ranked directed graph used by the layered layout
// engine.
//
// Nodes are assigned to rows (ranks). After normalization every edge joins
// consecutive rows, which makes crossings between two rows countable and
// lets ordering heuristics work one row pair at a time.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "accounts", Width: 230, Height: 120})
//	g.AddNode(dag.Node{ID: "users", Width: 230, Height: 120})
//	g.AddEdge(dag.Edge{From: "accounts", To: "users"})
//
// Unlike a plain map-backed graph, every accessor returns nodes in insertion
// order. Layout results therefore depend only on the input sequence.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count inversions with a Fenwick
// tree. [CountPairCrossings] scores a single adjacent swap.
//
// # Related Packages
//
// The transform subpackage breaks cycles, assigns ranks, subdivides long
// edges and orders rows.
package dag
