// Package layout positions schema graph nodes.
//
// [Apply] is the entry point. It hands the node boxes and the edges between
// them to an [Engine], which returns box centers, and converts those centers
// into top-left positions. Apply never fails: if the engine errors or
// panics every node is placed at the origin and a LAYOUT_FAILED diagnostic
// is recorded, and nodes the engine skipped are placed at the origin
// individually.
//
// Two engines are available:
//
//   - [Layered] is a pure Go layered (Sugiyama) layout built on package dag
//   - [Dot] runs Graphviz dot in-process through go-graphviz
//
// Both honor [Options], which set the rank direction (LR or TB) and the
// node and rank separations.
package layout
