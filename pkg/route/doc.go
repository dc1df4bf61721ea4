// Package route computes drawable paths for schema graph edges.
//
// Edges leave and enter nodes through handles on a node side. [SmoothStep]
// builds an orthogonal path between two handles with rounded corners and a
// default label anchor. [Route] applies the parallel-edge offset first, so
// that edges between the same pair of nodes are drawn side by side:
//
//	offset = (parallelIndex - (numParallel-1)/2) * spacing
//
// A label position stored on the edge overrides the computed anchor. Label
// drags are reported through [LabelDragFunc]; the router itself is
// stateless.
package route
