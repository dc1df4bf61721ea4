// Package view derives what a rendering surface draws from a positioned
// schema graph and the current interaction state.
//
// [Store] holds the only mutable view data (dragged node positions and
// label positions). [Derive] is a pure function from that data, a highlight
// set and a selection to a [Payload]. [Model] wires both to an
// interact.Machine and exposes the [Handlers] a surface calls.
package view
