// Package dot renders computed layouts as Graphviz node-link diagrams.
//
// # Overview
//
// [ToDOT] turns a [graph.Layout] into Graphviz DOT source. Every layer
// becomes a rank=same group, so Graphviz keeps the layer assignment of the
// layout engine, and slots are listed in their final order. Relays are drawn
// as small dashed points; edges into a relay carry no arrowhead, so a long
// edge reads as one line bending through its relays.
//
//	src := dot.ToDOT(l, dot.Options{})
//	svg, err := dot.RenderSVG(src)
//
// # Options
//
//   - Detailed: labels include the layer index and computed coordinates
//   - HideRelays: relays become invisible points
//
// # Dependencies
//
// [RenderSVG] uses [github.com/goccy/go-graphviz] to render in-process; no
// Graphviz installation is needed.
//
// [graph.Layout]: github.com/matzehuels/layerview/pkg/graph
package dot
