package layout

import (
	"github.com/matzehuels/layerview/pkg/graph"
)

// Export converts a result to the serialization format.
//
// Use this when you need to serialize the layout for:
//   - JSON or YAML file output (via graph.WriteLayout)
//   - API responses
//   - Caching
//
// Nodes are listed in input order.
func (r *Result) Export() graph.Layout {
	out := graph.Layout{
		Nodes:            make([]graph.PlacedNode, 0, len(r.items)),
		Layers:           r.Layers,
		Edges:            r.Edges,
		LayerCount:       r.LayerCount,
		Rounds:           r.Rounds,
		Crossings:        r.Crossings,
		InitialCrossings: r.InitialCrossings,
		DummyCount:       r.DummyCount,
	}
	for _, it := range r.items {
		p := r.Positions[it.ID]
		out.Nodes = append(out.Nodes, graph.PlacedNode{
			ID:    it.ID,
			Label: it.Label,
			Layer: p.Layer,
			X:     p.X,
			Y:     p.Y,
		})
	}
	return out
}

// Parse converts a serialized layout back into a result, for example one
// read from a cache. Item labels survive the round trip; prerequisites and
// ranks are not part of the wire format and stay empty.
func Parse(l graph.Layout) *Result {
	r := &Result{
		Positions:        make(map[string]Position, len(l.Nodes)),
		Layers:           l.Layers,
		Edges:            l.Edges,
		LayerCount:       l.LayerCount,
		Rounds:           l.Rounds,
		Crossings:        l.Crossings,
		InitialCrossings: l.InitialCrossings,
		DummyCount:       l.DummyCount,
		items:            make([]graph.Item, len(l.Nodes)),
	}
	for i, n := range l.Nodes {
		r.Positions[n.ID] = Position{Layer: n.Layer, X: n.X, Y: n.Y}
		r.items[i] = graph.Item{ID: n.ID, Label: n.Label}
	}
	return r
}
