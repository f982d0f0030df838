package transform

import (
	"errors"
	"slices"

	"github.com/matzehuels/layerview/pkg/dag"
)

// ErrInvalidWidth is returned when the maximum layer width is below one.
var ErrInvalidWidth = errors.New("maximum layer width must be at least 1")

// Distribute partitions order into layers of at most maxWidth vertices.
//
// The order is consumed from its tail: a vertex joins the current layer
// unless the layer is full or already holds one of the vertex's children, in
// which case a new layer is opened. Afterwards every layer and the sequence
// of layers are reversed, so sources end up in layer 0.
//
// A promotion pass then moves every isolated vertex (no parents and no
// children) one layer toward the sources when that layer has spare room.
// Layers emptied by promotion are dropped. The resulting layer of each
// vertex is written back to the arena.
//
// For an order produced by [CoffmanGraham], every child lands in a strictly
// later layer than its parents. Edges may still span several layers; see
// [InsertDummies].
func Distribute(g *dag.DAG, order []int, maxWidth int) (dag.Layering, error) {
	if maxWidth < 1 {
		return nil, ErrInvalidWidth
	}

	layerOf := make([]int, g.Len())
	for i := range layerOf {
		layerOf[i] = -1
	}

	layers := dag.Layering{nil}
	cur := 0
	for k := len(order) - 1; k >= 0; k-- {
		v := order[k]
		shared := slices.ContainsFunc(g.Children(v), func(c int) bool { return layerOf[c] == cur })
		if len(layers[cur]) == maxWidth || shared {
			cur++
			layers = append(layers, nil)
		}
		layers[cur] = append(layers[cur], v)
		layerOf[v] = cur
	}

	for _, layer := range layers {
		slices.Reverse(layer)
	}
	slices.Reverse(layers)

	promoteIsolated(g, layers, maxWidth)

	layers = slices.DeleteFunc(layers, func(l dag.Layer) bool { return len(l) == 0 })
	layers.Sync(g)
	return layers, nil
}

func promoteIsolated(g *dag.DAG, layers dag.Layering, maxWidth int) {
	for j := 1; j < len(layers); j++ {
		for i := 0; i < len(layers[j]); i++ {
			v := layers[j][i]
			if !g.Isolated(v) || len(layers[j-1]) >= maxWidth {
				continue
			}
			layers[j-1] = append(layers[j-1], v)
			layers[j] = slices.Delete(layers[j], i, i+1)
			i--
		}
	}
}
