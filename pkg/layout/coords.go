package layout

import (
	"slices"

	"github.com/matzehuels/layerview/pkg/dag"
	"github.com/matzehuels/layerview/pkg/dag/ordering"
)

// assignCoordinates writes X and Y of every vertex in layers.
//
// The grid pass places slot j of layer i at (i×layerSpacing, j×vertexSpacing).
// The refinement pass then visits every layer but the last, bottom slot
// first, and moves a vertex down to the weighted median of its children's
// positions when that is lower than where it sits. The vertex below caps
// the move at one vertexSpacing above itself. Vertices only ever move down,
// so the cap never lies above the vertex being moved.
func assignCoordinates(g *dag.DAG, layers dag.Layering, layerSpacing, vertexSpacing float64) {
	for i, layer := range layers {
		for j, v := range layer {
			vx := g.Vertex(v)
			vx.X = float64(i) * layerSpacing
			vx.Y = float64(j) * vertexSpacing
		}
	}

	pos := layers.Positions(g)
	var buf []int
	for i := 0; i < len(layers)-1; i++ {
		layer := layers[i]
		for j := len(layer) - 1; j >= 0; j-- {
			vx := g.Vertex(layer[j])

			buf = buf[:0]
			for _, c := range vx.Children {
				buf = append(buf, pos[c])
			}
			slices.Sort(buf)
			median, ok := ordering.WeightedMedian(buf)
			if !ok {
				continue
			}

			target := median * vertexSpacing
			if vx.Y >= target {
				continue
			}
			if j < len(layer)-1 {
				target = min(target, g.Vertex(layer[j+1]).Y-vertexSpacing)
			}
			vx.Y = target
		}
	}
}
