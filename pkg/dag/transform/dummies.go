package transform

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/layerview/pkg/dag"
)

var (
	// ErrNoDemotable is returned when a full layer must make room for a relay
	// but none of the vertices of the layer before it can be moved down.
	ErrNoDemotable = errors.New("no demotable vertex")

	// ErrLayerLimit is returned when demotions keep opening new layers past
	// the limit of [MaxLayers]. This happens when a layer width is too small
	// for the relays a graph needs, for example maxWidth 1 with a long edge.
	ErrLayerLimit = errors.New("layer limit exceeded")
)

// MaxLayers returns the most layers dummy insertion may open for a graph with
// the given number of real vertices.
func MaxLayers(realCount int) int { return 4*realCount + 4 }

// InsertDummies rewrites every edge that spans more than one layer into a
// chain of tight edges through relay vertices, so that every edge of g
// connects layer L to layer L+1.
//
// Layers are processed from the sources. For a long edge v→c out of layer i,
// v's relay is created in layer i+1 if v does not own one yet, then v→c is
// replaced by relay→c. Later long edges of v reuse the same relay, and a
// relay whose own edges are still long gets a relay of its own when its
// layer is processed.
//
// When layer i+1 is full, a real vertex is demoted from layer i+1 into i+2
// first: the last vertex of the layer that has no child in i+2 moves to the
// front of i+2. A full i+2 demotes into i+3 in turn, and a trailing layer is
// opened when needed. Dummies are never demoted.
//
// The layering is modified in place; because layers may be appended, the
// updated layering is returned. The layer annotation of every vertex is kept
// in sync with its layer.
func InsertDummies(g *dag.DAG, layers dag.Layering, maxWidth int) (dag.Layering, error) {
	if maxWidth < 1 {
		return nil, ErrInvalidWidth
	}
	layers.Sync(g)

	ins := &inserter{g: g, layers: layers, maxWidth: maxWidth, limit: MaxLayers(g.RealCount())}
	for i := 0; i < len(ins.layers)-1; i++ {
		for {
			v, c, ok := ins.firstLongEdge(i)
			if !ok {
				break
			}
			relay := g.Vertex(v).Relay
			if relay == dag.NoRelay {
				var err error
				if relay, err = ins.addRelay(v, i+1); err != nil {
					return nil, err
				}
			}
			if err := g.Reroute(v, c, relay); err != nil {
				return nil, err
			}
		}
	}
	return ins.layers, nil
}

type inserter struct {
	g        *dag.DAG
	layers   dag.Layering
	maxWidth int
	limit    int
}

// firstLongEdge returns the first edge out of layer i, in layer and child
// order, whose head lies two or more layers ahead.
func (ins *inserter) firstLongEdge(i int) (int, int, bool) {
	for _, v := range ins.layers[i] {
		for _, c := range ins.g.Children(v) {
			if ins.g.Vertex(c).Layer >= i+2 {
				return v, c, true
			}
		}
	}
	return 0, 0, false
}

func (ins *inserter) addRelay(v, layer int) (int, error) {
	if len(ins.layers[layer]) >= ins.maxWidth {
		if err := ins.demote(layer); err != nil {
			return 0, err
		}
	}
	d := ins.g.AddDummy(v)
	ins.g.Vertex(d).Layer = layer
	ins.layers[layer] = append(ins.layers[layer], d)
	if err := ins.g.AddEdge(v, d); err != nil {
		return 0, err
	}
	ins.g.SetRelay(v, d)
	return d, nil
}

// demote frees one slot in layer L by moving a vertex from L into L+1.
func (ins *inserter) demote(L int) error {
	if L+1 == len(ins.layers) {
		if len(ins.layers) >= ins.limit {
			return fmt.Errorf("%w: %d layers", ErrLayerLimit, ins.limit)
		}
		ins.layers = append(ins.layers, nil)
	}
	if len(ins.layers[L+1]) >= ins.maxWidth {
		if err := ins.demote(L + 1); err != nil {
			return err
		}
	}

	from := ins.layers[L]
	for k := len(from) - 1; k >= 0; k-- {
		u := from[k]
		if ins.g.IsDummy(u) || ins.hasChildIn(u, L+1) {
			continue
		}
		ins.layers[L] = slices.Delete(from, k, k+1)
		ins.layers[L+1] = slices.Insert(ins.layers[L+1], 0, u)
		ins.g.Vertex(u).Layer = L + 1
		return nil
	}
	return fmt.Errorf("%w: layer %d", ErrNoDemotable, L)
}

func (ins *inserter) hasChildIn(v, layer int) bool {
	return slices.ContainsFunc(ins.g.Children(v), func(c int) bool {
		return ins.g.Vertex(c).Layer == layer
	})
}

// Normalize runs [CoffmanGraham], [Distribute] and [InsertDummies] on g and
// returns the resulting layering, in which every edge is tight and no layer
// holds more than maxWidth vertices.
func Normalize(g *dag.DAG, maxWidth int) (dag.Layering, error) {
	order, err := CoffmanGraham(g)
	if err != nil {
		return nil, err
	}
	layers, err := Distribute(g, order, maxWidth)
	if err != nil {
		return nil, err
	}
	return InsertDummies(g, layers, maxWidth)
}
