package layout

import (
	"strconv"

	"github.com/matzehuels/layerview/pkg/dag"
	"github.com/matzehuels/layerview/pkg/dag/ordering"
	"github.com/matzehuels/layerview/pkg/dag/transform"
	"github.com/matzehuels/layerview/pkg/errors"
	"github.com/matzehuels/layerview/pkg/graph"
)

// Position is the placement of one real item.
type Position struct {
	Layer int     `json:"layer"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Result is a computed layout.
type Result struct {
	Positions map[string]Position // Real items only
	Layers    [][]graph.Slot      // Final layer contents, relays included
	Edges     []graph.Edge        // Tight edges between slots

	LayerCount       int
	Rounds           int // Crossing minimizer rounds executed
	Crossings        int // Total crossings of the final layering
	InitialCrossings int // Total crossings right after relay insertion
	DummyCount       int

	items []graph.Item
}

// Compute lays out items. It validates the input, builds a fresh vertex
// arena and runs every stage of the pipeline on it. The result is fully
// determined by the item ids, prerequisites, ranks, input order and opts.
//
// Errors carry codes from [errors]: INVALID_INPUT for bad options or ids,
// DANGLING_REFERENCE, CYCLIC_GRAPH, and LAYOUT_INVARIANT when a stage breaks
// its postcondition.
func Compute(items []graph.Item, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	g, err := graph.ToDAG(items)
	if err != nil {
		return nil, err
	}

	order, err := transform.CoffmanGraham(g)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCyclicGraph, err, "order items")
	}

	layers, err := transform.Distribute(g, order, opts.MaxWidth)
	if err != nil {
		return nil, invariant(err, "distribute layers")
	}
	if err := layers.ValidateSeparated(g, opts.MaxWidth); err != nil {
		return nil, invariant(err, "distribute layers")
	}

	layers, err = transform.InsertDummies(g, layers, opts.MaxWidth)
	if err != nil {
		return nil, invariant(err, "insert relays")
	}
	if err := g.Validate(); err != nil {
		return nil, invariant(err, "insert relays")
	}
	if err := layers.Validate(g, opts.MaxWidth); err != nil {
		return nil, invariant(err, "insert relays")
	}

	best, stats := ordering.Minimize(g, layers, opts.ordering())
	if err := best.Validate(g, opts.MaxWidth); err != nil {
		return nil, invariant(err, "minimize crossings")
	}
	best.Sync(g)
	assignCoordinates(g, best, opts.LayerSpacing, opts.VertexSpacing)

	return newResult(items, g, best, stats), nil
}

func invariant(err error, stage string) error {
	return errors.Wrap(errors.ErrCodeLayoutInvariant, err, "%s", stage)
}

func newResult(items []graph.Item, g *dag.DAG, layers dag.Layering, stats ordering.Stats) *Result {
	res := &Result{
		Positions:        make(map[string]Position, g.RealCount()),
		Layers:           make([][]graph.Slot, len(layers)),
		LayerCount:       len(layers),
		Rounds:           stats.Rounds,
		Crossings:        stats.Crossings,
		InitialCrossings: stats.InitialCrossings,
		DummyCount:       g.DummyCount(),
		items:            items,
	}

	ids := slotIDs(g)
	for i, layer := range layers {
		res.Layers[i] = make([]graph.Slot, len(layer))
		for j, v := range layer {
			vx := g.Vertex(v)
			slot := graph.Slot{ID: ids[v], X: vx.X, Y: vx.Y}
			if vx.Dummy {
				slot.Origin, slot.Dummy = vx.ID, true
			} else {
				res.Positions[vx.ID] = Position{Layer: i, X: vx.X, Y: vx.Y}
			}
			res.Layers[i][j] = slot
		}
	}
	for _, layer := range layers {
		for _, v := range layer {
			for _, c := range g.Children(v) {
				res.Edges = append(res.Edges, graph.Edge{From: ids[v], To: ids[c]})
			}
		}
	}
	return res
}

// slotIDs names every vertex of g. Real vertices keep their item id; relays
// are named after the item they carry an edge for, with a counter suffix
// that avoids every other name.
func slotIDs(g *dag.DAG) []string {
	ids := make([]string, g.Len())
	taken := make(map[string]bool, g.Len())
	for v := range g.Len() {
		if !g.IsDummy(v) {
			ids[v] = g.Vertex(v).ID
			taken[ids[v]] = true
		}
	}
	next := make(map[string]int)
	for v := range g.Len() {
		if !g.IsDummy(v) {
			continue
		}
		origin := g.Vertex(v).ID
		for {
			next[origin]++
			id := origin + "~" + strconv.Itoa(next[origin])
			if !taken[id] {
				ids[v], taken[id] = id, true
				break
			}
		}
	}
	return ids
}
