package dag

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNonTightEdge is returned by [Layering.Validate] when an edge does
	// not connect a vertex in layer L to one in layer L+1.
	ErrNonTightEdge = errors.New("edge does not span exactly one layer")

	// ErrLayerOverflow is returned by [Layering.Validate] when a layer holds
	// more vertices than the configured maximum width.
	ErrLayerOverflow = errors.New("layer exceeds maximum width")

	// ErrSharedLayer is returned by [Layering.Validate] when a vertex shares
	// a layer with one of its children.
	ErrSharedLayer = errors.New("vertex shares a layer with its child")

	// ErrUnplaced is returned by [Layering.Validate] when a vertex of the
	// arena is missing from the layering or appears more than once.
	ErrUnplaced = errors.New("vertex is not placed exactly once")
)

// Layer is an ordered sequence of arena indices. Order is meaningful: it is
// the vertical position used for crossing counts and coordinates.
type Layer []int

// Layering is an ordered sequence of layers. The layer index is the x axis.
type Layering []Layer

// Clone returns a deep copy of layer membership and order. The arena is
// shared, not copied.
func (l Layering) Clone() Layering {
	out := make(Layering, len(l))
	for i, layer := range l {
		out[i] = slices.Clone(layer)
	}
	return out
}

// Width returns the size of the widest layer.
func (l Layering) Width() int {
	w := 0
	for _, layer := range l {
		w = max(w, len(layer))
	}
	return w
}

// Size returns the number of placed vertices.
func (l Layering) Size() int {
	n := 0
	for _, layer := range l {
		n += len(layer)
	}
	return n
}

// Sync writes each vertex's layer index back into the arena.
func (l Layering) Sync(g *DAG) {
	for i, layer := range l {
		for _, v := range layer {
			g.Vertex(v).Layer = i
		}
	}
}

// Positions returns, for every arena index, its position within its layer.
// Vertices that are not placed map to -1.
func (l Layering) Positions(g *DAG) []int {
	pos := make([]int, g.Len())
	for i := range pos {
		pos[i] = -1
	}
	for _, layer := range l {
		for j, v := range layer {
			pos[v] = j
		}
	}
	return pos
}

// Validate checks that every vertex of g is placed exactly once, that no
// layer exceeds maxWidth, and that every edge is tight. A maxWidth of zero
// or less disables the width check.
//
// The layer annotations stored in the arena are not consulted; layer
// membership is derived from l itself.
func (l Layering) Validate(g *DAG, maxWidth int) error {
	layerOf := make([]int, g.Len())
	for i := range layerOf {
		layerOf[i] = -1
	}
	for i, layer := range l {
		if maxWidth > 0 && len(layer) > maxWidth {
			return fmt.Errorf("%w: layer %d has %d vertices, max %d", ErrLayerOverflow, i, len(layer), maxWidth)
		}
		for _, v := range layer {
			if v < 0 || v >= g.Len() || layerOf[v] != -1 {
				return fmt.Errorf("%w: index %d", ErrUnplaced, v)
			}
			layerOf[v] = i
		}
	}
	for v, layer := range layerOf {
		if layer == -1 {
			return fmt.Errorf("%w: %q", ErrUnplaced, g.Vertex(v).ID)
		}
	}
	for v := range layerOf {
		for _, c := range g.Children(v) {
			switch {
			case layerOf[c] == layerOf[v]:
				return fmt.Errorf("%w: %q -> %q in layer %d", ErrSharedLayer, g.Vertex(v).ID, g.Vertex(c).ID, layerOf[v])
			case layerOf[c] != layerOf[v]+1:
				return fmt.Errorf("%w: %q (layer %d) -> %q (layer %d)",
					ErrNonTightEdge, g.Vertex(v).ID, layerOf[v], g.Vertex(c).ID, layerOf[c])
			}
		}
	}
	return nil
}

// ValidateSeparated checks the weaker postcondition of layer distribution:
// every vertex is placed exactly once, the width bound holds, and every
// child lies in a strictly later layer than its parent.
func (l Layering) ValidateSeparated(g *DAG, maxWidth int) error {
	if maxWidth > 0 {
		for i, layer := range l {
			if len(layer) > maxWidth {
				return fmt.Errorf("%w: layer %d has %d vertices, max %d", ErrLayerOverflow, i, len(layer), maxWidth)
			}
		}
	}
	layerOf := make([]int, g.Len())
	for i := range layerOf {
		layerOf[i] = -1
	}
	for i, layer := range l {
		for _, v := range layer {
			if layerOf[v] != -1 {
				return fmt.Errorf("%w: index %d", ErrUnplaced, v)
			}
			layerOf[v] = i
		}
	}
	for v := range layerOf {
		if layerOf[v] == -1 {
			return fmt.Errorf("%w: %q", ErrUnplaced, g.Vertex(v).ID)
		}
		for _, c := range g.Children(v) {
			if layerOf[c] <= layerOf[v] {
				return fmt.Errorf("%w: %q -> %q", ErrSharedLayer, g.Vertex(v).ID, g.Vertex(c).ID)
			}
		}
	}
	return nil
}
