// Package dag provides the vertex arena and layering structures used by the
// hierarchical layout engine.
//
// # Overview
//
// Layerview draws dependency graphs in the Sugiyama style: every vertex is
// assigned to a layer (a column on screen), vertices inside a layer are
// ordered to reduce edge crossings, and coordinates are derived from the
// final layer and position. This package holds the data the rest of the
// pipeline mutates.
//
// # Vertices
//
// Vertices live in a single arena owned by a [DAG] and are addressed by
// their index. Parent and child relations are index lists into that arena,
// so the mutually-referencing adjacency never forms an ownership cycle:
//
//	g := dag.New()
//	a, _ := g.AddVertex("a", 0)
//	b, _ := g.AddVertex("b", 0)
//	_ = g.AddEdge(a, b) // a is a prerequisite of b
//
// A vertex is either real (one input item) or a dummy relay inserted to
// split an edge that spans more than one layer. Dummies are created with
// [DAG.AddDummy] and remember the real vertex whose edge they carry. A real
// vertex owns at most one relay at a time, reachable through [Vertex.Relay].
//
// # Layerings
//
// A [Layering] is an ordered sequence of layers, each an ordered sequence
// of vertex indices. Layerings are plain slices, so [Layering.Clone] is a
// cheap deep copy of membership and order that shares the arena. The
// crossing minimizer uses this to snapshot and restore candidates.
//
// [Layering.Validate] checks the structural postconditions the pipeline
// relies on: tight edges, the width bound, and that no vertex shares a
// layer with one of its children.
//
// # Edge Crossings
//
// [CountLayerCrossings] counts crossings between two adjacent layers with a
// table of sub-rectangle edge counts filled by inclusion-exclusion, which
// runs in O(|left|·|right|). A [CrossingWorkspace] reuses the table across
// calls; the transpose heuristic evaluates thousands of candidate swaps.
//
// # Concurrency
//
// A DAG and its layerings are not safe for concurrent use. The engine owns
// one graph per computation and never shares it between goroutines.
package dag
