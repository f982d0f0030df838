// Package transform assigns the vertices of a DAG to layers and makes every
// edge tight.
//
// # Overview
//
// The first half of the Sugiyama pipeline turns an arbitrary acyclic graph
// into a layering where every edge connects consecutive layers:
//
//   - [CoffmanGraham] computes a topological order that bounds layer width
//   - [Distribute] cuts that order into layers of at most maxWidth vertices
//   - [InsertDummies] splits long edges into chains of relay vertices
//
// [Normalize] applies all three in the correct order.
//
// # Coffman–Graham Ordering
//
// [CoffmanGraham] repeatedly selects the least eligible vertex, where a
// vertex is eligible once all of its parents are placed. Parentless vertices
// come first, ordered by rank. Vertices with parents are compared by the
// positions of their parents, sorted in descending order and compared
// lexicographically; a list that is a prefix of the other is the smaller.
// Ties keep the insertion order of the graph, so the result is deterministic.
//
// # Layer Distribution
//
// [Distribute] consumes the order from its tail and fills a layer until it is
// full or the next vertex has a child in it. Layers are then reversed, and
// isolated vertices are promoted one layer toward the sources when that layer
// has room, which thins out the dense base Coffman–Graham tends to produce:
//
//	order: a b c d e f g   (no edges, maxWidth 3)
//	after: [a b c] [d e f] [g]
//
// # Dummy Insertion
//
// [InsertDummies] walks the layers from the sources and replaces every edge
// v→c that skips a layer by v→relay→c. A vertex owns at most one relay, which
// is reused for all of its long edges:
//
//	Before: app (layer 0) → core (layer 2), app → lib (layer 1)
//	After:  app → app' → core, app → lib
//
// When the layer that must receive a relay is full, a real vertex of that
// layer is demoted into the next one, recursively if needed.
//
// # Cycles
//
// [FindCycle] reports one directed cycle as a path of vertex ids, which the
// ordering step uses to describe why it could not make progress.
package transform
