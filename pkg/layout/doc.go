// Package layout computes layered coordinates for a set of items with
// prerequisites.
//
// # Overview
//
// [Compute] is the engine's single entry point. It runs the whole layered
// drawing pipeline on a fresh vertex arena:
//
//	items → graph.ToDAG → transform.CoffmanGraham → transform.Distribute
//	      → transform.InsertDummies → ordering.Minimize → coordinates
//
// Each stage's postcondition is checked before the next stage starts. Input
// problems (duplicate or dangling identifiers, cycles) are reported with the
// input error codes of [errors]; a broken internal invariant is reported as
// LAYOUT_INVARIANT and no partial result is returned.
//
// # Coordinates
//
// The layer index is the x axis and the position inside a layer is the y
// axis:
//
//	x = layer × LayerSpacing
//	y = position × VertexSpacing
//
// A refinement pass then sweeps the layers from the sources. A vertex whose
// children sit lower than it does is moved down to the weighted median of
// its children's positions, but never closer than one VertexSpacing to the
// next vertex of its own layer. Relative order inside a layer is preserved.
//
// # Results
//
// A [Result] maps every item id to its [Position] and carries diagnostics:
// the layer count, the number of minimizer rounds, the crossing counts
// before and after minimization, and the number of relay vertices. The full
// layering including relays is kept for renderers; [Result.Export] converts
// it to the [graph.Layout] wire format.
//
// # Asynchronous Use
//
// [Start] runs [Compute] on its own goroutine and returns a [Task]. The
// result is handed over exactly once, when the computation has finished:
//
//	task := layout.Start(ctx, items, layout.DefaultOptions())
//	// ...
//	res, err := task.Wait(ctx)
//
// The computation itself cannot be cancelled. A cancelled context only ends
// the wait; the worker runs to completion and its result is discarded.
//
// # Concurrency
//
// [Compute] holds no state between calls and is safe for concurrent use.
//
// [errors]: github.com/matzehuels/layerview/pkg/errors
package layout
