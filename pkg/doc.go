// Package pkg provides the core libraries for Layerview layered graph layout.
//
// # Overview
//
// Layerview draws dependency graphs in layers. Every item sits in a layer to
// the right of all its prerequisites, no layer holds more than a configured
// number of slots, and edges that skip layers are carried by relay slots so
// that every drawn edge joins neighbouring layers. The pkg directory is
// organized into these areas:
//
//  1. [dag] - Graph structure, with layering in [dag/transform] and crossing
//     reduction in [dag/ordering]
//  2. [layout] - The layout engine that runs every stage
//  3. [graph] - Item input and layout serialization types
//  4. [pipeline] - Orchestration (load → layout → render) with caching
//  5. [render/dot] - DOT and SVG output
//  6. [cache], [observability], [errors] - Infrastructure
//  7. [server] - The HTTP API
//
// # Architecture
//
// The typical data flow:
//
//	Item file (JSON, YAML, TOML) or HTTP request
//	         ↓
//	    [graph] package (decode items, build the DAG)
//	         ↓
//	    [dag/transform] package (cycle check, Coffman–Graham order,
//	                             layer assignment, relay insertion)
//	         ↓
//	    [dag/ordering] package (median and transpose crossing reduction)
//	         ↓
//	    [layout] package (coordinates, result export)
//	         ↓
//	    [render/dot] package (DOT source and SVG through Graphviz)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/layerview/pkg/graph"
//	    "github.com/matzehuels/layerview/pkg/layout"
//	)
//
//	items := []graph.Item{
//	    {ID: "bronze"},
//	    {ID: "iron", Prerequisites: []string{"bronze"}},
//	}
//	res, err := layout.Compute(items, layout.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Positions["iron"].Layer) // 1
//
// For cached runs with rendering, use a [pipeline.Runner]:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, items, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//
// # Errors
//
// All packages return errors carrying a code from [errors]. Input problems
// (bad ids, dangling references, cycles, invalid options) are distinguished
// from broken stage postconditions (LAYOUT_INVARIANT), which the HTTP API
// reports as 422 and 500 respectively.
//
// [dag]: https://pkg.go.dev/github.com/matzehuels/layerview/pkg/dag
// [layout]: https://pkg.go.dev/github.com/matzehuels/layerview/pkg/layout
// [graph]: https://pkg.go.dev/github.com/matzehuels/layerview/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/layerview/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/layerview/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/layerview/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/layerview/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/layerview/pkg/errors
// [server]: https://pkg.go.dev/github.com/matzehuels/layerview/pkg/server
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/layerview/pkg/dag/transform
// [dag/ordering]: https://pkg.go.dev/github.com/matzehuels/layerview/pkg/dag/ordering
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/layerview/pkg/render/dot
package pkg
