// Package graph provides the serialization types for item sets and layouts.
//
// This package defines the canonical wire format for Layerview's data, used
// for input files, API requests and responses, and the layout cache.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Item], [ItemSet], [Layout]: Serialization types (this package)
//   - pkg/dag.DAG: Internal vertex arena
//   - pkg/layout.Result: Internal layout (positions, layering, statistics)
//
// Use [ToDAG] to build the arena from items, and layout.Result.Export to
// produce a [Layout].
//
// # Items
//
// An item has an identifier, the identifiers of its prerequisites, and a
// numeric rank used to break ties between items without prerequisites:
//
//	{
//	  "items": [
//	    {"id": "smithing", "rank": 1},
//	    {"id": "steel", "prerequisites": ["smithing"], "rank": 2}
//	  ]
//	}
//
// The same document is accepted as YAML, and as TOML with an [[items]]
// array of tables. JSON and YAML inputs may also be a bare list of items.
//
//	items, _ := graph.ReadItemsFile("tree.yaml", "")
//	g, err := graph.ToDAG(items)
//
// [ToDAG] rejects empty or duplicate identifiers, prerequisites that name an
// unknown item, and prerequisite cycles. Duplicate prerequisites collapse.
//
// # Layouts
//
// A [Layout] lists every real item with its layer and coordinates, plus the
// full layering including relay slots and the tight edges between slots:
//
//	data, _ := graph.MarshalLayout(l)
//	parsed, _ := graph.UnmarshalLayout(data)
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
