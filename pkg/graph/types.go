package graph

// =============================================================================
// Item - Layout Input
// =============================================================================

// Item is one node of the input dependency graph.
type Item struct {
	ID            string   `json:"id" toml:"id" bson:"id"`
	Prerequisites []string `json:"prerequisites,omitempty" toml:"prerequisites,omitempty" bson:"prerequisites,omitempty"`
	Rank          float64  `json:"rank,omitempty" toml:"rank,omitempty" bson:"rank,omitempty"`    // Tie-break between items without prerequisites
	Label         string   `json:"label,omitempty" toml:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
}

// DisplayLabel returns the label if set, otherwise the ID.
func (i Item) DisplayLabel() string {
	if i.Label != "" {
		return i.Label
	}
	return i.ID
}

// ItemSet is the document form of an item list.
type ItemSet struct {
	Items []Item `json:"items" toml:"items" bson:"items"`
}

// =============================================================================
// Layout - Layout Output
// =============================================================================

// Layout is the serialized result of a layout computation.
//
// Nodes holds one entry per real item, in input order. Layers holds every
// slot of every layer in final order, relays included, and Edges the tight
// edges between slots.
type Layout struct {
	Nodes  []PlacedNode `json:"nodes" bson:"nodes"`
	Layers [][]Slot     `json:"layers" bson:"layers"`
	Edges  []Edge       `json:"edges" bson:"edges"`

	LayerCount       int `json:"layer_count" bson:"layer_count"`
	Rounds           int `json:"rounds" bson:"rounds"`
	Crossings        int `json:"crossings" bson:"crossings"`
	InitialCrossings int `json:"initial_crossings" bson:"initial_crossings"`
	DummyCount       int `json:"dummy_count" bson:"dummy_count"`
}

// PlacedNode is a real item with its layer and coordinates.
type PlacedNode struct {
	ID    string  `json:"id" bson:"id"`
	Label string  `json:"label,omitempty" bson:"label,omitempty"`
	Layer int     `json:"layer" bson:"layer"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
}

// Slot is a position in a layer, occupied by a real item or a relay.
type Slot struct {
	ID     string  `json:"id" bson:"id"`                             // Unique within the layout
	Origin string  `json:"origin,omitempty" bson:"origin,omitempty"` // Item a relay carries an edge for
	Dummy  bool    `json:"dummy,omitempty" bson:"dummy,omitempty"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
}

// Edge is a tight edge between two slots, from prerequisite to dependent.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// Node returns the placed node with the given id.
func (l *Layout) Node(id string) (PlacedNode, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PlacedNode{}, false
}

// LayerIDs returns the slot ids of every layer.
func (l *Layout) LayerIDs() [][]string {
	out := make([][]string, len(l.Layers))
	for i, layer := range l.Layers {
		out[i] = make([]string, len(layer))
		for j, s := range layer {
			out[i][j] = s.ID
		}
	}
	return out
}
