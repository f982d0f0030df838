package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidVertexID is returned by [DAG.AddVertex] when the id is empty.
	ErrInvalidVertexID = errors.New("vertex ID must not be empty")

	// ErrDuplicateVertexID is returned by [DAG.AddVertex] when a real vertex
	// with the same id already exists. Dummy vertices do not take part in
	// id uniqueness.
	ErrDuplicateVertexID = errors.New("duplicate vertex ID")

	// ErrUnknownVertex is returned when an index does not address a vertex
	// of the arena.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrSelfLoop is returned by [DAG.AddEdge] for an edge from a vertex to
	// itself.
	ErrSelfLoop = errors.New("self loop")

	// ErrInconsistentAdjacency is returned by [DAG.Validate] when a child
	// list and the matching parent list disagree.
	ErrInconsistentAdjacency = errors.New("parent and child lists disagree")
)

// NoRelay marks a vertex that does not own a relay vertex.
const NoRelay = -1

// Vertex is a real input item or a synthetic relay.
//
// Layer, X and Y are annotations written by the pipeline; they are
// meaningless until the stage that owns them has run.
type Vertex struct {
	ID   string  // item id; for dummies, the id of the item whose edge is relayed
	Rank float64 // tie-break rank, compared between parentless vertices only

	Dummy  bool
	Origin int // arena index of the real vertex a dummy descends from, or the vertex itself
	Relay  int // arena index of the relay this vertex owns, or NoRelay

	Layer int
	X, Y  float64

	Parents  []int
	Children []int
}

// DAG is an arena of vertices with index-based parent/child adjacency.
//
// Real vertices are frozen after construction; the only structural
// mutations the pipeline performs are inserting dummies and rerouting a
// long edge through them.
//
// The zero value is not usable - use [New].
type DAG struct {
	vertices []Vertex
	index    map[string]int
	real     int
}

// New creates an empty graph.
func New() *DAG {
	return &DAG{index: make(map[string]int)}
}

// AddVertex appends a real vertex and returns its arena index.
func (d *DAG) AddVertex(id string, rank float64) (int, error) {
	if id == "" {
		return 0, ErrInvalidVertexID
	}
	if _, exists := d.index[id]; exists {
		return 0, ErrDuplicateVertexID
	}
	i := len(d.vertices)
	d.vertices = append(d.vertices, Vertex{ID: id, Rank: rank, Origin: i, Relay: NoRelay})
	d.index[id] = i
	d.real++
	return i, nil
}

// AddDummy appends a relay vertex descending from the vertex at parent and
// returns its index. The relay starts without edges; it is not registered
// as parent's relay, see [DAG.SetRelay].
func (d *DAG) AddDummy(parent int) int {
	p := d.vertices[parent]
	i := len(d.vertices)
	d.vertices = append(d.vertices, Vertex{
		ID:     p.ID,
		Rank:   p.Rank,
		Dummy:  true,
		Origin: p.Origin,
		Relay:  NoRelay,
	})
	return i
}

// SetRelay records relay as the relay vertex owned by v.
func (d *DAG) SetRelay(v, relay int) { d.vertices[v].Relay = relay }

// AddEdge adds the edge from→to, meaning from is a prerequisite of to.
// Adding an edge that already exists is a no-op, so the graph never holds
// parallel edges.
func (d *DAG) AddEdge(from, to int) error {
	if !d.valid(from) || !d.valid(to) {
		return ErrUnknownVertex
	}
	if from == to {
		return ErrSelfLoop
	}
	if d.HasEdge(from, to) {
		return nil
	}
	d.vertices[from].Children = append(d.vertices[from].Children, to)
	d.vertices[to].Parents = append(d.vertices[to].Parents, from)
	return nil
}

// RemoveEdge removes the edge from→to if it exists.
func (d *DAG) RemoveEdge(from, to int) {
	if !d.valid(from) || !d.valid(to) {
		return
	}
	d.vertices[from].Children = slices.DeleteFunc(d.vertices[from].Children, func(c int) bool { return c == to })
	d.vertices[to].Parents = slices.DeleteFunc(d.vertices[to].Parents, func(p int) bool { return p == from })
}

// Reroute replaces the edge from→to with via→to. The new edge is appended
// to the end of via's child list and to's parent list.
func (d *DAG) Reroute(from, to, via int) error {
	d.RemoveEdge(from, to)
	return d.AddEdge(via, to)
}

// HasEdge reports whether the edge from→to exists.
func (d *DAG) HasEdge(from, to int) bool {
	if !d.valid(from) {
		return false
	}
	return slices.Contains(d.vertices[from].Children, to)
}

// Vertex returns a pointer into the arena. The pointer is invalidated by
// the next call to AddVertex or AddDummy.
func (d *DAG) Vertex(i int) *Vertex { return &d.vertices[i] }

// Lookup returns the index of the real vertex with the given id.
func (d *DAG) Lookup(id string) (int, bool) {
	i, ok := d.index[id]
	return i, ok
}

// Len returns the number of vertices, dummies included.
func (d *DAG) Len() int { return len(d.vertices) }

// RealCount returns the number of real vertices.
func (d *DAG) RealCount() int { return d.real }

// DummyCount returns the number of relay vertices.
func (d *DAG) DummyCount() int { return len(d.vertices) - d.real }

// Parents returns the parent indices of v. The slice must not be modified.
func (d *DAG) Parents(v int) []int { return d.vertices[v].Parents }

// Children returns the child indices of v. The slice must not be modified.
func (d *DAG) Children(v int) []int { return d.vertices[v].Children }

// IsDummy reports whether v is a relay vertex.
func (d *DAG) IsDummy(v int) bool { return d.vertices[v].Dummy }

// Isolated reports whether v has neither parents nor children.
func (d *DAG) Isolated(v int) bool {
	return len(d.vertices[v].Parents) == 0 && len(d.vertices[v].Children) == 0
}

// EdgeCount returns the number of edges.
func (d *DAG) EdgeCount() int {
	n := 0
	for i := range d.vertices {
		n += len(d.vertices[i].Children)
	}
	return n
}

// Validate checks that every child entry has the matching parent entry and
// the reverse. Acyclicity is not checked here; transform.FindCycle reports
// cycles with their path.
func (d *DAG) Validate() error {
	for i := range d.vertices {
		for _, c := range d.vertices[i].Children {
			if !d.valid(c) || !slices.Contains(d.vertices[c].Parents, i) {
				return ErrInconsistentAdjacency
			}
		}
		for _, p := range d.vertices[i].Parents {
			if !d.valid(p) || !slices.Contains(d.vertices[p].Children, i) {
				return ErrInconsistentAdjacency
			}
		}
	}
	return nil
}

func (d *DAG) valid(i int) bool { return i >= 0 && i < len(d.vertices) }
