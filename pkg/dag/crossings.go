package dag

// CrossingWorkspace provides reusable buffers for crossing calculations to
// avoid repeated allocations. Create with [NewCrossingWorkspace] and reuse
// it across calls to [CrossingWorkspace.Count]. The transpose heuristic
// counts crossings once per candidate swap, so this matters.
//
// The workspace is not safe for concurrent use - each goroutine should have its own.
type CrossingWorkspace struct {
	pos   []int  // position of an arena index in the right layer, -1 if absent
	adj   []bool // adjacency matrix, row-major over (left, reversed right)
	table []int  // sub-rectangle edge counts, (n+1)×(m+1)
}

// NewCrossingWorkspace creates a workspace for a graph of the given size.
// The workspace grows on demand, so size is only a hint.
func NewCrossingWorkspace(size int) *CrossingWorkspace {
	ws := &CrossingWorkspace{}
	ws.grow(size)
	return ws
}

func (ws *CrossingWorkspace) grow(size int) {
	for len(ws.pos) < size {
		ws.pos = append(ws.pos, -1)
	}
}

// CountLayerCrossings returns the number of pairwise edge crossings between
// two adjacent layers, where left holds the parents and right the children.
// It is a convenience wrapper that allocates a fresh workspace.
func CountLayerCrossings(g *DAG, left, right Layer) int {
	return NewCrossingWorkspace(g.Len()).Count(g, left, right)
}

// CountCrossings returns the total crossing count of a layering: the sum
// over every pair of adjacent layers.
func CountCrossings(g *DAG, l Layering) int {
	return NewCrossingWorkspace(g.Len()).Total(g, l)
}

// Total sums [CrossingWorkspace.Count] over every pair of adjacent layers.
func (ws *CrossingWorkspace) Total(g *DAG, l Layering) int {
	total := 0
	for i := 0; i+1 < len(l); i++ {
		total += ws.Count(g, l[i], l[i+1])
	}
	return total
}

// Count returns the number of pairwise edge crossings between left and
// right.
//
// Two edges (i1, j1) and (i2, j2) cross if and only if
//
//	i1 < i2 AND j1 > j2
//
// Reversing the right layer turns this into a dominance relation, so the
// crossings an edge at (i, r) contributes equal the number of edges inside
// the sub-rectangle [0, i) × [0, r). Those counts are memoized in a table
// filled row by row with inclusion-exclusion:
//
//	T[i+1][r+1] = T[i+1][r] + T[i][r+1] - T[i][r] + edge(i, r)
//
// Each cell is computed once, giving O(|left|·|right|) time instead of the
// exponential cost of evaluating the recurrence naively.
//
// Returns 0 when either layer has fewer than two vertices, since at least
// two edges with distinct endpoints on both sides are needed to cross.
func (ws *CrossingWorkspace) Count(g *DAG, left, right Layer) int {
	n, m := len(left), len(right)
	if n < 2 || m < 2 {
		return 0
	}
	ws.grow(g.Len())

	for j, v := range right {
		ws.pos[v] = m - 1 - j
	}
	defer func() {
		for _, v := range right {
			ws.pos[v] = -1
		}
	}()

	if cap(ws.adj) < n*m {
		ws.adj = make([]bool, n*m)
	}
	adj := ws.adj[:n*m]
	clear(adj)

	edges := 0
	for i, v := range left {
		for _, c := range g.Children(v) {
			if r := ws.pos[c]; r >= 0 {
				adj[i*m+r] = true
				edges++
			}
		}
	}
	if edges < 2 {
		return 0
	}

	stride := m + 1
	if cap(ws.table) < (n+1)*stride {
		ws.table = make([]int, (n+1)*stride)
	}
	t := ws.table[:(n+1)*stride]
	clear(t)

	crossings := 0
	for i := range n {
		for r := range m {
			e := 0
			if adj[i*m+r] {
				e = 1
				crossings += t[i*stride+r]
			}
			t[(i+1)*stride+r+1] = t[(i+1)*stride+r] + t[i*stride+r+1] - t[i*stride+r] + e
		}
	}
	return crossings
}

// CountPairCrossings counts crossings between only the edges of two vertices
// u and w of the same layer against the adjacent layer whose positions are
// given in adjPos, assuming u is placed before w. If useParents is true the
// edges to the previous layer are considered, otherwise those to the next.
//
// Vertices missing from adjPos (negative entries) are ignored.
func CountPairCrossings(g *DAG, u, w int, adjPos []int, useParents bool) int {
	var un, wn []int
	if useParents {
		un, wn = g.Parents(u), g.Parents(w)
	} else {
		un, wn = g.Children(u), g.Children(w)
	}

	crossings := 0
	for _, a := range un {
		ap := adjPos[a]
		if ap < 0 {
			continue
		}
		for _, b := range wn {
			if bp := adjPos[b]; bp >= 0 && ap > bp {
				crossings++
			}
		}
	}
	return crossings
}
