package dag

import (
	"slices"
	"testing"
)

// bipartite builds a graph with n left and m right vertices and the given
// edges, expressed as (left index, right index) pairs.
func bipartite(t *testing.T, n, m int, edges [][2]int) (*DAG, Layer, Layer) {
	t.Helper()
	g := New()
	left := make(Layer, n)
	right := make(Layer, m)
	for i := range n {
		left[i], _ = g.AddVertex(string(rune('a'+i)), 0)
	}
	for j := range m {
		right[j], _ = g.AddVertex(string(rune('A'+j)), 0)
	}
	for _, e := range edges {
		if err := g.AddEdge(left[e[0]], right[e[1]]); err != nil {
			t.Fatalf("AddEdge(%v) error = %v", e, err)
		}
	}
	return g, left, right
}

// naiveCrossings compares every pair of edges.
func naiveCrossings(g *DAG, left, right Layer) int {
	type edge struct{ i, j int }
	var edges []edge
	for i, v := range left {
		for _, c := range g.Children(v) {
			if j := slices.Index(right, c); j >= 0 {
				edges = append(edges, edge{i, j})
			}
		}
	}
	n := 0
	for a := range edges {
		for b := a + 1; b < len(edges); b++ {
			e, f := edges[a], edges[b]
			if (e.i < f.i && e.j > f.j) || (e.i > f.i && e.j < f.j) {
				n++
			}
		}
	}
	return n
}

func TestCountLayerCrossings(t *testing.T) {
	tests := []struct {
		name  string
		n, m  int
		edges [][2]int
		want  int
	}{
		{"no edges", 3, 3, nil, 0},
		{"parallel", 2, 2, [][2]int{{0, 0}, {1, 1}}, 0},
		{"single cross", 2, 2, [][2]int{{0, 1}, {1, 0}}, 1},
		{"shared endpoint", 2, 2, [][2]int{{0, 0}, {1, 0}}, 0},
		{"complete 2x2", 2, 2, [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, 1},
		{"full reversal", 3, 3, [][2]int{{0, 2}, {1, 1}, {2, 0}}, 3},
		{"fan", 3, 4, [][2]int{{0, 3}, {1, 0}, {1, 2}, {2, 1}, {2, 3}}, 4},
		{"single vertex left", 1, 3, [][2]int{{0, 0}, {0, 2}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, left, right := bipartite(t, tt.n, tt.m, tt.edges)
			if got := CountLayerCrossings(g, left, right); got != tt.want {
				t.Errorf("CountLayerCrossings() = %d, want %d", got, tt.want)
			}
			if naive := naiveCrossings(g, left, right); naive != tt.want {
				t.Errorf("naiveCrossings() = %d, want %d (bad fixture)", naive, tt.want)
			}
		})
	}
}

func TestCountLayerCrossings_SymmetricUnderReversal(t *testing.T) {
	edges := [][2]int{{0, 3}, {0, 1}, {1, 0}, {2, 2}, {2, 4}, {3, 1}, {4, 0}, {4, 4}}
	g, left, right := bipartite(t, 5, 5, edges)

	want := CountLayerCrossings(g, left, right)
	rl, rr := slices.Clone(left), slices.Clone(right)
	slices.Reverse(rl)
	slices.Reverse(rr)

	if got := CountLayerCrossings(g, rl, rr); got != want {
		t.Errorf("reversed CountLayerCrossings() = %d, want %d", got, want)
	}
}

func TestCrossingWorkspace_MatchesNaive(t *testing.T) {
	edges := [][2]int{{0, 5}, {0, 2}, {1, 4}, {1, 0}, {2, 3}, {3, 1}, {3, 5}, {4, 0}, {4, 2}, {5, 4}}
	g, left, right := bipartite(t, 6, 6, edges)
	ws := NewCrossingWorkspace(0)

	// Walk through every rotation of the right layer, reusing the workspace.
	for k := range len(right) {
		rot := append(slices.Clone(right[k:]), right[:k]...)
		if got, want := ws.Count(g, left, rot), naiveCrossings(g, left, rot); got != want {
			t.Errorf("rotation %d: Count() = %d, want %d", k, got, want)
		}
	}
}

func TestCountCrossings_Total(t *testing.T) {
	g := New()
	a, _ := g.AddVertex("a", 0)
	b, _ := g.AddVertex("b", 0)
	x, _ := g.AddVertex("x", 0)
	y, _ := g.AddVertex("y", 0)
	p, _ := g.AddVertex("p", 0)
	q, _ := g.AddVertex("q", 0)
	_ = g.AddEdge(a, y)
	_ = g.AddEdge(b, x)
	_ = g.AddEdge(x, q)
	_ = g.AddEdge(y, p)

	l := Layering{{a, b}, {x, y}, {p, q}}
	if got := CountCrossings(g, l); got != 2 {
		t.Errorf("CountCrossings() = %d, want 2", got)
	}
	l[1] = Layer{y, x}
	if got := CountCrossings(g, l); got != 0 {
		t.Errorf("CountCrossings() after swap = %d, want 0", got)
	}
}

func TestCountPairCrossings(t *testing.T) {
	g, left, right := bipartite(t, 2, 2, [][2]int{{0, 1}, {1, 0}})
	pos := Layering{left, right}.Positions(g)

	if got := CountPairCrossings(g, left[0], left[1], pos, false); got != 1 {
		t.Errorf("CountPairCrossings(a, b) = %d, want 1", got)
	}
	if got := CountPairCrossings(g, left[1], left[0], pos, false); got != 0 {
		t.Errorf("CountPairCrossings(b, a) = %d, want 0", got)
	}
	if got := CountPairCrossings(g, right[0], right[1], pos, true); got != 1 {
		t.Errorf("CountPairCrossings(A, B, parents) = %d, want 1", got)
	}
}
