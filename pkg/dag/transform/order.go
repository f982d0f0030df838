package transform

import (
	"cmp"
	"slices"

	"github.com/matzehuels/layerview/pkg/dag"
)

// CoffmanGraham returns a topological order of every vertex of g in which all
// parents precede their children.
//
// At each step the least eligible vertex is appended, where eligible means
// all of its parents are already placed. The comparison is:
//
//  1. A parentless vertex beats one with parents.
//  2. Between two parentless vertices, the lower rank wins.
//  3. Between two vertices with parents, the positions of their parents are
//     sorted in descending order and compared lexicographically; the smaller
//     list wins, and a list that is a prefix of the other counts as smaller.
//
// Ties go to the vertex that was added to g first.
//
// If no vertex is eligible while some remain, g contains a cycle and a
// [*CycleError] is returned.
//
// # Performance
//
// Each selection scans all remaining vertices, so the total cost is O(V²)
// plus sorting each parent set once, when its vertex becomes eligible.
func CoffmanGraham(g *dag.DAG) ([]int, error) {
	n := g.Len()
	order := make([]int, 0, n)
	pos := make([]int, n)
	pending := make([]int, n)
	keys := make([][]int, n)
	remaining := make([]int, n)

	for v := range n {
		remaining[v] = v
		pending[v] = len(g.Parents(v))
	}

	less := func(a, b int) bool {
		pa, pb := len(g.Parents(a)) == 0, len(g.Parents(b)) == 0
		switch {
		case pa && pb:
			return g.Vertex(a).Rank < g.Vertex(b).Rank
		case pa != pb:
			return pa
		default:
			return slices.Compare(keys[a], keys[b]) < 0
		}
	}

	for len(remaining) > 0 {
		best := -1
		for k, v := range remaining {
			if pending[v] > 0 {
				continue
			}
			if best < 0 || less(v, remaining[best]) {
				best = k
			}
		}
		if best < 0 {
			return nil, &CycleError{Path: FindCycle(g)}
		}

		v := remaining[best]
		remaining = slices.Delete(remaining, best, best+1)
		pos[v] = len(order)
		order = append(order, v)

		for _, c := range g.Children(v) {
			pending[c]--
			if pending[c] == 0 {
				keys[c] = parentKey(g, c, pos)
			}
		}
	}
	return order, nil
}

// parentKey returns the positions of v's parents in descending order.
func parentKey(g *dag.DAG, v int, pos []int) []int {
	key := make([]int, len(g.Parents(v)))
	for i, p := range g.Parents(v) {
		key[i] = pos[p]
	}
	slices.SortFunc(key, func(a, b int) int { return cmp.Compare(b, a) })
	return key
}
