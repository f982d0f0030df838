package transform

import (
	"errors"
	"slices"
	"strings"

	"github.com/matzehuels/layerview/pkg/dag"
)

// ErrCycle is the sentinel matched by every [CycleError].
var ErrCycle = errors.New("dependency cycle")

// CycleError describes a directed cycle found in the graph.
type CycleError struct {
	// Path lists the vertex ids along the cycle; the first id is repeated at
	// the end.
	Path []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return ErrCycle.Error()
	}
	return ErrCycle.Error() + ": " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// FindCycle returns the ids along one directed cycle of g, with the first id
// repeated at the end, or nil if g is acyclic. Vertices are visited in arena
// order, so the reported cycle is deterministic.
func FindCycle(g *dag.DAG) []string {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, g.Len())
	var stack []int
	var cycle []int

	var dfs func(v int) bool
	dfs = func(v int) bool {
		color[v] = gray
		stack = append(stack, v)
		for _, child := range g.Children(v) {
			switch color[child] {
			case white:
				if dfs(child) {
					return true
				}
			case gray:
				start := slices.Index(stack, child)
				cycle = append(slices.Clone(stack[start:]), child)
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[v] = black
		return false
	}

	for v := range g.Len() {
		if color[v] == white && dfs(v) {
			break
		}
	}
	if cycle == nil {
		return nil
	}

	path := make([]string, len(cycle))
	for i, v := range cycle {
		path[i] = g.Vertex(v).ID
	}
	return path
}
