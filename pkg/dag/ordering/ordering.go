package ordering

import (
	"errors"

	"github.com/matzehuels/layerview/pkg/dag"
)

const (
	// DefaultMaxRounds is the default round budget of [Minimize].
	DefaultMaxRounds = 20

	// DefaultTransposeAfter is the first round in which transposition runs.
	// Earlier rounds leave the gross order to the median sweep, which is
	// much cheaper.
	DefaultTransposeAfter = 4
)

// ErrInvalidOptions is returned by [Options.Validate].
var ErrInvalidOptions = errors.New("invalid ordering options")

// Options bounds the work done by [Minimize].
type Options struct {
	MaxRounds      int
	TransposeAfter int
}

// DefaultOptions returns the default round budget.
func DefaultOptions() Options {
	return Options{MaxRounds: DefaultMaxRounds, TransposeAfter: DefaultTransposeAfter}
}

// Validate reports whether the options are usable.
func (o Options) Validate() error {
	if o.MaxRounds < 1 || o.TransposeAfter < 0 {
		return ErrInvalidOptions
	}
	return nil
}

// Stats describes a [Minimize] run.
type Stats struct {
	Rounds           int // rounds actually executed
	InitialCrossings int // crossings of the input layering
	Crossings        int // crossings of the returned layering
}

// Minimize reorders the vertices of every layer of l to reduce edge
// crossings and returns the best layering seen. l is used as scratch space
// and must not be read afterwards; the returned layering is a separate copy.
//
// Every edge of g must be tight with respect to l, see
// [dag.Layering.Validate]. Layer membership never changes, only the order
// inside each layer.
func Minimize(g *dag.DAG, l dag.Layering, opts Options) (dag.Layering, Stats) {
	ws := dag.NewCrossingWorkspace(g.Len())
	m := &minimizer{g: g, layers: l, pos: make([]int, g.Len())}
	for i := range m.pos {
		m.pos[i] = -1
	}

	best := l.Clone()
	bestScore := ws.Total(g, l)
	stats := Stats{InitialCrossings: bestScore}

	for stats.Rounds < opts.MaxRounds {
		improved := m.medianSweep(stats.Rounds%2 == 0)
		if stats.Rounds >= opts.TransposeAfter && m.transpose() {
			improved = true
		}
		stats.Rounds++

		if score := ws.Total(g, m.layers); score < bestScore {
			best, bestScore = m.layers.Clone(), score
			improved = true
		}
		if !improved {
			break
		}
	}

	stats.Crossings = bestScore
	return best, stats
}

type minimizer struct {
	g      *dag.DAG
	layers dag.Layering
	pos    []int // scratch: positions of the adjacent layer, -1 elsewhere
}

// mark records the positions of layer in the scratch buffer and returns a
// function that clears them again.
func (m *minimizer) mark(layer dag.Layer) func() {
	for j, v := range layer {
		m.pos[v] = j
	}
	return func() {
		for _, v := range layer {
			m.pos[v] = -1
		}
	}
}
