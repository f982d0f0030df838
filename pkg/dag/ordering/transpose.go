package ordering

import "github.com/matzehuels/layerview/pkg/dag"

// transpose swaps adjacent vertices of every layer after the first while a
// swap strictly reduces the crossings with the previous layer. Passes repeat
// until one keeps no swap. It reports whether any swap was kept.
//
// Only the edges of the two swapped vertices change their relative order,
// so comparing their pair crossings in both orders decides the swap without
// recounting the whole layer pair.
func (m *minimizer) transpose() bool {
	improved := false
	for {
		swapped := false
		for r := 1; r < len(m.layers); r++ {
			if m.transposeLayer(r) {
				swapped = true
			}
		}
		if !swapped {
			return improved
		}
		improved = true
	}
}

func (m *minimizer) transposeLayer(r int) bool {
	layer := m.layers[r]
	if len(layer) < 2 {
		return false
	}
	defer m.mark(m.layers[r-1])()

	swapped := false
	for i := 0; i+1 < len(layer); i++ {
		u, w := layer[i], layer[i+1]
		if dag.CountPairCrossings(m.g, w, u, m.pos, true) < dag.CountPairCrossings(m.g, u, w, m.pos, true) {
			layer[i], layer[i+1] = w, u
			swapped = true
		}
	}
	return swapped
}
