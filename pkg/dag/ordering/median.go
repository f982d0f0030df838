package ordering

import (
	"cmp"
	"slices"
)

// medianSweep reorders every layer by the weighted median of its neighbors
// in the layer just processed. It reports whether any layer changed.
func (m *minimizer) medianSweep(forward bool) bool {
	changed := false
	if forward {
		for i := 1; i < len(m.layers); i++ {
			if m.sortByMedian(i, i-1, true) {
				changed = true
			}
		}
		return changed
	}
	for i := len(m.layers) - 2; i >= 0; i-- {
		if m.sortByMedian(i, i+1, false) {
			changed = true
		}
	}
	return changed
}

type entry struct {
	v      int
	median float64
}

// sortByMedian stably sorts the movable vertices of layer i by median and
// leaves fixed vertices in their slots.
func (m *minimizer) sortByMedian(i, adj int, useParents bool) bool {
	layer := m.layers[i]
	if len(layer) < 2 {
		return false
	}
	defer m.mark(m.layers[adj])()

	var slots []int
	var entries []entry
	var buf []int
	for j, v := range layer {
		buf = m.neighborPositions(buf[:0], v, useParents)
		med, ok := WeightedMedian(buf)
		if !ok {
			continue
		}
		slots = append(slots, j)
		entries = append(entries, entry{v, med})
	}

	slices.SortStableFunc(entries, func(a, b entry) int { return cmp.Compare(a.median, b.median) })

	changed := false
	for k, j := range slots {
		if layer[j] != entries[k].v {
			layer[j] = entries[k].v
			changed = true
		}
	}
	return changed
}

// neighborPositions appends the sorted positions of v's neighbors in the
// marked adjacent layer to dst.
func (m *minimizer) neighborPositions(dst []int, v int, useParents bool) []int {
	var nbrs []int
	if useParents {
		nbrs = m.g.Parents(v)
	} else {
		nbrs = m.g.Children(v)
	}
	for _, n := range nbrs {
		if p := m.pos[n]; p >= 0 {
			dst = append(dst, p)
		}
	}
	slices.Sort(dst)
	return dst
}

// WeightedMedian returns the weighted median of sorted neighbor positions.
// It returns false when positions is empty, meaning the vertex is fixed.
func WeightedMedian(positions []int) (float64, bool) {
	n := len(positions)
	k := n / 2
	switch {
	case n == 0:
		return 0, false
	case n%2 == 1:
		return float64(positions[k]), true
	case n == 2:
		return float64(positions[0]+positions[1]) / 2, true
	}

	left := float64(positions[k-1] - positions[0])
	right := float64(positions[n-1] - positions[k])
	if left+right == 0 {
		return float64(positions[k-1]+positions[k]) / 2, true
	}
	return (float64(positions[k-1])*right + float64(positions[k])*left) / (left + right), true
}
