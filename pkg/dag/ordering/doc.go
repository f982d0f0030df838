// Package ordering reduces edge crossings by reordering vertices within their
// layers.
//
// # Algorithm
//
// [Minimize] runs up to [Options.MaxRounds] improvement rounds over a
// layering whose edges are all tight. Each round:
//
//  1. Sweeps the layers with the weighted median heuristic. Even rounds go
//     from the sources to the sinks and sort each layer by the median
//     position of its parents; odd rounds go the other way and use children.
//  2. From round [Options.TransposeAfter] on, swaps adjacent vertices while a
//     swap strictly reduces crossings with the previous layer.
//  3. Recounts total crossings and snapshots the layering if it beats the
//     best one seen so far.
//
// The loop stops early after a round in which the median sweep moved nothing,
// no swap was kept, and the best snapshot did not change. The best snapshot
// is returned, so the result never has more crossings than the input.
//
// # Weighted Median
//
// For a vertex with neighbor positions P (sorted, m = len(P)):
//
//	m odd      P[m/2]
//	m == 2     (P[0] + P[1]) / 2
//	otherwise  (P[k-1]·right + P[k]·left) / (left + right), k = m/2
//	           left = P[k-1] - P[0], right = P[m-1] - P[k]
//
// The interpolation leans toward the side where neighbors are packed more
// tightly. A vertex without neighbors in the swept direction keeps its slot.
package ordering
