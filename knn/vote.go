package knn

import (
	"cmp"

	"gonum.org/v1/gonum/floats"
)

// Nearest returns, for every row of dists, the column indices of the k
// smallest distances in ascending order. Equal distances keep their column
// order, so the selection is deterministic.
func Nearest(dists [][]float64, k int) ([][]int, error) {
	if len(dists) == 0 {
		if k < 1 {
			return nil, &ErrInvalidK{K: k, N: 0}
		}
		return [][]int{}, nil
	}
	n := len(dists[0])
	if k < 1 || k > n {
		return nil, &ErrInvalidK{K: k, N: n}
	}
	if err := checkDims(dists, n); err != nil {
		return nil, err
	}
	s := newSelector(n)
	out := make([][]int, len(dists))
	for i, row := range dists {
		out[i] = append([]int(nil), s.nearest(row, k)...)
	}
	return out, nil
}

// PredictLabels turns an M×N distance matrix into M predicted labels, where
// labels[j] is the label of training row j. Each prediction is the most
// frequent label among the k nearest training rows; ties go to the smaller
// label.
func PredictLabels[L cmp.Ordered](dists [][]float64, labels []L, k int) ([]L, error) {
	n := len(labels)
	if k < 1 || k > n {
		return nil, &ErrInvalidK{K: k, N: n}
	}
	if err := checkDims(dists, n); err != nil {
		return nil, err
	}
	s := newSelector(n)
	closest := make([]L, k)
	out := make([]L, len(dists))
	for i, row := range dists {
		for r, j := range s.nearest(row, k) {
			closest[r] = labels[j]
		}
		out[i] = majority(closest)
	}
	return out, nil
}

// selector reuses argsort buffers across rows.
type selector struct {
	sorted []float64
	index  []int
}

func newSelector(n int) *selector {
	return &selector{sorted: make([]float64, n), index: make([]int, n)}
}

// nearest returns the original column indices of the k smallest values in
// row. The result aliases the selector's buffer.
func (s *selector) nearest(row []float64, k int) []int {
	copy(s.sorted, row)
	for j := range s.index {
		s.index[j] = j
	}
	floats.ArgsortStable(s.sorted, s.index)
	return s.index[:k]
}

func majority[L cmp.Ordered](candidates []L) L {
	counts := make(map[L]int, len(candidates))
	for _, l := range candidates {
		counts[l]++
	}
	best, bestCount := candidates[0], 0
	for l, c := range counts {
		if c > bestCount || (c == bestCount && cmp.Less(l, best)) {
			best, bestCount = l, c
		}
	}
	return best
}
