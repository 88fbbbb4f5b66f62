package knn

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// trainSet is the memorized training matrix together with the packed form
// used by the vectorized strategies. dense and norms are nil when empty.
type trainSet struct {
	rows  [][]float64
	dim   int
	dense *mat.Dense
	norms *mat.VecDense // squared L2 norm of every training row
}

func newTrainSet(rows [][]float64) (*trainSet, error) {
	ts := &trainSet{rows: rows}
	if len(rows) == 0 {
		return ts, nil
	}
	dim := len(rows[0])
	if dim == 0 {
		return nil, &ErrInvalidDimension{Dimension: dim}
	}
	if err := checkDims(rows, dim); err != nil {
		return nil, err
	}
	ts.dim = dim
	ts.dense = pack(rows, dim)
	ts.norms = squaredNorms(ts.dense)
	return ts, nil
}

// TwoLoopDistances computes the len(query)×len(train) Euclidean distance
// matrix by visiting every (query, train) pair.
func TwoLoopDistances(train, query [][]float64) ([][]float64, error) {
	return computeDistances(TwoLoop, train, query)
}

// OneLoopDistances computes the distance matrix one query row at a time, each
// row broadcast against the whole training matrix.
func OneLoopDistances(train, query [][]float64) ([][]float64, error) {
	return computeDistances(OneLoop, train, query)
}

// ZeroLoopDistances computes the distance matrix with matrix products only.
func ZeroLoopDistances(train, query [][]float64) ([][]float64, error) {
	return computeDistances(ZeroLoop, train, query)
}

func computeDistances(strategy Strategy, train, query [][]float64) ([][]float64, error) {
	ts, err := newTrainSet(train)
	if err != nil {
		return nil, err
	}
	return ts.compute(strategy, query)
}

func (ts *trainSet) compute(strategy Strategy, query [][]float64) ([][]float64, error) {
	if !strategy.Valid() {
		return nil, &ErrInvalidStrategy{Strategy: strategy}
	}
	if len(ts.rows) > 0 {
		if err := checkDims(query, ts.dim); err != nil {
			return nil, err
		}
	}
	switch strategy {
	case TwoLoop:
		return ts.twoLoop(query), nil
	case OneLoop:
		return ts.oneLoop(query), nil
	default:
		return ts.zeroLoop(query), nil
	}
}

func (ts *trainSet) twoLoop(query [][]float64) [][]float64 {
	dists, _ := newDistances(len(query), len(ts.rows))
	diff := make([]float64, ts.dim)
	for i, q := range query {
		for j, t := range ts.rows {
			floats.SubTo(diff, q, t)
			dists[i][j] = floats.Norm(diff, 2)
		}
	}
	return dists
}

func (ts *trainSet) oneLoop(query [][]float64) [][]float64 {
	n := len(ts.rows)
	dists, _ := newDistances(len(query), n)
	if n == 0 {
		return dists
	}
	rowOnes := ones(n)
	featureOnes := ones(ts.dim)
	var diff mat.Dense
	for i, q := range query {
		diff.Outer(1, rowOnes, mat.NewVecDense(ts.dim, q))
		diff.Sub(&diff, ts.dense)
		diff.MulElem(&diff, &diff)
		sums := mat.NewVecDense(n, dists[i])
		sums.MulVec(&diff, featureOnes)
		sqrtInPlace(dists[i])
	}
	return dists
}

func (ts *trainSet) zeroLoop(query [][]float64) [][]float64 {
	m, n := len(query), len(ts.rows)
	dists, buf := newDistances(m, n)
	if m == 0 || n == 0 {
		return dists
	}
	q := pack(query, ts.dim)

	grid := mat.NewDense(m, n, buf)
	grid.Outer(1, squaredNorms(q), ones(n))
	var trainGrid mat.Dense
	trainGrid.Outer(1, ones(m), ts.norms)
	grid.Add(grid, &trainGrid)

	var cross mat.Dense
	cross.Mul(q, ts.dense.T())
	cross.Scale(-2, &cross)
	grid.Add(grid, &cross)

	// Rounding can leave tiny negatives where the true squared distance is 0.
	grid.Apply(func(_, _ int, v float64) float64 {
		return math.Sqrt(math.Max(v, 0))
	}, grid)
	return dists
}

// newDistances allocates an m×n matrix whose rows share one contiguous buffer.
func newDistances(m, n int) ([][]float64, []float64) {
	buf := make([]float64, m*n)
	dists := make([][]float64, m)
	for i := range dists {
		dists[i] = buf[i*n : (i+1)*n : (i+1)*n]
	}
	return dists, buf
}

func checkDims(rows [][]float64, dim int) error {
	for i, row := range rows {
		if len(row) != dim {
			return &ErrDimensionMismatch{Row: i, Expected: dim, Actual: len(row)}
		}
	}
	return nil
}

func pack(rows [][]float64, dim int) *mat.Dense {
	data := make([]float64, 0, len(rows)*dim)
	for _, row := range rows {
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), dim, data)
}

func squaredNorms(m *mat.Dense) *mat.VecDense {
	r, c := m.Dims()
	var sq mat.Dense
	sq.MulElem(m, m)
	norms := mat.NewVecDense(r, nil)
	norms.MulVec(&sq, ones(c))
	return norms
}

func ones(n int) *mat.VecDense {
	data := make([]float64, n)
	floats.AddConst(1, data)
	return mat.NewVecDense(n, data)
}

func sqrtInPlace(v []float64) {
	for i := range v {
		v[i] = math.Sqrt(v[i])
	}
}
