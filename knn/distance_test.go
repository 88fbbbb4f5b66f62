package knn

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomRows(rng *rand.Rand, n, dim int, scale float64) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, dim)
		for j := range rows[i] {
			rows[i][j] = (rng.Float64()*2 - 1) * scale
		}
	}
	return rows
}

var distanceFuncs = map[Strategy]func(train, query [][]float64) ([][]float64, error){
	ZeroLoop: ZeroLoopDistances,
	OneLoop:  OneLoopDistances,
	TwoLoop:  TwoLoopDistances,
}

func TestDistances_KnownValues(t *testing.T) {
	train := [][]float64{{0, 0}, {3, 4}, {-1, 0}}
	query := [][]float64{{0, 0}, {3, 0}}
	want := [][]float64{
		{0, 5, 1},
		{3, 4, 4},
	}

	for s, fn := range distanceFuncs {
		t.Run(s.String(), func(t *testing.T) {
			got, err := fn(train, query)
			require.NoError(t, err)
			require.Len(t, got, len(want))
			for i := range want {
				require.Len(t, got[i], len(want[i]))
				for j := range want[i] {
					assert.InDelta(t, want[i][j], got[i][j], 1e-9, "dists[%d][%d]", i, j)
				}
			}
		})
	}
}

func TestDistances_StrategiesAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for _, tc := range []struct {
		name    string
		n, m, d int
		scale   float64
	}{
		{name: "small", n: 5, m: 3, d: 2, scale: 1},
		{name: "wide", n: 40, m: 17, d: 64, scale: 1},
		{name: "large-values", n: 25, m: 9, d: 12, scale: 255},
		{name: "single", n: 1, m: 1, d: 1, scale: 10},
	} {
		t.Run(tc.name, func(t *testing.T) {
			train := randomRows(rng, tc.n, tc.d, tc.scale)
			query := randomRows(rng, tc.m, tc.d, tc.scale)

			ref, err := TwoLoopDistances(train, query)
			require.NoError(t, err)
			one, err := OneLoopDistances(train, query)
			require.NoError(t, err)
			zero, err := ZeroLoopDistances(train, query)
			require.NoError(t, err)

			for i := range ref {
				for j := range ref[i] {
					assert.InDelta(t, ref[i][j], one[i][j], 1e-5)
					assert.InDelta(t, ref[i][j], zero[i][j], 1e-5)
				}
			}
		})
	}
}

func TestDistances_IdenticalRowsAreZero(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	train := randomRows(rng, 12, 16, 10)

	for s, fn := range distanceFuncs {
		t.Run(s.String(), func(t *testing.T) {
			dists, err := fn(train, train)
			require.NoError(t, err)
			for i := range dists {
				assert.InDelta(t, 0, dists[i][i], 1e-5)
				for j := range dists[i] {
					assert.GreaterOrEqual(t, dists[i][j], 0.0)
				}
			}
		})
	}
}

func TestDistances_Empty(t *testing.T) {
	train := [][]float64{{1, 2}, {3, 4}}

	for s, fn := range distanceFuncs {
		t.Run(s.String(), func(t *testing.T) {
			dists, err := fn(train, nil)
			require.NoError(t, err)
			assert.Empty(t, dists)

			dists, err = fn(nil, [][]float64{{1, 2}, {5, 6}, {7, 8}})
			require.NoError(t, err)
			require.Len(t, dists, 3)
			for _, row := range dists {
				assert.Empty(t, row)
			}
		})
	}
}

func TestDistances_DimensionMismatch(t *testing.T) {
	train := [][]float64{{1, 2}, {3, 4}}
	query := [][]float64{{1, 2}, {1, 2, 3}}

	for s, fn := range distanceFuncs {
		t.Run(s.String(), func(t *testing.T) {
			_, err := fn(train, query)
			require.ErrorIs(t, err, ErrInvalidArgument)
			var dm *ErrDimensionMismatch
			require.ErrorAs(t, err, &dm)
			assert.Equal(t, 1, dm.Row)
			assert.Equal(t, 2, dm.Expected)
			assert.Equal(t, 3, dm.Actual)
		})
	}
}

func TestDistances_InvalidTrainingSet(t *testing.T) {
	_, err := ZeroLoopDistances([][]float64{{1, 2}, {3}}, [][]float64{{1, 2}})
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 1, dm.Row)

	_, err = TwoLoopDistances([][]float64{{}}, [][]float64{{}})
	var id *ErrInvalidDimension
	require.ErrorAs(t, err, &id)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDistances_InvalidStrategy(t *testing.T) {
	_, err := computeDistances(Strategy(3), [][]float64{{1}}, [][]float64{{2}})
	var is *ErrInvalidStrategy
	require.ErrorAs(t, err, &is)
	assert.Equal(t, Strategy(3), is.Strategy)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
