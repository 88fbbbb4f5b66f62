package knn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictLabels_UsesOriginalIndices(t *testing.T) {
	// The nearest column is 1, not the first ranked position 0.
	dists := [][]float64{
		{5, 1, 3},
		{0.5, 9, 2},
	}
	labels := []int{10, 20, 30}

	got, err := PredictLabels(dists, labels, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{20, 10}, got)
}

func TestPredictLabels_MajorityVote(t *testing.T) {
	dists := [][]float64{{1, 2, 3, 4, 5}}
	labels := []int{7, 3, 3, 7, 7}

	got, err := PredictLabels(dists, labels, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, got, "two votes for 3 beat one for 7")

	got, err = PredictLabels(dists, labels, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, got)
}

func TestPredictLabels_TieGoesToSmallerLabel(t *testing.T) {
	for _, tc := range []struct {
		name   string
		dists  [][]float64
		labels []int
		k      int
		want   int
	}{
		{name: "smaller label nearer", dists: [][]float64{{1, 2}}, labels: []int{1, 2}, k: 2, want: 1},
		{name: "smaller label farther", dists: [][]float64{{1, 2}}, labels: []int{2, 1}, k: 2, want: 1},
		{name: "two-two split", dists: [][]float64{{1, 2, 3, 4, 9}}, labels: []int{9, 4, 9, 4, 1}, k: 4, want: 4},
		{name: "three-way", dists: [][]float64{{3, 2, 1}}, labels: []int{5, 8, 6}, k: 3, want: 5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PredictLabels(tc.dists, tc.labels, tc.k)
			require.NoError(t, err)
			assert.Equal(t, []int{tc.want}, got)
		})
	}
}

func TestPredictLabels_StringLabels(t *testing.T) {
	got, err := PredictLabels([][]float64{{2, 2}}, []string{"dog", "cat"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat"}, got)
}

func TestPredictLabels_EmptyQuery(t *testing.T) {
	got, err := PredictLabels([][]float64{}, []int{1, 2}, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPredictLabels_InvalidK(t *testing.T) {
	dists := [][]float64{{1, 2}}
	for _, k := range []int{0, -1, 3} {
		_, err := PredictLabels(dists, []int{1, 2}, k)
		var ik *ErrInvalidK
		require.ErrorAs(t, err, &ik, "k=%d", k)
		assert.Equal(t, k, ik.K)
		assert.Equal(t, 2, ik.N)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestPredictLabels_RowLengthMismatch(t *testing.T) {
	_, err := PredictLabels([][]float64{{1, 2}, {1}}, []int{1, 2}, 1)
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 1, dm.Row)
}

func TestNearest(t *testing.T) {
	dists := [][]float64{
		{4, 1, 3, 1, 0},
		{2, 2, 2, 2, 2},
	}
	got, err := Nearest(dists, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{4, 1, 3}, {0, 1, 2}}, got)

	again, err := Nearest(dists, 3)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = Nearest(dists, 6)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	empty, err := Nearest(nil, 1)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNearest_DoesNotModifyInput(t *testing.T) {
	dists := [][]float64{{3, 1, 2}}
	_, err := Nearest(dists, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{3, 1, 2}}, dists)
}
