package evaluate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccuracy(t *testing.T) {
	acc, err := Accuracy([]int{1, 2, 3, 4}, []int{1, 2, 0, 4})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, acc, 1e-12)

	acc, err = Accuracy([]string{}, []string{})
	require.NoError(t, err)
	assert.Zero(t, acc)

	_, err = Accuracy([]int{1}, []int{1, 2})
	assert.Error(t, err)
}
