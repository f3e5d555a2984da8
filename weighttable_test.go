package rank

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeightTable_SetAndGetWeight(t *testing.T) {
	dims, err := NewUniformDimensions(2, 2)
	require.NoError(t, err)
	table, err := NewWeightTable[uint32](dims)
	require.NoError(t, err)

	require.NoError(t, table.SetWeight(0, 3, 42))
	v, err := table.Weight(0, 3)
	require.NoError(t, err)
	require.Equal(t, uint32(42), v)
}

func TestWeightTable_Rebase(t *testing.T) {
	dims, err := NewUniformDimensions(1, 2)
	require.NoError(t, err)
	table, err := NewWeightTableFromSlice(dims, []uint32{5, 8, 3, 10})
	require.NoError(t, err)

	table.Rebase(1)
	require.Equal(t, []uint32{3, 6, 1, 8}, table.AllWeights())
}

func TestWeightTable_SortAscendingPerVector(t *testing.T) {
	dims, err := NewUniformDimensions(2, 1)
	require.NoError(t, err)
	table, err := NewWeightTableFromSlice(dims, []uint32{5, 2, 9, 1})
	require.NoError(t, err)

	require.NoError(t, table.SortAscending())
	require.Equal(t, []uint32{2, 5, 1, 9}, table.AllWeights())
}

func TestWeightTable_MinMaxWeight(t *testing.T) {
	dims, err := NewUniformDimensions(2, 1)
	require.NoError(t, err)
	table, err := NewWeightTableFromSlice(dims, []uint32{5, 2, 9, 1})
	require.NoError(t, err)

	min, err := table.MinimumWeight()
	require.NoError(t, err)
	require.Equal(t, uint32(3), min) // 2 + 1

	max, err := table.MaximumWeight()
	require.NoError(t, err)
	require.Equal(t, uint32(14), max) // 5 + 9
}

func TestWeightForKey(t *testing.T) {
	dims, err := NewUniformDimensions(2, 4)
	require.NoError(t, err)
	weights := make([]uint32, 32)
	for i := range weights {
		weights[i] = uint32(i)
	}
	table, err := NewWeightTableFromSlice(dims, weights)
	require.NoError(t, err)

	key, err := NewKeyFromHex(8, "a5")
	require.NoError(t, err)

	got, err := WeightForKey(table, key)
	require.NoError(t, err)

	span0, _ := dims.Span(0)
	span1, _ := dims.Span(1)
	sub0, _ := SubkeyValue[uint64](key, span0)
	sub1, _ := SubkeyValue[uint64](key, span1)
	w0, _ := table.Weight(0, int(sub0))
	w1, _ := table.Weight(1, int(sub1))
	require.Equal(t, w0+w1, got)
}

func TestMapToWeight(t *testing.T) {
	dims, err := NewUniformDimensions(2, 2)
	require.NoError(t, err)
	scores, err := NewScoresTableFromSlice(dims, []float64{1, 2, 4, 8, 1, 1, 1, 1})
	require.NoError(t, err)

	weights, err := MapToWeight[float64, uint32](scores, 8)
	require.NoError(t, err)

	// the minimum weight anywhere in the table must be exactly 1
	minAll := weights.AllWeights()[0]
	for _, v := range weights.AllWeights() {
		if v < minAll {
			minAll = v
		}
	}
	require.Equal(t, uint32(1), minAll)

	// relative order within vector 0 preserved: 1 < 2 < 4 < 8
	w := weights.AllWeights()
	require.Less(t, w[0], w[1])
	require.Less(t, w[1], w[2])
	require.Less(t, w[2], w[3])
}

func TestMapToWeight_TooLowPrecision(t *testing.T) {
	dims, err := NewUniformDimensions(1, 1)
	require.NoError(t, err)
	scores, err := NewScoresTableFromSlice(dims, []float64{1, 2})
	require.NoError(t, err)

	_, err = MapToWeight[float64, uint32](scores, 1)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestMapToWeight_ZeroMaxScore(t *testing.T) {
	dims, err := NewUniformDimensions(1, 1)
	require.NoError(t, err)
	scores, err := NewScoresTableFromSlice(dims, []float64{0, 0})
	require.NoError(t, err)

	_, err = MapToWeight[float64, uint32](scores, 8)
	require.ErrorIs(t, err, ErrLogic)
}
