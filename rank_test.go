package rank

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustDims(t *testing.T, vectorCount, width uint32) Dimensions {
	t.Helper()
	dims, err := NewUniformDimensions(vectorCount, width)
	require.NoError(t, err)
	return dims
}

func mustWeights(t *testing.T, dims Dimensions, values []uint64) *WeightTable[uint64] {
	t.Helper()
	wt, err := NewWeightTableFromSlice(dims, values)
	require.NoError(t, err)
	return wt
}

func TestRank_TwoTwoBitVectors(t *testing.T) {
	dims := mustDims(t, 2, 2)
	wt := mustWeights(t, dims, []uint64{0, 1, 3, 0, 0, 2, 3, 0})

	key, err := NewKeyFromHex(4, "06")
	require.NoError(t, err)

	w, err := WeightForKey(wt, key)
	require.NoError(t, err)
	require.Equal(t, uint64(5), w)

	r, err := RankKey[uint64](key, wt, Uint64Accumulator{})
	require.NoError(t, err)
	require.Equal(t, uint64(14), r)

	rlm, err := RankLowMem[uint64](5, wt, Uint64Accumulator{})
	require.NoError(t, err)
	require.Equal(t, uint64(14), rlm)

	all, err := RankAllWeights[uint64](7, wt, Uint64Accumulator{})
	require.NoError(t, err)
	require.Equal(t, []uint64{4, 6, 8, 13, 14, 15, 16}, all)
}

func TestRank_ThreeTwoBitVectors(t *testing.T) {
	dims := mustDims(t, 3, 2)
	wt := mustWeights(t, dims, []uint64{1, 2, 4, 1, 1, 3, 4, 1, 1, 1, 2, 2})

	key, err := NewKeyFromHex(6, "19")
	require.NoError(t, err)

	w, err := WeightForKey(wt, key)
	require.NoError(t, err)

	rr, err := Rank[uint64](w, wt, Uint64Accumulator{})
	require.NoError(t, err)
	require.Equal(t, uint64(42), rr)

	rlm, err := RankLowMem[uint64](w, wt, Uint64Accumulator{})
	require.NoError(t, err)
	require.Equal(t, uint64(42), rlm)

	all, err := RankAllWeights[uint64](11, wt, Uint64Accumulator{})
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 0, 0, 8, 20, 28, 42, 54, 58, 62, 64}, all)
}

func TestRank_UnbalancedVectors(t *testing.T) {
	a, err := NewBitSpan(0, 3)
	require.NoError(t, err)
	b, err := NewBitSpan(3, 2)
	require.NoError(t, err)
	dims, err := NewDimensions([]BitSpan{a, b})
	require.NoError(t, err)

	wt := mustWeights(t, dims, []uint64{1, 1, 3, 1, 2, 1, 2, 1, 1, 2, 3, 1})

	key, err := NewKeyFromHex(5, "1A")
	require.NoError(t, err)

	w, err := WeightForKey(wt, key)
	require.NoError(t, err)

	r, err := Rank[uint64](w, wt, Uint64Accumulator{})
	require.NoError(t, err)
	require.Equal(t, uint64(19), r)

	all, err := RankAllWeights[uint64](7, wt, Uint64Accumulator{})
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 0, 10, 19, 28, 31, 32}, all)
}

func TestRank_ZeroRankCase(t *testing.T) {
	dims := mustDims(t, 2, 2)
	wt := mustWeights(t, dims, []uint64{11, 15, 3, 6, 7, 2, 6, 19})

	key, err := NewKeyFromHex(4, "06")
	require.NoError(t, err)

	w, err := WeightForKey(wt, key)
	require.NoError(t, err)

	r, err := Rank[uint64](w, wt, Uint64Accumulator{})
	require.NoError(t, err)
	require.Equal(t, uint64(0), r)

	rlm, err := RankLowMem[uint64](w, wt, Uint64Accumulator{})
	require.NoError(t, err)
	require.Equal(t, uint64(0), rlm)
}

func TestRank_ZeroMaxWeight(t *testing.T) {
	dims := mustDims(t, 2, 2)
	wt := mustWeights(t, dims, []uint64{0, 1, 3, 0, 0, 2, 3, 0})

	_, err := Rank[uint64](0, wt, Uint64Accumulator{})
	require.ErrorIs(t, err, ErrInvalid)

	_, err = RankLowMem[uint64](0, wt, Uint64Accumulator{})
	require.ErrorIs(t, err, ErrInvalid)

	_, err = RankAllWeights[uint64](0, wt, Uint64Accumulator{})
	require.ErrorIs(t, err, ErrInvalid)
}

func TestRankKey_ZeroWeight(t *testing.T) {
	dims := mustDims(t, 1, 1)
	wt := mustWeights(t, dims, []uint64{0, 5})

	key, err := NewKeyFromHex(1, "00")
	require.NoError(t, err)

	_, err = RankKey[uint64](key, wt, Uint64Accumulator{})
	require.ErrorIs(t, err, ErrInvalid)
}

func TestRank_BigAccumulator(t *testing.T) {
	dims := mustDims(t, 2, 2)
	wt := mustWeights(t, dims, []uint64{0, 1, 3, 0, 0, 2, 3, 0})

	key, err := NewKeyFromHex(4, "06")
	require.NoError(t, err)

	r, err := RankKey(key, wt, BigAccumulator{})
	require.NoError(t, err)
	require.Equal(t, "14", r.String())
}

func TestSubkeyValue_SpecExamples(t *testing.T) {
	key, err := NewKeyFromBytes(32, []byte{0x01, 0x02, 0x03, 0x04})
	require.NoError(t, err)

	span, err := NewBitSpan(8, 16)
	require.NoError(t, err)
	v, err := SubkeyValue[uint64](key, span)
	require.NoError(t, err)
	require.Equal(t, uint64(770), v)

	span0, err := NewBitSpan(0, 1)
	require.NoError(t, err)
	v0, err := SubkeyValue[uint64](key, span0)
	require.NoError(t, err)
	require.Equal(t, uint64(1), v0)
}

func TestApproximateRank(t *testing.T) {
	dims := mustDims(t, 2, 2)
	scores, err := NewScoresTableFromSlice(dims, []float64{4, 1, 3, 2, 2, 4, 1, 3})
	require.NoError(t, err)

	key, err := NewKeyFromHex(4, "01") // subkey0=1, subkey1=0
	require.NoError(t, err)

	r, err := ApproximateRank(scores, key, ScoreLess[float64], Uint64Accumulator{})
	require.NoError(t, err)
	// vector0: correct subkey index 1 -> score 1; others [4,3,2] all
	// greater -> 0 lower -> subkeyRank=0 -> factor 1
	// vector1: correct subkey index 0 -> score 2; others [4,1,3]:
	// only index1(1) is lower -> subkeyRank=1 -> factor 2
	require.Equal(t, uint64(2), r)
}

func TestApproximateRank_BigAccumulator(t *testing.T) {
	dims := mustDims(t, 2, 2)
	scores, err := NewScoresTableFromSlice(dims, []float64{4, 1, 3, 2, 2, 4, 1, 3})
	require.NoError(t, err)

	key, err := NewKeyFromHex(4, "01")
	require.NoError(t, err)

	r, err := ApproximateRank(scores, key, ScoreLess[float64], BigAccumulator{})
	require.NoError(t, err)
	require.Equal(t, "2", r.String())
}
