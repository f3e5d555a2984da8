package persist

import (
	"bytes"
	"context"
	"testing"

	rank "github.com/sca-research/rankgo"
	"github.com/sca-research/rankgo/codec"
	"github.com/sca-research/rankgo/endian"
	"github.com/stretchr/testify/require"
)

func TestWeightTable_RoundTrip(t *testing.T) {
	dims, err := rank.NewUniformDimensions(3, 4)
	require.NoError(t, err)

	values := make([]uint32, 48)
	for i := range values {
		values[i] = uint32(i * 7 % 251)
	}
	table, err := rank.NewWeightTableFromSlice(dims, values)
	require.NoError(t, err)

	ctx := context.Background()
	for _, algo := range []codec.Algorithm{codec.None, codec.LZ4, codec.S2, codec.Zstd} {
		var buf bytes.Buffer
		require.NoError(t, SaveWeightTable(ctx, &buf, table, WithAlgorithm(algo)))

		loaded, err := LoadWeightTable[uint32](ctx, &buf)
		require.NoError(t, err)
		require.Equal(t, table.AllWeights(), loaded.AllWeights())
		require.True(t, table.Dimensions().Equal(loaded.Dimensions()))
	}
}

func TestScoresTable_RoundTrip(t *testing.T) {
	dims, err := rank.NewUniformDimensions(2, 3)
	require.NoError(t, err)

	values := []float64{1.5, -2.25, 3.0, 0.0, 4.75, -6.125, 8.0, 0.25, 9.9, 1.1, 2.2, 3.3, 4.4, 5.5, 6.6, 7.7}
	table, err := rank.NewScoresTableFromSlice(dims, values)
	require.NoError(t, err)

	ctx := context.Background()
	var buf bytes.Buffer
	require.NoError(t, SaveScoresTable(ctx, &buf, table, WithAlgorithm(codec.Zstd)))

	loaded, err := LoadScoresTable[float64](ctx, &buf)
	require.NoError(t, err)
	require.Equal(t, table.AllScores(), loaded.AllScores())
}

func TestLoadWeightTable_WrongElementKind(t *testing.T) {
	dims, err := rank.NewUniformDimensions(1, 2)
	require.NoError(t, err)
	table, err := rank.NewWeightTableFromSlice(dims, []uint32{1, 2, 3, 4})
	require.NoError(t, err)

	ctx := context.Background()
	var buf bytes.Buffer
	require.NoError(t, SaveWeightTable(ctx, &buf, table, WithAlgorithm(codec.None)))

	_, err = LoadWeightTable[uint16](ctx, &buf)
	require.ErrorIs(t, err, rank.ErrInvalid)
}

func TestLoadWeightTable_CorruptedChecksum(t *testing.T) {
	dims, err := rank.NewUniformDimensions(1, 2)
	require.NoError(t, err)
	table, err := rank.NewWeightTableFromSlice(dims, []uint32{1, 2, 3, 4})
	require.NoError(t, err)

	ctx := context.Background()
	var buf bytes.Buffer
	require.NoError(t, SaveWeightTable(ctx, &buf, table, WithAlgorithm(codec.None)))

	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xFF

	_, err = LoadWeightTable[uint32](ctx, bytes.NewReader(corrupted))
	require.ErrorIs(t, err, rank.ErrLogic)
}

func TestLoadWeightTable_TruncatedHeader(t *testing.T) {
	_, err := LoadWeightTable[uint32](context.Background(), bytes.NewReader([]byte{0x01, 0x02}))
	require.ErrorIs(t, err, rank.ErrLength)
}

func TestWeightTable_RoundTrip_BigEndian(t *testing.T) {
	dims, err := rank.NewUniformDimensions(1, 3)
	require.NoError(t, err)
	table, err := rank.NewWeightTableFromSlice(dims, []uint32{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)

	bigEndian := endian.GetBigEndianEngine()
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, SaveWeightTable(ctx, &buf, table, WithEngine(bigEndian)))
	saved := append([]byte(nil), buf.Bytes()...)

	loaded, err := LoadWeightTable[uint32](ctx, bytes.NewReader(saved), WithEngine(bigEndian))
	require.NoError(t, err)
	require.Equal(t, table.AllWeights(), loaded.AllWeights())
	require.True(t, table.Dimensions().Equal(loaded.Dimensions()))

	// Loading with the wrong byte order misreads the vector-count field
	// that drives how many per-vector widths get parsed, so it fails
	// rather than silently returning a corrupted table.
	_, err = LoadWeightTable[uint32](ctx, bytes.NewReader(saved))
	require.Error(t, err)
}

func TestLoadWeightTable_WrongMagic(t *testing.T) {
	dims, err := rank.NewUniformDimensions(1, 2)
	require.NoError(t, err)
	table, err := rank.NewScoresTableFromSlice(dims, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	ctx := context.Background()
	var buf bytes.Buffer
	require.NoError(t, SaveScoresTable(ctx, &buf, table, WithAlgorithm(codec.None)))

	_, err = LoadWeightTable[uint32](ctx, &buf)
	require.ErrorIs(t, err, rank.ErrInvalid)
}

func TestWeightTable_RoundTrip_ChecksumDisabled(t *testing.T) {
	dims, err := rank.NewUniformDimensions(1, 3)
	require.NoError(t, err)
	table, err := rank.NewWeightTableFromSlice(dims, []uint32{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)

	ctx := context.Background()
	var buf bytes.Buffer
	require.NoError(t, SaveWeightTable(ctx, &buf, table, WithChecksum(false)))

	loaded, err := LoadWeightTable[uint32](ctx, &buf, WithChecksum(false))
	require.NoError(t, err)
	require.Equal(t, table.AllWeights(), loaded.AllWeights())
}

func TestSaveWeightTable_CanceledContext(t *testing.T) {
	dims, err := rank.NewUniformDimensions(1, 2)
	require.NoError(t, err)
	table, err := rank.NewWeightTableFromSlice(dims, []uint32{1, 2, 3, 4})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err = SaveWeightTable(ctx, &buf, table)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, buf.Len())
}
