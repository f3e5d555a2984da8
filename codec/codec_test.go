package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func randomPayload(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		// Deliberately repetitive so the compressors below have
		// something to compress; pure random data is a valid input too
		// but would make every compressor's ratio uninteresting to assert on.
		data[i] = byte(i % 17)
	}

	return data
}

func TestCodecs_RoundTrip(t *testing.T) {
	payload := randomPayload(4096)

	for _, tc := range []struct {
		name  string
		codec Codec
	}{
		{"noop", NewNoOpCompressor()},
		{"s2", NewS2Compressor()},
		{"lz4", NewLZ4Compressor()},
		{"zstd", NewZstdCompressor()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			compressed, err := tc.codec.Compress(payload)
			require.NoError(t, err)

			decompressed, err := tc.codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, decompressed)
		})
	}
}

func TestCodecs_EmptyInput(t *testing.T) {
	for _, c := range []Codec{
		NewNoOpCompressor(),
		NewS2Compressor(),
		NewLZ4Compressor(),
		NewZstdCompressor(),
	} {
		compressed, err := c.Compress(nil)
		require.NoError(t, err)

		decompressed, err := c.Decompress(compressed)
		require.NoError(t, err)
		require.Empty(t, decompressed)
	}
}

func TestCreateCodec(t *testing.T) {
	for _, algo := range []Algorithm{None, Zstd, S2, LZ4} {
		c, err := CreateCodec(algo, "test")
		require.NoError(t, err)
		require.NotNil(t, c)
	}

	_, err := CreateCodec(Algorithm(99), "test")
	require.Error(t, err)
}

func TestGetCodec(t *testing.T) {
	c, err := GetCodec(Zstd)
	require.NoError(t, err)
	require.NotNil(t, c)

	_, err = GetCodec(Algorithm(99))
	require.Error(t, err)
}

func TestCompressionStats(t *testing.T) {
	stats := CompressionStats{OriginalSize: 1000, CompressedSize: 250}
	require.InDelta(t, 0.25, stats.CompressionRatio(), 1e-9)
	require.InDelta(t, 75.0, stats.SpaceSavings(), 1e-9)

	zero := CompressionStats{}
	require.Equal(t, 0.0, zero.CompressionRatio())
}

func TestAlgorithm_String(t *testing.T) {
	require.Equal(t, "zstd", Zstd.String())
	require.Equal(t, "none", None.String())
}
