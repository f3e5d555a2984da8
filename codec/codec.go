// Package codec provides pluggable compression for the byte payloads
// persist writes to disk: a WeightTable's or ScoresTable's flat value
// buffer, after header and checksum framing.
package codec

import "fmt"

// Algorithm identifies a compression algorithm a persisted table payload
// was (or should be) compressed with. It is stored in a table's on-disk
// header so a loader can pick the matching Decompressor without the
// caller having to remember which algorithm was used to save it.
type Algorithm uint8

const (
	// None stores the payload uncompressed.
	None Algorithm = iota
	// Zstd uses klauspost/compress's pure-Go zstd implementation, or
	// valyala/gozstd's cgo binding when built with the gozstd build tag.
	Zstd
	// S2 uses klauspost/compress/s2, a Snappy-compatible, faster-decoding
	// format tuned for throughput over ratio.
	S2
	// LZ4 uses pierrec/lz4, favoring decompression speed.
	LZ4
)

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Algorithm(%d)", uint8(a))
	}
}

// Compressor compresses a table payload prior to writing it to storage.
//
// Memory management:
//   - Returned slice is owned by the caller (NoOpCompressor returns the
//     input slice itself; S2 and LZ4 return nil for empty input)
//   - Input slice is not modified
//   - Internal buffers may be reused for efficiency
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses Compressor, restoring the original table
// payload bytes a persisted file's header says were compressed with a
// matching Algorithm.
//
// Thread Safety: Decompressor implementations must be safe for
// concurrent use.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats reports the effect of a compression operation, useful
// when persist logs or benchmarks table save sizes.
type CompressionStats struct {
	Algorithm           Algorithm
	OriginalSize        int64
	CompressedSize      int64
	CompressionTimeNs   int64
	DecompressionTimeNs int64
}

// CompressionRatio returns compressed size / original size. Values below
// 1.0 indicate successful compression.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space saved as a percentage (0-100).
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec is a factory function that creates a fresh Codec instance
// for the given Algorithm. target names the caller for error messages.
func CreateCodec(algorithm Algorithm, target string) (Codec, error) {
	switch algorithm {
	case None:
		return NewNoOpCompressor(), nil
	case Zstd:
		return NewZstdCompressor(), nil
	case S2:
		return NewS2Compressor(), nil
	case LZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, algorithm)
	}
}

var builtinCodecs = map[Algorithm]Codec{
	None: NewNoOpCompressor(),
	Zstd: NewZstdCompressor(),
	S2:   NewS2Compressor(),
	LZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a shared, built-in Codec for the given Algorithm.
// Unlike CreateCodec, the returned instance is shared across callers;
// use it when a stateless codec is fine, which all built-ins are.
func GetCodec(algorithm Algorithm) (Codec, error) {
	if codec, ok := builtinCodecs[algorithm]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", algorithm)
}
