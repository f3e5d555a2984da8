// Package codec implements the Compressor/Decompressor/Codec interfaces
// persist uses to shrink a table's serialized value buffer before
// writing it, and expand it again on load.
//
// # Supported algorithms
//
//   - None: no compression, fastest, largest output.
//   - Zstd: best ratio, moderate speed. Uses klauspost/compress's pure-Go
//     implementation by default; building with the gozstd tag switches to
//     valyala/gozstd's cgo binding for better throughput at the cost of a
//     C toolchain dependency.
//   - S2: klauspost/compress/s2, a Snappy-compatible format tuned for
//     decompression throughput over ratio.
//   - LZ4: pierrec/lz4, fast to decompress, moderate ratio.
//
// A table's serialized header records which Algorithm it was saved with,
// so a loader always picks the matching Decompressor via GetCodec without
// the caller needing to remember which one was used.
//
// # Choosing an algorithm
//
// Weight tables are typically small (a few KB to a few hundred KB of
// flat unsigned-integer values) and read far more often than written, so
// Zstd's ratio usually wins unless load latency matters more than disk
// footprint, in which case LZ4 or S2 trade ratio for decompression
// speed. None is mainly useful for already-incompressible data or when
// debugging persisted output by eye.
//
// # Thread safety
//
// All codec implementations are safe for concurrent use. GetCodec
// returns a shared instance; CreateCodec returns a fresh one when a
// caller wants to avoid that sharing.
package codec
