package persist

import (
	"context"
	"fmt"
	"io"

	rank "github.com/sca-research/rankgo"
	"github.com/sca-research/rankgo/codec"
	"github.com/sca-research/rankgo/endian"
	"github.com/sca-research/rankgo/internal/hash"
	"github.com/sca-research/rankgo/internal/numeric"
	"github.com/sca-research/rankgo/internal/pool"
)

// DefaultEngine is the byte order Save/Load calls use unless overridden
// with WithEngine (most callers don't need to override it — persisted
// tables are typically read back on the same architecture they were
// written on).
var DefaultEngine = endian.GetLittleEndianEngine()

// SaveWeightTable writes table to w: a header (magic, format version,
// element width, compression algorithm, per-vector bit widths, checksum)
// followed by table's flat weight slice, compressed per opts (defaults
// to codec.Zstd over little-endian fields; see WithAlgorithm, WithEngine).
//
// ctx is checked for cancellation before any work begins, matching this
// module's convention of taking a context on I/O-bound entry points so
// a caller persisting a large table as part of a longer-running
// operation can abort it promptly.
func SaveWeightTable[T numeric.Unsigned](ctx context.Context, w io.Writer, table *rank.WeightTable[T], opts ...Option) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg, err := applyOptions(opts)
	if err != nil {
		return err
	}

	kind, err := unsignedKind[T]()
	if err != nil {
		return err
	}

	raw := encodeUnsigned(table.AllWeights(), kind, cfg.engine)
	return writeTable(w, magicWeightTable, kind, cfg, table.Dimensions().Widths(), raw)
}

// LoadWeightTable reads a table previously written by SaveWeightTable.
// rank.ErrInvalid is returned if the stored element kind doesn't match
// T's on-disk representation. The compression algorithm is read back
// from the file's own header; only WithEngine and WithChecksum have any
// effect here, and must match what the matching Save call used.
func LoadWeightTable[T numeric.Unsigned](ctx context.Context, r io.Reader, opts ...Option) (*rank.WeightTable[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	wantKind, err := unsignedKind[T]()
	if err != nil {
		return nil, err
	}

	dims, raw, gotKind, err := readTable(r, magicWeightTable, cfg)
	if err != nil {
		return nil, err
	}
	if gotKind != wantKind {
		return nil, fmt.Errorf("%w: table was saved with element kind %d, requested type has kind %d", rank.ErrInvalid, gotKind, wantKind)
	}

	values, err := decodeUnsigned[T](raw, gotKind, cfg.engine)
	if err != nil {
		return nil, err
	}

	return rank.NewWeightTableFromSlice(dims, values)
}

// SaveScoresTable writes table to w in the same framing SaveWeightTable
// uses, storing its floating-point scores instead of integer weights.
func SaveScoresTable[T numeric.Float](ctx context.Context, w io.Writer, table *rank.ScoresTable[T], opts ...Option) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg, err := applyOptions(opts)
	if err != nil {
		return err
	}

	kind := floatKind[T]()

	raw := encodeFloat(table.AllScores(), kind, cfg.engine)
	return writeTable(w, magicScoresTable, kind, cfg, table.Dimensions().Widths(), raw)
}

// LoadScoresTable reads a table previously written by SaveScoresTable.
func LoadScoresTable[T numeric.Float](ctx context.Context, r io.Reader, opts ...Option) (*rank.ScoresTable[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	dims, raw, kind, err := readTable(r, magicScoresTable, cfg)
	if err != nil {
		return nil, err
	}

	values, err := decodeFloat[T](raw, kind, cfg.engine)
	if err != nil {
		return nil, err
	}

	return rank.NewScoresTableFromSlice(dims, values)
}

func writeTable(w io.Writer, magic string, kind elementKind, cfg *config, widths []uint32, raw []byte) error {
	compressor, err := codec.CreateCodec(cfg.algorithm, "persist")
	if err != nil {
		return err
	}

	compressed, err := compressor.Compress(raw)
	if err != nil {
		return fmt.Errorf("%w: compressing table payload: %v", rank.ErrLogic, err)
	}

	h := header{
		magic:           magic,
		version:         formatVersion,
		kind:            kind,
		algorithm:       cfg.algorithm,
		checksumPresent: cfg.checksum,
		widths:          widths,
		payloadLength:   uint64(len(compressed)),
	}
	if cfg.checksum {
		h.checksum = hash.Checksum(raw)
	}

	buf := pool.GetTableBuffer()
	defer pool.PutTableBuffer(buf)

	buf.B = h.encode(buf.B, cfg.engine)
	buf.B = append(buf.B, compressed...)

	_, err = buf.WriteTo(w)
	return err
}

func readTable(r io.Reader, wantMagic string, cfg *config) (rank.Dimensions, []byte, elementKind, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return rank.Dimensions{}, nil, 0, fmt.Errorf("%w: reading persisted table: %v", rank.ErrLogic, err)
	}

	h, offset, err := decodeHeader(data, wantMagic, cfg.engine)
	if err != nil {
		return rank.Dimensions{}, nil, 0, err
	}

	compressed := data[offset:]
	if uint64(len(compressed)) != h.payloadLength {
		return rank.Dimensions{}, nil, 0, fmt.Errorf("%w: payload length mismatch: header says %d, have %d", rank.ErrLength, h.payloadLength, len(compressed))
	}

	decompressor, err := codec.GetCodec(h.algorithm)
	if err != nil {
		return rank.Dimensions{}, nil, 0, err
	}

	raw, err := decompressor.Decompress(compressed)
	if err != nil {
		return rank.Dimensions{}, nil, 0, fmt.Errorf("%w: decompressing table payload: %v", rank.ErrLogic, err)
	}

	if cfg.checksum && h.checksumPresent {
		if got := hash.Checksum(raw); got != h.checksum {
			return rank.Dimensions{}, nil, 0, fmt.Errorf("%w: checksum mismatch: expected %x, got %x", rank.ErrLogic, h.checksum, got)
		}
	}

	dims, err := rank.DimensionsFromWidths(h.widths)
	if err != nil {
		return rank.Dimensions{}, nil, 0, err
	}

	return dims, raw, h.kind, nil
}
