package persist

import (
	"fmt"

	rank "github.com/sca-research/rankgo"
	"github.com/sca-research/rankgo/endian"
	"github.com/sca-research/rankgo/internal/numeric"
)

// unsignedKind maps an unsigned numeric type parameter to its on-disk
// elementKind. Only the fixed-width kinds are supported — uint and
// uintptr are platform-dependent in size, which would make a file
// written on one machine unreadable on another, so they're rejected
// rather than silently persisted at whatever native width happened to
// be built.
func unsignedKind[T numeric.Unsigned]() (elementKind, error) {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return kindUint8, nil
	case uint16:
		return kindUint16, nil
	case uint32:
		return kindUint32, nil
	case uint64:
		return kindUint64, nil
	default:
		return 0, fmt.Errorf("%w: persist does not support platform-dependent width types (uint/uintptr)", rank.ErrInvalid)
	}
}

func floatKind[T numeric.Float]() elementKind {
	var zero T
	switch any(zero).(type) {
	case float32:
		return kindFloat32
	default:
		return kindFloat64
	}
}

// encodeUnsigned flattens values into their on-disk byte representation
// using engine's byte order, matching kind's width.
func encodeUnsigned[T numeric.Unsigned](values []T, kind elementKind, engine endian.EndianEngine) []byte {
	width := kind.byteWidth()
	buf := make([]byte, len(values)*width)

	for i, v := range values {
		off := i * width
		switch kind {
		case kindUint8:
			buf[off] = byte(v)
		case kindUint16:
			engine.PutUint16(buf[off:], uint16(v))
		case kindUint32:
			engine.PutUint32(buf[off:], uint32(v))
		case kindUint64:
			engine.PutUint64(buf[off:], uint64(v))
		}
	}

	return buf
}

// decodeUnsigned is the inverse of encodeUnsigned. rank.ErrLength is
// returned if data's length isn't a multiple of kind's width.
func decodeUnsigned[T numeric.Unsigned](data []byte, kind elementKind, engine endian.EndianEngine) ([]T, error) {
	width := kind.byteWidth()
	if width == 0 || len(data)%width != 0 {
		return nil, fmt.Errorf("%w: payload length %d is not a multiple of element width %d", rank.ErrLength, len(data), width)
	}

	values := make([]T, len(data)/width)
	for i := range values {
		off := i * width
		switch kind {
		case kindUint8:
			values[i] = T(data[off])
		case kindUint16:
			values[i] = T(engine.Uint16(data[off:]))
		case kindUint32:
			values[i] = T(engine.Uint32(data[off:]))
		case kindUint64:
			values[i] = T(engine.Uint64(data[off:]))
		}
	}

	return values, nil
}

// encodeFloat flattens values into their IEEE-754 on-disk byte
// representation using engine's byte order, matching kind's width.
func encodeFloat[T numeric.Float](values []T, kind elementKind, engine endian.EndianEngine) []byte {
	width := kind.byteWidth()
	buf := make([]byte, len(values)*width)

	for i, v := range values {
		off := i * width
		switch kind {
		case kindFloat32:
			engine.PutUint32(buf[off:], float32ToBits(float32(v)))
		case kindFloat64:
			engine.PutUint64(buf[off:], float64ToBits(float64(v)))
		}
	}

	return buf
}

// decodeFloat is the inverse of encodeFloat. rank.ErrLength is returned
// if data's length isn't a multiple of kind's width.
func decodeFloat[T numeric.Float](data []byte, kind elementKind, engine endian.EndianEngine) ([]T, error) {
	width := kind.byteWidth()
	if width == 0 || len(data)%width != 0 {
		return nil, fmt.Errorf("%w: payload length %d is not a multiple of element width %d", rank.ErrLength, len(data), width)
	}

	values := make([]T, len(data)/width)
	for i := range values {
		off := i * width
		switch kind {
		case kindFloat32:
			values[i] = T(bitsToFloat32(engine.Uint32(data[off:])))
		case kindFloat64:
			values[i] = T(bitsToFloat64(engine.Uint64(data[off:])))
		}
	}

	return values, nil
}
