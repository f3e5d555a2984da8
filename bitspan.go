// Package rank computes, for a side-channel key-recovery attack's scored
// subkey candidates, the position ("rank") of the true key within the
// likelihood-ordered enumeration of all candidate keys — without ever
// enumerating them.
//
// # Core workflow
//
//	dims, _ := rank.NewUniformDimensions(16, 8) // 16 bytes, 8 bits each
//	scores, _ := rank.NewScoresTable[float64](dims)
//	// ... populate scores from the attack ...
//	scores.TranslateVectorsToPositive()
//	scores.NormaliseVectors()
//	scores.Log2()
//	scores.Abs()
//	weights, _ := rank.MapToWeight[float64, uint32](scores, 16)
//
//	key, _ := rank.NewKeyFromHex(128, "00112233445566778899aabbccddeeff")
//	r, _ := rank.RankKey(key, weights, rank.BigAccumulator{})
//
// # Generic accumulator types
//
// The C++ original parameterizes its rank DP over a caller-chosen
// RankType (typically an arbitrary-precision integer). Go generics can
// constrain a type parameter to a set of underlying numeric kinds, but
// cannot express "supports +" for an arbitrary struct like *big.Int. This
// package therefore pairs the rank type parameter R with an explicit
// Accumulator[R] value supplying Zero() and Add() — see Accumulator,
// Uint64Accumulator, and BigAccumulator.
package rank

import (
	"fmt"

	"github.com/sca-research/rankgo/internal/numeric"
)

// BitSpan is a contiguous run of bit positions inside a key: the bits
// [Start, End] (inclusive) belong to one subkey vector.
type BitSpan struct {
	start uint32
	count uint32
}

// NewBitSpan constructs a BitSpan covering count bits starting at start.
// It fails with ErrInvalid if count is zero, and with ErrOverflow if
// start+count would overflow uint32.
func NewBitSpan(start, count uint32) (BitSpan, error) {
	if count == 0 {
		return BitSpan{}, newError(KindInvalid, "BitSpan cannot have a bit count of zero")
	}
	if start+count < start {
		return BitSpan{}, newError(KindOverflow, "bit span definition overflows uint32 bounds")
	}

	return BitSpan{start: start, count: count}, nil
}

// Start returns the span's first bit index.
func (s BitSpan) Start() uint32 { return s.start }

// Count returns the number of bits the span covers.
func (s BitSpan) Count() uint32 { return s.count }

// End returns the span's last (inclusive) bit index.
func (s BitSpan) End() uint32 { return s.start + s.count - 1 }

// ValueCount returns 2^Count as an I, failing with ErrOverflow if Count is
// too wide for I (i.e. would overflow or shift out of range).
func ValueCount[I numeric.Unsigned](s BitSpan) (I, error) {
	if int(s.count) > numeric.Digits[I]()-1 {
		var zero I
		return zero, newError(KindOverflow, "value count too large for requested type (count=%d)", s.count)
	}

	return I(1) << s.count, nil
}

// SubkeyRange returns every subkey index 0..ValueCount[I](s) in ascending
// order as a Go range-over-func iterator, failing the same way ValueCount
// does if Count doesn't fit I.
func SubkeyRange[I numeric.Unsigned](s BitSpan) (func(yield func(I) bool), error) {
	n, err := ValueCount[I](s)
	if err != nil {
		return nil, err
	}

	return func(yield func(I) bool) {
		for i := I(0); i < n; i++ {
			if !yield(i) {
				return
			}
		}
	}, nil
}

// Encapsulates reports whether s fully contains other: s.Start <=
// other.Start && s.End >= other.End.
func (s BitSpan) Encapsulates(other BitSpan) bool {
	return s.start <= other.start && s.End() >= other.End()
}

// String renders the span as "BitSpan{start:S, count:C}" for
// debugging/test output.
func (s BitSpan) String() string {
	return fmt.Sprintf("BitSpan{start:%d, count:%d}", s.start, s.count)
}
