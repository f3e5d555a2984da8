// Package numeric collects the small numeric building blocks the rank
// algorithms are generic over: the unsigned/floating type constraints
// standing in for the C++ original's template parameters, a Kahan-stable
// summation helper, and the bit-width arithmetic BitSpan and Key need to
// decide whether a requested integer type is wide enough.
package numeric

import "math/bits"

// Unsigned is the type set a weight or subkey-index element may range
// over. No third-party constraints package is used anywhere in the
// retrieved corpus (golang.org/x/exp/constraints never appears), so this
// is hand-rolled the same minimal way most generic Go libraries do it.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Float is the type set a score element may range over.
type Float interface {
	~float32 | ~float64
}

// Digits returns the number of value bits held by I, i.e. what the C++
// original calls std::numeric_limits<IntType>::digits for an unsigned
// integer type: the full bit width, since these are all unsigned.
func Digits[I Unsigned]() int {
	var zero I
	switch any(zero).(type) {
	case uint8:
		return 8
	case uint16:
		return 16
	case uint32:
		return 32
	case uint64:
		return 64
	case uint:
		return bits.UintSize
	case uintptr:
		return bits.UintSize
	default:
		return 64
	}
}

// KahanSum computes a Kahan-compensated sum over xs, tracking the running
// rounding error in a separate accumulator so repeated addition of many
// small floats doesn't drift the way a naive running sum would.
func KahanSum[F Float](xs []F) F {
	var sum, compensation F
	for _, x := range xs {
		y := x - compensation
		t := sum + y
		compensation = (t - sum) - y
		sum = t
	}

	return sum
}
