package rank

import "math/big"

// Accumulator supplies the zero value, unit value, and addition operation
// a rank computation needs for its result type R. Go's type constraints
// can express "R is one of these numeric kinds" but cannot express
// "R supports operator+" for an arbitrary type like *big.Int, which has
// no underlying numeric kind at all. Passing an Accumulator[R] value
// alongside the R type parameter closes that gap — the same shape as the
// functional-options package's Func[T] wrapping a plain function to
// satisfy a generic interface a bare type parameter couldn't.
//
// A rank count is at most 2^keyLengthBits, so it can exceed 2^64 only
// for keys longer than 64 bits; BigAccumulator is the usual choice for
// full-size keys, while Uint64Accumulator is cheaper and fine as long as
// the caller knows the count fits.
type Accumulator[R any] interface {
	// Zero returns the additive identity.
	Zero() R
	// One returns the multiplicative identity, used to seed the DP's
	// innermost "no vectors ranked yet" state.
	One() R
	// Add returns a + b. Implementations must not mutate a or b.
	Add(a, b R) R
}

// Uint64Accumulator is an Accumulator[uint64]. It is the cheapest option
// but silently wraps on overflow like any fixed-width integer arithmetic,
// matching the unchecked WeightType/RankType arithmetic of the source
// this package is based on.
type Uint64Accumulator struct{}

func (Uint64Accumulator) Zero() uint64          { return 0 }
func (Uint64Accumulator) One() uint64           { return 1 }
func (Uint64Accumulator) Add(a, b uint64) uint64 { return a + b }

// BigAccumulator is an Accumulator[*big.Int]. Every value it produces or
// returns from Add is a fresh *big.Int; none of the inputs are mutated,
// so callers may freely reuse weight-table-derived big.Int values across
// calls.
type BigAccumulator struct{}

func (BigAccumulator) Zero() *big.Int { return new(big.Int) }
func (BigAccumulator) One() *big.Int  { return big.NewInt(1) }
func (BigAccumulator) Add(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}
