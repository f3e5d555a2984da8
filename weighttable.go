package rank

import (
	"math"

	"github.com/sca-research/rankgo/internal/numeric"
	"github.com/sca-research/rankgo/internal/pool"
)

// WeightTable holds the per-subkey integer weights a ScoresTable has been
// mapped to, laid out flat the same way ScoresTable is: vector i's
// subkey j lives at ScoresBeforeCount(i)+j.
type WeightTable[T numeric.Unsigned] struct {
	dims    Dimensions
	weights []T
}

// NewWeightTable allocates a zero-valued WeightTable shaped by dims.
func NewWeightTable[T numeric.Unsigned](dims Dimensions) (*WeightTable[T], error) {
	n, err := dims.ScoresCount()
	if err != nil {
		return nil, err
	}

	return &WeightTable[T]{dims: dims, weights: make([]T, n)}, nil
}

// NewWeightTableFromSlice wraps an existing flat weight slice with dims.
// ErrLength is returned if the slice's length doesn't match
// dims.ScoresCount(). The slice is taken by reference, not copied.
func NewWeightTableFromSlice[T numeric.Unsigned](dims Dimensions, weights []T) (*WeightTable[T], error) {
	n, err := dims.ScoresCount()
	if err != nil {
		return nil, err
	}
	if len(weights) != n {
		return nil, newError(KindLength, "weights slice has length %d, dimensions require %d", len(weights), n)
	}

	return &WeightTable[T]{dims: dims, weights: weights}, nil
}

// Dimensions returns the table's shape.
func (w *WeightTable[T]) Dimensions() Dimensions { return w.dims }

// AllWeights returns the table's flat backing slice. The returned slice
// aliases the table's storage; mutating it mutates the table.
func (w *WeightTable[T]) AllWeights() []T { return w.weights }

// Weight returns the weight of subkeyIndex within vectorIndex.
// ErrOutOfRange is returned for an invalid index.
func (w *WeightTable[T]) Weight(vectorIndex, subkeyIndex int) (T, error) {
	offset, err := w.dims.ScoresBeforeCount(vectorIndex)
	if err != nil {
		var zero T
		return zero, err
	}
	count, err := w.dims.SubkeyCount(vectorIndex)
	if err != nil {
		var zero T
		return zero, err
	}
	if subkeyIndex < 0 || subkeyIndex >= count {
		var zero T
		return zero, newError(KindOutOfRange, "subkey index %d out of range [0,%d)", subkeyIndex, count)
	}

	return w.weights[offset+subkeyIndex], nil
}

// SetWeight sets the weight of subkeyIndex within vectorIndex.
// ErrOutOfRange is returned for an invalid index.
func (w *WeightTable[T]) SetWeight(vectorIndex, subkeyIndex int, value T) error {
	offset, err := w.dims.ScoresBeforeCount(vectorIndex)
	if err != nil {
		return err
	}
	count, err := w.dims.SubkeyCount(vectorIndex)
	if err != nil {
		return err
	}
	if subkeyIndex < 0 || subkeyIndex >= count {
		return newError(KindOutOfRange, "subkey index %d out of range [0,%d)", subkeyIndex, count)
	}

	w.weights[offset+subkeyIndex] = value
	return nil
}

// Rebase shifts every weight by a constant so the table-wide minimum
// becomes newMin.
func (w *WeightTable[T]) Rebase(newMin T) {
	if len(w.weights) == 0 {
		return
	}

	minValue := w.weights[0]
	for _, v := range w.weights[1:] {
		if v < minValue {
			minValue = v
		}
	}

	if minValue >= newMin {
		shift := minValue - newMin
		for i, v := range w.weights {
			w.weights[i] = v - shift
		}
	} else {
		shift := newMin - minValue
		for i, v := range w.weights {
			w.weights[i] = v + shift
		}
	}
}

// SortAscending sorts each vector's weights independently in ascending
// order. The rank algorithms do not depend on this ordering.
func (w *WeightTable[T]) SortAscending() error {
	return w.sortEachVector(func(a, b T) bool { return a < b })
}

// SortDescending sorts each vector's weights independently in descending
// order.
func (w *WeightTable[T]) SortDescending() error {
	return w.sortEachVector(func(a, b T) bool { return a > b })
}

func (w *WeightTable[T]) sortEachVector(less func(a, b T) bool) error {
	for v := 0; v < w.dims.VectorCount(); v++ {
		offset, err := w.dims.ScoresBeforeCount(v)
		if err != nil {
			return err
		}
		count, err := w.dims.SubkeyCount(v)
		if err != nil {
			return err
		}

		slice := w.weights[offset : offset+count]
		insertionSort(slice, less)
	}

	return nil
}

// insertionSort is used instead of sort.Slice: vectors are typically a
// handful to a few hundred elements wide, and avoiding the closure
// allocation sort.Slice needs for every comparison matters when this
// runs once per vector for every key ranked in a batch.
func insertionSort[T any](s []T, less func(a, b T) bool) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && less(s[j], s[j-1]); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// MinimumWeight returns the sum, across every vector, of that vector's
// smallest weight.
func (w *WeightTable[T]) MinimumWeight() (T, error) {
	return w.vectorExtremeSum(func(a, b T) bool { return a < b })
}

// MaximumWeight returns the sum, across every vector, of that vector's
// largest weight.
func (w *WeightTable[T]) MaximumWeight() (T, error) {
	return w.vectorExtremeSum(func(a, b T) bool { return a > b })
}

func (w *WeightTable[T]) vectorExtremeSum(better func(a, b T) bool) (T, error) {
	var total T
	for v := 0; v < w.dims.VectorCount(); v++ {
		offset, err := w.dims.ScoresBeforeCount(v)
		if err != nil {
			return 0, err
		}
		count, err := w.dims.SubkeyCount(v)
		if err != nil {
			return 0, err
		}

		slice := w.weights[offset : offset+count]
		best := slice[0]
		for _, v := range slice[1:] {
			if better(v, best) {
				best = v
			}
		}
		total += best
	}

	return total, nil
}

// WeightForKey sums, across every vector, the weight of the subkey value
// key actually holds at that vector's span.
func WeightForKey[T numeric.Unsigned](w *WeightTable[T], key Key) (T, error) {
	var total T
	for v := 0; v < w.dims.VectorCount(); v++ {
		span, err := w.dims.Span(v)
		if err != nil {
			return 0, err
		}

		subkeyValue, err := SubkeyValue[uint64](key, span)
		if err != nil {
			return 0, err
		}

		weight, err := w.Weight(v, int(subkeyValue))
		if err != nil {
			return 0, err
		}
		total += weight
	}

	return total, nil
}

// MapToWeight maps a ScoresTable's floating-point scores to integer
// weights of type W, preserving relative ordering within each vector.
// precisionBits controls how many bits of dynamic range the mapping
// preserves and must be at least 2. The resulting table is rebased so its
// minimum weight is 1, which both avoids zero-weight subkeys (so every
// key's total weight is positive, as RankKey requires) and speeds later
// rank computation, matching the source. ErrLogic is returned if the
// largest score is not positive.
func MapToWeight[S numeric.Float, W numeric.Unsigned](scores *ScoresTable[S], precisionBits uint32) (*WeightTable[W], error) {
	if precisionBits < 2 {
		return nil, newError(KindInvalid, "cannot run MapToWeight at less than 2 bits of precision")
	}

	all := scores.AllScores()
	if len(all) == 0 {
		return nil, newError(KindInvalid, "cannot run MapToWeight on an empty scores table")
	}

	maxScore := all[0]
	for _, v := range all[1:] {
		if v > maxScore {
			maxScore = v
		}
	}

	alpha := math.Log2(float64(maxScore))
	if maxScore <= 0 || math.IsInf(alpha, 0) || math.IsNaN(alpha) {
		return nil, newError(KindLogic, "max score is %v, must be positive; cannot apply MapToWeight", maxScore)
	}

	multiplier := math.Pow(2, float64(precisionBits)-alpha)

	// Computed in a pool-borrowed scratch buffer rather than directly in
	// the table's own backing slice, then copied in: the table's slice
	// must outlive this call and be exclusively its own, which a
	// pool-managed buffer (reused by the next GetSlice caller once
	// released) cannot guarantee.
	scratch, release := pool.GetSlice[W](len(all))
	for i, v := range all {
		scratch[i] = W(float64(v) * multiplier)
	}

	weights, err := NewWeightTable[W](scores.Dimensions())
	if err != nil {
		release()
		return nil, err
	}
	copy(weights.AllWeights(), scratch)
	release()

	weights.Rebase(1)
	return weights, nil
}
