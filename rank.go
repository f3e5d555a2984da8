package rank

import (
	"github.com/sca-research/rankgo/internal/numeric"
	"github.com/sca-research/rankgo/internal/pool"
)

// Rank counts the number of subkey combinations whose total weight is
// strictly less than maxWeight, summed over every vector in weights'
// Dimensions. This is the key metric a side-channel evaluator reports:
// the true key's Rank (see RankKey) estimates how many candidates an
// attacker enumerating by descending likelihood would try before
// reaching it.
//
// weights need not be sorted: the DP only uses the per-subkey weight
// values, not their order within a vector. ErrInvalid is returned if
// maxWeight is zero.
func Rank[R any, W numeric.Unsigned](maxWeight W, weights *WeightTable[W], acc Accumulator[R]) (R, error) {
	var zero R
	if maxWeight == 0 {
		return zero, newError(KindInvalid, "the weight to rank to must be > 0")
	}

	dims := weights.Dimensions()
	vectorCount := dims.VectorCount()

	curr, releaseCurr := pool.GetSlice[R](int(maxWeight))
	defer releaseCurr()
	prev, releasePrev := pool.GetSlice[R](int(maxWeight))
	defer releasePrev()
	one := acc.One()
	for i := range curr {
		curr[i] = acc.Zero()
		prev[i] = one
	}

	for vi := vectorCount - 1; vi >= 1; vi-- {
		count, err := dims.SubkeyCount(vi)
		if err != nil {
			return zero, err
		}

		for ski := count - 1; ski >= 0; ski-- {
			weight, err := weights.Weight(vi, ski)
			if err != nil {
				return zero, err
			}
			if maxWeight < weight {
				continue
			}

			currStart := int(maxWeight - weight)
			for cwi, pwi := currStart-1, int(maxWeight)-1; cwi >= 0; cwi, pwi = cwi-1, pwi-1 {
				curr[cwi] = acc.Add(curr[cwi], prev[pwi])
			}
		}

		copy(prev, curr)
		for i := range curr {
			curr[i] = acc.Zero()
		}
	}

	// Only weight-0 entries of the final (index-0) vector can contribute,
	// since everything else has already accumulated weight from the rest
	// of the key.
	count0, err := dims.SubkeyCount(0)
	if err != nil {
		return zero, err
	}
	for ski := count0 - 1; ski >= 0; ski-- {
		weight, err := weights.Weight(0, ski)
		if err != nil {
			return zero, err
		}
		if weight < maxWeight {
			curr[0] = acc.Add(curr[0], prev[int(weight)])
		}
	}

	return curr[0], nil
}

// RankKey computes Rank against the weight of the given key, i.e. the
// count of candidate combinations that would be enumerated strictly
// before the true key. ErrInvalid is returned if the key's weight is
// zero (Rank requires a positive bound).
func RankKey[R any, W numeric.Unsigned](key Key, weights *WeightTable[W], acc Accumulator[R]) (R, error) {
	var zero R

	keyWeight, err := WeightForKey(weights, key)
	if err != nil {
		return zero, err
	}
	if keyWeight == 0 {
		return zero, newError(KindInvalid, "weight for the known key must be > 0")
	}

	return Rank(keyWeight, weights, acc)
}

// RankLowMem computes the same quantity as Rank but in a single
// O(maxWeight) buffer instead of two, at the cost of an extra O(vector
// count) pass per weight bucket. Prefer it over Rank when maxWeight is
// large enough that the second buffer's footprint matters and the extra
// pass is affordable.
func RankLowMem[R any, W numeric.Unsigned](maxWeight W, weights *WeightTable[W], acc Accumulator[R]) (R, error) {
	var zero R
	if maxWeight == 0 {
		return zero, newError(KindInvalid, "the weight to rank to must be > 0")
	}

	dims := weights.Dimensions()
	vectorCount := dims.VectorCount()

	curr, release := pool.GetSlice[R](int(maxWeight))
	defer release()

	// With a single vector there is nothing to seed from: the rank is the
	// number of its subkeys lighter than maxWeight.
	if vectorCount == 1 {
		temp := acc.Zero()
		for ski := 0; ski < len(weights.AllWeights()); ski++ {
			if weights.AllWeights()[ski] < maxWeight {
				temp = acc.Add(temp, acc.One())
			}
		}
		return temp, nil
	}

	lastCount, err := dims.SubkeyCount(vectorCount - 1)
	if err != nil {
		return zero, err
	}
	for wi := W(0); wi < maxWeight; wi++ {
		temp := acc.Zero()
		for ski := 0; ski < lastCount; ski++ {
			weight, err := weights.Weight(vectorCount-1, ski)
			if err != nil {
				return zero, err
			}
			if wi+weight < maxWeight {
				temp = acc.Add(temp, acc.One())
			}
		}
		curr[wi] = temp
	}

	for vi := vectorCount - 2; vi >= 1; vi-- {
		count, err := dims.SubkeyCount(vi)
		if err != nil {
			return zero, err
		}

		for wi := W(0); wi < maxWeight; wi++ {
			temp := acc.Zero()
			for ski := 0; ski < count; ski++ {
				weight, err := weights.Weight(vi, ski)
				if err != nil {
					return zero, err
				}
				newWeight := wi + weight
				if newWeight < maxWeight {
					temp = acc.Add(temp, curr[newWeight])
				}
			}
			curr[wi] = temp
		}
	}

	temp := acc.Zero()
	count0, err := dims.SubkeyCount(0)
	if err != nil {
		return zero, err
	}
	for ski := 0; ski < count0; ski++ {
		weight, err := weights.Weight(0, ski)
		if err != nil {
			return zero, err
		}
		if weight < maxWeight {
			temp = acc.Add(temp, curr[weight])
		}
	}

	return temp, nil
}

// RankAllWeights computes Rank(w, weights, acc) simultaneously for every
// bound w in [1, maxWeight], returning a slice whose entry i holds
// Rank(i+1, weights, acc): the count of candidates whose total weight is
// at most i. This amortizes
// a single O(maxWeight * vectorCount * subkeyCount) pass across every
// weight bucket, rather than repeating the full DP once per call as
// calling Rank in a loop would.
func RankAllWeights[R any, W numeric.Unsigned](maxWeight W, weights *WeightTable[W], acc Accumulator[R]) ([]R, error) {
	if maxWeight == 0 {
		return nil, newError(KindInvalid, "the max weight ranked up to must be > 0")
	}

	dims := weights.Dimensions()
	vectorCount := dims.VectorCount()

	curr, releaseCurr := pool.GetSlice[R](int(maxWeight))
	defer releaseCurr()
	prev, releasePrev := pool.GetSlice[R](int(maxWeight))
	defer releasePrev()
	one := acc.One()
	for i := range curr {
		curr[i] = acc.Zero()
		prev[i] = one
	}

	for vi := vectorCount - 1; vi >= 0; vi-- {
		count, err := dims.SubkeyCount(vi)
		if err != nil {
			return nil, err
		}

		for ski := count - 1; ski >= 0; ski-- {
			weight, err := weights.Weight(vi, ski)
			if err != nil {
				return nil, err
			}
			if maxWeight < weight {
				continue
			}

			currStart := int(maxWeight - weight)
			for cwi, pwi := currStart-1, int(maxWeight)-1; cwi >= 0; cwi, pwi = cwi-1, pwi-1 {
				curr[cwi] = acc.Add(curr[cwi], prev[pwi])
			}
		}

		copy(prev, curr)
		for i := range curr {
			curr[i] = acc.Zero()
		}
	}

	// The DP above fills prev in descending-weight order; reverse it so
	// the result is indexed ascending, matching maxWeight's own ordering.
	for i, j := 0, len(prev)-1; i < j; i, j = i+1, j-1 {
		prev[i], prev[j] = prev[j], prev[i]
	}

	// prev is pool-backed and returned to the pool by the deferred
	// release above once this function returns, so the result the
	// caller keeps must be a copy, not an alias into that buffer.
	result := make([]R, len(prev))
	copy(result, prev)

	return result, nil
}

// ScoreLess and ScoreGreater are the two comparators ApproximateRank is
// typically called with: ScoreLess counts how many other subkeys score
// lower than the true one (use when lower scores rank first),
// ScoreGreater the reverse.
func ScoreLess[S numeric.Float](a, b S) bool    { return a < b }
func ScoreGreater[S numeric.Float](a, b S) bool { return a > b }

// ApproximateRank estimates a key's rank directly from per-vector scores,
// without building a WeightTable or running the DP: for each vector it
// counts how many of that vector's other subkeys compare better than the
// true subkey (per cmp), then folds (subkeyRank+1) into a running product
// across vectors. This is a coarse, independence-assuming approximation —
// it ignores interactions between vectors that the DP-based Rank captures
// — but is far cheaper, useful as a quick sanity check or a first estimate
// before running the full computation.
//
// Like the DP-based rank routines, the result is accumulated through acc
// rather than R's native arithmetic, so a 128-bit or wider key's
// candidate count (the product of per-vector subkey ranks easily exceeds
// 2^64) can be computed exactly with a BigAccumulator instead of silently
// wrapping. Accumulator only guarantees Zero/One/Add, so multiplying the
// running product by a small non-negative factor is done by repeated
// doubling built from Add — the same operation the DP itself only ever
// needs.
func ApproximateRank[R any, S numeric.Float](scores *ScoresTable[S], key Key, cmp func(a, b S) bool, acc Accumulator[R]) (R, error) {
	var zero R

	dims := scores.Dimensions()
	approximated := acc.One()

	for vi := 0; vi < dims.VectorCount(); vi++ {
		span, err := dims.Span(vi)
		if err != nil {
			return zero, err
		}

		correctSubkeyIndex, err := SubkeyValue[uint64](key, span)
		if err != nil {
			return zero, err
		}

		correctScore, err := scores.Score(vi, int(correctSubkeyIndex))
		if err != nil {
			return zero, err
		}

		count, err := dims.SubkeyCount(vi)
		if err != nil {
			return zero, err
		}

		subkeyRank := 0
		for ski := 0; ski < count; ski++ {
			if uint64(ski) == correctSubkeyIndex {
				continue
			}
			thisScore, err := scores.Score(vi, ski)
			if err != nil {
				return zero, err
			}
			if cmp(thisScore, correctScore) {
				subkeyRank++
			}
		}

		approximated = multiplyByCount(acc, approximated, subkeyRank+1)
	}

	return approximated, nil
}

// multiplyByCount computes n*value in R's accumulator arithmetic via
// repeated doubling: O(log n) calls to acc.Add instead of n. n is always
// a small non-negative count here (a per-vector subkey rank plus one),
// never a user-supplied magnitude.
func multiplyByCount[R any](acc Accumulator[R], value R, n int) R {
	result := acc.Zero()
	base := value
	for n > 0 {
		if n&1 == 1 {
			result = acc.Add(result, base)
		}
		base = acc.Add(base, base)
		n >>= 1
	}

	return result
}
