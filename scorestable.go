package rank

import (
	"math"

	"github.com/sca-research/rankgo/internal/numeric"
)

// epsilon is the fudge added during TranslateVectorsToPositive to ensure
// no score lands exactly on zero after translation (zero breaks Log2).
const epsilon = 0.000001

// ScoresTable holds the per-subkey scores an attack produced, laid out
// flat according to its Dimensions: vector i's subkey j lives at
// ScoresBeforeCount(i)+j.
type ScoresTable[T numeric.Float] struct {
	dims   Dimensions
	scores []T
}

// NewScoresTable allocates a zero-valued ScoresTable shaped by dims.
func NewScoresTable[T numeric.Float](dims Dimensions) (*ScoresTable[T], error) {
	n, err := dims.ScoresCount()
	if err != nil {
		return nil, err
	}

	return &ScoresTable[T]{dims: dims, scores: make([]T, n)}, nil
}

// NewScoresTableFromSlice wraps an existing flat score slice with dims.
// ErrLength is returned if the slice's length doesn't match
// dims.ScoresCount(). The slice is taken by reference, not copied.
func NewScoresTableFromSlice[T numeric.Float](dims Dimensions, scores []T) (*ScoresTable[T], error) {
	n, err := dims.ScoresCount()
	if err != nil {
		return nil, err
	}
	if len(scores) != n {
		return nil, newError(KindLength, "scores slice has length %d, dimensions require %d", len(scores), n)
	}

	return &ScoresTable[T]{dims: dims, scores: scores}, nil
}

// Dimensions returns the table's shape.
func (s *ScoresTable[T]) Dimensions() Dimensions { return s.dims }

// AllScores returns the table's flat backing slice. The returned slice
// aliases the table's storage; mutating it mutates the table.
func (s *ScoresTable[T]) AllScores() []T { return s.scores }

// Score returns the score of subkeyIndex within vectorIndex. ErrOutOfRange
// is returned for an invalid index.
func (s *ScoresTable[T]) Score(vectorIndex, subkeyIndex int) (T, error) {
	offset, err := s.dims.ScoresBeforeCount(vectorIndex)
	if err != nil {
		var zero T
		return zero, err
	}
	count, err := s.dims.SubkeyCount(vectorIndex)
	if err != nil {
		var zero T
		return zero, err
	}
	if subkeyIndex < 0 || subkeyIndex >= count {
		var zero T
		return zero, newError(KindOutOfRange, "subkey index %d out of range [0,%d)", subkeyIndex, count)
	}

	return s.scores[offset+subkeyIndex], nil
}

// SetScore sets the score of subkeyIndex within vectorIndex. ErrOutOfRange
// is returned for an invalid index.
func (s *ScoresTable[T]) SetScore(vectorIndex, subkeyIndex int, value T) error {
	offset, err := s.dims.ScoresBeforeCount(vectorIndex)
	if err != nil {
		return err
	}
	count, err := s.dims.SubkeyCount(vectorIndex)
	if err != nil {
		return err
	}
	if subkeyIndex < 0 || subkeyIndex >= count {
		return newError(KindOutOfRange, "subkey index %d out of range [0,%d)", subkeyIndex, count)
	}

	s.scores[offset+subkeyIndex] = value
	return nil
}

// NormaliseVectors rescales each vector's scores so they sum to 1,
// using a Kahan-compensated sum for numerical stability.
func (s *ScoresTable[T]) NormaliseVectors() error {
	for v := 0; v < s.dims.VectorCount(); v++ {
		offset, err := s.dims.ScoresBeforeCount(v)
		if err != nil {
			return err
		}
		count, err := s.dims.SubkeyCount(v)
		if err != nil {
			return err
		}

		slice := s.scores[offset : offset+count]
		sum := numeric.KahanSum(slice)
		constant := T(1) / sum
		for i := range slice {
			slice[i] *= constant
		}
	}

	return nil
}

// Abs replaces every score with its absolute value.
func (s *ScoresTable[T]) Abs() {
	for i, v := range s.scores {
		if v < 0 {
			s.scores[i] = -v
		}
	}
}

// Log2 replaces every score with its base-2 logarithm.
func (s *ScoresTable[T]) Log2() { s.Log(2) }

// Log replaces every score x with log(x)/log(base).
func (s *ScoresTable[T]) Log(base T) {
	logBase := math.Log(float64(base))
	for i, v := range s.scores {
		s.scores[i] = T(math.Log(float64(v)) / logBase)
	}
}

// TranslateVectorsToPositive shifts every score in the table (not
// per-vector, despite the method name — this matches the source's
// actual global-minimum behavior; see SPEC_FULL.md) by subtracting the
// table-wide minimum score and adding a small epsilon, so every score is
// strictly positive. If the minimum is already > 0, nothing is changed.
func (s *ScoresTable[T]) TranslateVectorsToPositive() {
	if len(s.scores) == 0 {
		return
	}

	minValue := s.scores[0]
	for _, v := range s.scores[1:] {
		if v < minValue {
			minValue = v
		}
	}

	if minValue <= 0 {
		for i, v := range s.scores {
			s.scores[i] = (v - minValue) + T(epsilon)
		}
	}
}

// AddScores copies the scores for the vector matching subkey into the
// table. ErrInvalid is returned if subkey doesn't match any vector in the
// table's Dimensions; ErrLength is returned if len(scores) doesn't equal
// the matched vector's subkey count.
//
// The C++ original has a bug here: it advances its source iterator by
// the vector's offset before copying, so for every vector but the first
// it reads from past the end of the supplied scores. This implementation
// copies the supplied scores, from their start, into the vector's slot
// instead — see SPEC_FULL.md's resolved Open Questions.
func (s *ScoresTable[T]) AddScores(subkey BitSpan, scores []T) error {
	vectorIndex := -1
	for i := 0; i < s.dims.VectorCount(); i++ {
		span, err := s.dims.Span(i)
		if err != nil {
			return err
		}
		if span == subkey {
			vectorIndex = i
			break
		}
	}
	if vectorIndex == -1 {
		return newError(KindInvalid, "subkey %s does not match any vector in the table dimensions", subkey)
	}

	required, err := s.dims.SubkeyCount(vectorIndex)
	if err != nil {
		return err
	}
	if len(scores) != required {
		return newError(KindLength, "required %d scores, supplied %d", required, len(scores))
	}

	offset, err := s.dims.ScoresBeforeCount(vectorIndex)
	if err != nil {
		return err
	}

	copy(s.scores[offset:offset+required], scores)
	return nil
}

// MergeVectors combines adjacent vector pairs into a single wider vector,
// halving the vector count and doubling each remaining vector's bit
// width. ErrInvalid is returned if the table's vectors aren't all the
// same width, or if there isn't an even number of them.
//
// For merged vector m, built from rear vector r=2m and front vector
// f=2m+1, and every combined subkey s in [0, 2^(2w)): the new score is
// scores[r][s>>w] * scores[f][s&((1<<w)-1)] — the rear vector supplies
// the high w bits of the combined subkey, the front vector the low w.
func (s *ScoresTable[T]) MergeVectors() (*ScoresTable[T], error) {
	width, ok := s.dims.Uniform()
	if !ok {
		return nil, newError(KindInvalid, "all vectors must be of equal width to merge")
	}
	vectorCount := s.dims.VectorCount()
	if vectorCount%2 != 0 {
		return nil, newError(KindInvalid, "can only merge an even number of vectors, have %d", vectorCount)
	}

	mergedDims, err := NewUniformDimensions(uint32(vectorCount/2), width*2)
	if err != nil {
		return nil, err
	}

	merged, err := NewScoresTable[T](mergedDims)
	if err != nil {
		return nil, err
	}

	mask := uint64(1)<<width - 1

	for m := 0; m < vectorCount/2; m++ {
		rearVectorIndex := 2 * m
		frontVectorIndex := 2*m + 1

		count, err := mergedDims.SubkeyCount(m)
		if err != nil {
			return nil, err
		}

		for subkey := 0; subkey < count; subkey++ {
			frontSubkey := uint64(subkey) & mask
			rearSubkey := (uint64(subkey) >> width) & mask

			frontScore, err := s.Score(frontVectorIndex, int(frontSubkey))
			if err != nil {
				return nil, err
			}
			rearScore, err := s.Score(rearVectorIndex, int(rearSubkey))
			if err != nil {
				return nil, err
			}

			if err := merged.SetScore(m, subkey, rearScore*frontScore); err != nil {
				return nil, err
			}
		}
	}

	return merged, nil
}
