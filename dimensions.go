package rank

// Dimensions describes how a key's bits are partitioned into subkey
// vectors: one BitSpan per vector, in ascending, non-overlapping,
// contiguous order. ScoresTable and WeightTable are both laid out
// according to a Dimensions value, and every vector-indexed operation in
// this package validates its index against it.
type Dimensions struct {
	spans []BitSpan
}

// NewDimensions builds a Dimensions from an explicit list of spans. The
// spans must be given in ascending order, be contiguous (each span's
// Start immediately follows the previous span's End), and there must be
// at least one. ErrInvalid is returned otherwise.
func NewDimensions(spans []BitSpan) (Dimensions, error) {
	if len(spans) == 0 {
		return Dimensions{}, newError(KindInvalid, "dimensions must contain at least one vector")
	}

	for i := 1; i < len(spans); i++ {
		if spans[i].Start() != spans[i-1].End()+1 {
			return Dimensions{}, newError(KindInvalid,
				"vector %d does not immediately follow vector %d (gap or overlap at bit %d)",
				i, i-1, spans[i-1].End()+1)
		}
	}

	cp := make([]BitSpan, len(spans))
	copy(cp, spans)

	return Dimensions{spans: cp}, nil
}

// NewUniformDimensions builds a Dimensions of vectorCount vectors, each
// bitsPerVector wide, back to back starting at bit 0. This is the common
// case (a byte-oriented key scored subkey-by-subkey at a uniform width).
func NewUniformDimensions(vectorCount, bitsPerVector uint32) (Dimensions, error) {
	if vectorCount == 0 {
		return Dimensions{}, newError(KindInvalid, "vector count must be positive")
	}
	if bitsPerVector == 0 {
		return Dimensions{}, newError(KindInvalid, "bits per vector must be positive")
	}

	spans := make([]BitSpan, vectorCount)
	for i := range spans {
		span, err := NewBitSpan(uint32(i)*bitsPerVector, bitsPerVector)
		if err != nil {
			return Dimensions{}, err
		}
		spans[i] = span
	}

	return Dimensions{spans: spans}, nil
}

// DimensionsFromWidths builds a Dimensions from a list of per-vector bit
// widths, laid out contiguously starting at bit 0 — the non-uniform
// generalization of NewUniformDimensions. persist uses this to
// reconstruct a Dimensions from the width list stored in a table's
// header.
func DimensionsFromWidths(widths []uint32) (Dimensions, error) {
	if len(widths) == 0 {
		return Dimensions{}, newError(KindInvalid, "dimensions must contain at least one vector")
	}

	spans := make([]BitSpan, len(widths))
	offset := uint32(0)
	for i, width := range widths {
		span, err := NewBitSpan(offset, width)
		if err != nil {
			return Dimensions{}, err
		}
		spans[i] = span
		offset += width
	}

	return Dimensions{spans: spans}, nil
}

// Widths returns each vector's bit width, in vector order. persist stores
// this to later reconstruct the Dimensions via DimensionsFromWidths.
func (d Dimensions) Widths() []uint32 {
	widths := make([]uint32, len(d.spans))
	for i, s := range d.spans {
		widths[i] = s.Count()
	}

	return widths
}

// VectorCount returns the number of subkey vectors.
func (d Dimensions) VectorCount() int { return len(d.spans) }

// Span returns the BitSpan of vector i. ErrOutOfRange is returned if i is
// not a valid vector index.
func (d Dimensions) Span(i int) (BitSpan, error) {
	if i < 0 || i >= len(d.spans) {
		return BitSpan{}, newError(KindOutOfRange, "vector index %d out of range [0,%d)", i, len(d.spans))
	}

	return d.spans[i], nil
}

// AsSpans returns every vector's BitSpan, in vector order. The returned
// slice is a copy; mutating it does not affect d.
func (d Dimensions) AsSpans() []BitSpan {
	cp := make([]BitSpan, len(d.spans))
	copy(cp, d.spans)

	return cp
}

// BitOffset returns the starting bit of vector i, equivalent to
// Span(i).Start() but without the intermediate BitSpan. ErrOutOfRange is
// returned for an invalid index.
func (d Dimensions) BitOffset(i int) (uint32, error) {
	span, err := d.Span(i)
	if err != nil {
		return 0, err
	}

	return span.Start(), nil
}

// KeyLengthBits returns the total number of bits spanned by every vector
// combined, i.e. the bit width of a Key this Dimensions describes.
func (d Dimensions) KeyLengthBits() uint32 {
	if len(d.spans) == 0 {
		return 0
	}

	return d.spans[len(d.spans)-1].End() + 1
}

// Uniform reports whether every vector has the same bit width, and if so
// returns that width.
func (d Dimensions) Uniform() (width uint32, ok bool) {
	if len(d.spans) == 0 {
		return 0, false
	}

	width = d.spans[0].Count()
	for _, s := range d.spans[1:] {
		if s.Count() != width {
			return 0, false
		}
	}

	return width, true
}

// SubkeyCount returns the number of distinct subkey values vector i can
// take, i.e. 2^width(i). ErrOutOfRange is returned for an invalid index.
func (d Dimensions) SubkeyCount(i int) (int, error) {
	span, err := d.Span(i)
	if err != nil {
		return 0, err
	}

	n, err := ValueCount[uint64](span)
	if err != nil {
		return 0, err
	}

	return int(n), nil
}

// ScoresCount returns the total number of score/weight slots across every
// vector: the flat length a ScoresTable or WeightTable backing slice must
// have for this Dimensions.
func (d Dimensions) ScoresCount() (int, error) {
	total := 0
	for i := range d.spans {
		n, err := d.SubkeyCount(i)
		if err != nil {
			return 0, err
		}
		total += n
	}

	return total, nil
}

// ScoresBeforeCount returns the flat offset of vector i's first slot: the
// sum of SubkeyCount over every vector before it. ErrOutOfRange is
// returned for an invalid index.
func (d Dimensions) ScoresBeforeCount(i int) (int, error) {
	if i < 0 || i >= len(d.spans) {
		return 0, newError(KindOutOfRange, "vector index %d out of range [0,%d)", i, len(d.spans))
	}

	offset := 0
	for j := 0; j < i; j++ {
		n, err := d.SubkeyCount(j)
		if err != nil {
			return 0, err
		}
		offset += n
	}

	return offset, nil
}

// IsEqualWidth reports whether every vector shares the same bit width.
// This is the same check Uniform performs, exposed under the name the
// merge/rank algorithms use.
func (d Dimensions) IsEqualWidth() bool {
	_, ok := d.Uniform()
	return ok
}

// Equal reports whether d and other describe the exact same span layout.
func (d Dimensions) Equal(other Dimensions) bool {
	if len(d.spans) != len(other.spans) {
		return false
	}
	for i := range d.spans {
		if d.spans[i] != other.spans[i] {
			return false
		}
	}

	return true
}
