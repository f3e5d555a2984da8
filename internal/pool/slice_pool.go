package pool

import (
	"reflect"
	"sync"
)

// Slice pools for efficient reuse of typed accumulator/weight buffers.
//
// The rank DPs allocate two O(maxWeight) slices per call (curr/prev) and
// MapToWeight allocates one scratch weight slice; pooling them avoids a
// fresh allocation on every Rank/RankLowMem/RankAllWeights call against the
// same table. Rather than three monomorphized
// GetInt64Slice/GetFloat64Slice/GetStringSlice functions, this module has no
// legacy call sites to keep binary-compatible, so the pattern is
// generalized once behind a type parameter, with one sync.Pool per element
// type keyed by reflect.Type.
var (
	slicePools   = map[reflect.Type]*sync.Pool{}
	slicePoolsMu sync.Mutex
)

func poolFor[T any]() *sync.Pool {
	var zero T
	key := reflect.TypeOf(zero)

	slicePoolsMu.Lock()
	defer slicePoolsMu.Unlock()

	p, ok := slicePools[key]
	if !ok {
		p = &sync.Pool{New: func() any { return &[]T{} }}
		slicePools[key] = p
	}

	return p
}

// GetSlice retrieves and resizes a []T from the pool.
//
// The returned slice has length exactly size. If the pooled slice lacks
// sufficient capacity, a new one is allocated. The caller must invoke the
// returned cleanup function (typically via defer) to return the slice to
// the pool.
func GetSlice[T any](size int) ([]T, func()) {
	pool := poolFor[T]()

	ptr, _ := pool.Get().(*[]T)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]T, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { pool.Put(ptr) }
}
