package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSlice_SizeAndReuse(t *testing.T) {
	slice, cleanup := GetSlice[uint64](100)
	require.Equal(t, 100, len(slice))
	require.GreaterOrEqual(t, cap(slice), 100)
	ptr := &slice[0]
	cleanup()

	again, cleanup2 := GetSlice[uint64](50)
	defer cleanup2()
	require.Equal(t, ptr, &again[0], "should reuse the same underlying array")
}

func TestGetSlice_GrowsWhenTooSmall(t *testing.T) {
	small, cleanup := GetSlice[float64](4)
	cleanup()
	require.Len(t, small, 4)

	bigger, cleanup2 := GetSlice[float64](4096)
	defer cleanup2()
	require.Len(t, bigger, 4096)
}

func TestGetSlice_DistinctTypesDoNotCollide(t *testing.T) {
	u, cleanupU := GetSlice[uint32](10)
	defer cleanupU()
	f, cleanupF := GetSlice[float32](10)
	defer cleanupF()

	require.Len(t, u, 10)
	require.Len(t, f, 10)
}

func TestGetSlice_ZeroedOnFreshAllocation(t *testing.T) {
	slice, cleanup := GetSlice[uint64](8)
	defer cleanup()
	for _, v := range slice {
		require.Equal(t, uint64(0), v)
	}
}
