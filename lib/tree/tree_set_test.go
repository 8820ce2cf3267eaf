package tree

import (
	randv2 "math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTreeSet(t *testing.T) {
	for _, v := range allVariants {
		t.Run(v.String(), func(t *testing.T) {
			set := NewTreeSet[int](v)
			_, ok := set.First()
			require.False(t, ok)

			rng := randv2.New(randv2.NewPCG(7, uint64(v)))
			expected := make(map[int]struct{}, 1024)
			for i := 0; i < 4096; i++ {
				k := rng.IntN(1024)
				_, dup := expected[k]
				require.Equal(t, !dup, set.Add(k))
				expected[k] = struct{}{}
			}
			require.Equal(t, int64(len(expected)), set.Len())
			keys := set.Keys()
			require.True(t, slices.IsSorted(keys))
			require.Len(t, keys, len(expected))
			for k := range expected {
				require.True(t, set.Has(k))
			}

			first, ok := set.First()
			require.True(t, ok)
			require.Equal(t, keys[0], first)
			last, ok := set.Last()
			require.True(t, ok)
			require.Equal(t, keys[len(keys)-1], last)
			require.Equal(t, keys, slices.Collect(set.All()))

			seq, err := set.Range(Range[int]{Low: 100, High: 199})
			require.NoError(t, err)
			inRange := slices.Collect(seq)
			for _, k := range inRange {
				require.True(t, k >= 100 && k <= 199)
			}
			lo, _ := slices.BinarySearch(keys, 100)
			hi, _ := slices.BinarySearch(keys, 200)
			require.Equal(t, keys[lo:hi], inRange)

			_, err = set.Range(Range[int]{Low: 10, High: 1})
			require.ErrorIs(t, err, ErrInvalidRange)

			require.True(t, set.Delete(first))
			require.False(t, set.Delete(first))
			require.False(t, set.Has(first))
			require.Equal(t, int64(len(expected)-1), set.Len())

			set.Clear()
			require.Equal(t, int64(0), set.Len())
			require.Empty(t, slices.Collect(set.All()))
		})
	}
}

func TestTreeSet_Bounds(t *testing.T) {
	set := NewTreeSet[int](RB)
	for _, k := range []int{10, 20, 30} {
		set.Add(k)
	}
	testcases := []struct {
		key        int
		lower      int
		lowerFound bool
		upper      int
		upperFound bool
	}{
		{key: 5, lower: 10, lowerFound: true, upper: 10, upperFound: true},
		{key: 10, lower: 10, lowerFound: true, upper: 20, upperFound: true},
		{key: 25, lower: 30, lowerFound: true, upper: 30, upperFound: true},
		{key: 30, lower: 30, lowerFound: true, upperFound: false},
		{key: 31, lowerFound: false, upperFound: false},
	}
	for _, tc := range testcases {
		k, ok := set.LowerBound(tc.key)
		require.Equal(t, tc.lowerFound, ok, "lower bound of %d", tc.key)
		if ok {
			require.Equal(t, tc.lower, k)
		}
		k, ok = set.UpperBound(tc.key)
		require.Equal(t, tc.upperFound, ok, "upper bound of %d", tc.key)
		if ok {
			require.Equal(t, tc.upper, k)
		}
	}
}

func TestTreeSet_NilKey(t *testing.T) {
	set := NewTreeSet[*int](AVL, WithComparator[*int, struct{}](func(a, b *int) int {
		return *a - *b
	}))
	require.False(t, set.Add(nil))
	require.Equal(t, int64(0), set.Len())
}
