package tree

import (
	randv2 "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBinaryTree_PerfectlyBalance(t *testing.T) {
	for _, variant := range allVariants {
		for _, typ := range []IterationType{Iterative, Recursive} {
			tree := New[int, int](variant)
			require.False(t, tree.PerfectlyBalance(typ))
			tree.Add(1, 1)
			require.False(t, tree.PerfectlyBalance(typ))

			for i := 2; i <= 1000; i++ {
				tree.Add(i, -i)
			}
			require.True(t, tree.PerfectlyBalance(typ))
			require.True(t, tree.IsPerfectlyBalanced())
			require.True(t, tree.IsAVLBalanced(typ))
			require.NoError(t, Validate(tree))
			keys := tree.Keys()
			shape := collect(tree.BFS())

			// A second rebuild keeps the key set and the shape.
			require.True(t, tree.PerfectlyBalance(typ))
			require.Equal(t, keys, tree.Keys())
			require.Equal(t, shape, collect(tree.BFS()))
			require.Equal(t, int64(1000), tree.Len())
			v, ok := tree.Get(ByKey(500))
			require.True(t, ok)
			require.Equal(t, -500, v)
		}
	}
}

func TestBST_PerfectlyBalanceSkewed(t *testing.T) {
	tree := NewBST[int, string](WithMapMode[int, string]())
	for i := 0; i < 1023; i++ {
		tree.Add(i, "v")
	}
	require.Equal(t, 1022, tree.Height(nil))
	require.True(t, tree.PerfectlyBalance())
	require.Equal(t, 9, tree.Height(nil))
	require.Equal(t, 9, tree.MinHeight(nil))
	require.Equal(t, 511, tree.Root().Key())
	v, ok := tree.Get(ByKey(1000))
	require.True(t, ok)
	require.Equal(t, "v", v)
}

func TestBinaryTree_AddManyBalanced(t *testing.T) {
	for _, variant := range allVariants {
		for _, typ := range []IterationType{Iterative, Recursive} {
			tree := New[int, int](variant)
			keys := randv2.Perm(511)
			res := tree.AddManyKeys(keys, true, typ)
			require.Len(t, res, 511)
			for _, ok := range res {
				require.True(t, ok)
			}
			require.Equal(t, int64(511), tree.Len())
			require.Equal(t, 8, tree.Height(nil))
			require.True(t, tree.IsPerfectlyBalanced())
			require.Equal(t, 255, tree.Root().Key())
			require.NoError(t, Validate(tree))
		}
	}
}

func TestBinaryTree_AddManyDuplicates(t *testing.T) {
	entries := []Entry[int, string]{
		{Key: 3, Value: "a"},
		{Key: 1, Value: "b"},
		{Key: 3, Value: "c"},
		{Key: 2, Value: "d"},
		{Key: 3, Value: "e"},
	}
	for _, balanced := range []bool{false, true} {
		tree := NewAVLTree[int, string]()
		res := tree.AddMany(entries, balanced)
		require.Equal(t, []bool{true, true, false, true, false}, res)
		require.Equal(t, int64(3), tree.Len())
		v, ok := tree.Get(ByKey(3))
		require.True(t, ok)
		require.Equal(t, "e", v)

		// Present keys are upserted.
		res = tree.AddMany([]Entry[int, string]{{Key: 2, Value: "x"}, {Key: 4, Value: "y"}}, balanced)
		require.Equal(t, []bool{false, true}, res)
		v, _ = tree.Get(ByKey(2))
		require.Equal(t, "x", v)
		require.NoError(t, Validate(tree))
	}
}

func TestBinaryTree_AddManyNilKeys(t *testing.T) {
	a, b := "a", "b"
	cmp := func(x, y *string) int {
		switch {
		case *x < *y:
			return -1
		case *x > *y:
			return 1
		default:
		}
		return 0
	}
	for _, balanced := range []bool{false, true} {
		tree := NewRBTree[*string, int](WithComparator[*string, int](cmp))
		res := tree.AddMany([]Entry[*string, int]{
			{Key: nil, Value: 1},
			{Key: &b, Value: 2},
			{Key: nil, Value: 3},
			{Key: &a, Value: 4},
		}, balanced)
		require.Equal(t, []bool{false, true, false, true}, res)
		require.Equal(t, int64(2), tree.Len())
		minNode, _ := tree.Min()
		require.Equal(t, "a", *minNode.Key())
		require.Equal(t, 4, minNode.Val())
	}
}

func TestBinaryTree_IsBSTDetectsBrokenOrder(t *testing.T) {
	tree := newBinaryTree[int, int](bstBalancer[int, int]{})
	tree.AddManyKeys([]int{2, 1, 3}, false)
	require.True(t, tree.IsBST())
	tree.root.left.key = 5
	require.False(t, tree.IsBST())
	require.False(t, tree.IsBST(Recursive))
	require.Error(t, Validate[int, int](tree))
}

func BenchmarkAVLTree_AddManyBalanced(b *testing.B) {
	keys := randv2.Perm(1 << 12)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree := NewAVLTree[int, int]()
		tree.AddManyKeys(keys, true)
	}
}
