package tree

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	randv2 "math/rand/v2"
	"os"
	"os/exec"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/require"
)

var allVariants = []Variant{BST, AVL, RB}

func keysOf[K, V any](nodes []Node[K, V]) []K {
	keys := make([]K, 0, len(nodes))
	for _, n := range nodes {
		keys = append(keys, n.Key())
	}
	return keys
}

func TestBST_InsertScenario(t *testing.T) {
	tree := NewBST[int, int]()
	res := tree.AddManyKeys([]int{11, 3, 15, 1, 8, 13, 16, 2, 6, 9, 12, 14, 4, 7, 10, 5}, false)
	for _, ok := range res {
		require.True(t, ok)
	}
	require.Equal(t, 11, tree.Root().Key())
	require.Equal(t, int64(16), tree.Len())
	require.True(t, tree.IsBST())
	require.True(t, tree.IsBST(Recursive))

	require.True(t, tree.PerfectlyBalance())
	bfs := make([]int, 0, 16)
	for n := range tree.BFS() {
		bfs = append(bfs, n.Key())
	}
	require.Len(t, bfs, 16)
	require.Equal(t, 8, bfs[0])
	require.Equal(t, 16, bfs[len(bfs)-1])
	require.True(t, tree.IsPerfectlyBalanced())
	require.NoError(t, Validate(tree))
}

func TestBST_RangeSearchScenario(t *testing.T) {
	tree := NewBST[int, int]()
	tree.AddManyKeys([]int{10, 5, 15, 3, 7, 12, 18}, false)

	for _, typ := range []IterationType{Iterative, Recursive} {
		nodes, err := tree.RangeSearch(Range[int]{Low: 4, High: 12}, typ)
		require.NoError(t, err)
		require.Equal(t, []int{5, 7, 10, 12}, keysOf(nodes))

		nodes, err = tree.RangeSearch(Range[int]{Low: 4, High: 12, ExcludeHigh: true}, typ)
		require.NoError(t, err)
		require.Equal(t, []int{5, 7, 10}, keysOf(nodes))

		nodes, err = tree.RangeSearch(Range[int]{Low: 5, High: 12, ExcludeLow: true}, typ)
		require.NoError(t, err)
		require.Equal(t, []int{7, 10, 12}, keysOf(nodes))

		nodes, err = tree.RangeSearch(Range[int]{Low: 12, High: 4}, typ)
		require.ErrorIs(t, err, ErrInvalidRange)
		require.Nil(t, nodes)
	}
}

func TestBST_FloorCeilingScenario(t *testing.T) {
	tree := NewBST[int, int]()
	tree.AddManyKeys([]int{10, 5, 15, 3, 7, 13, 17, 1, 4, 6, 9, 11, 14, 16, 19, 20}, false)

	for _, typ := range []IterationType{Iterative, Recursive} {
		n, ok := tree.FloorEntry(ByKey(12), typ)
		require.True(t, ok)
		require.Equal(t, 11, n.Key())

		n, ok = tree.CeilingEntry(ByKey(12), typ)
		require.True(t, ok)
		require.Equal(t, 13, n.Key())
	}
}

func TestRBTree_AddWithHintUpdatesMin(t *testing.T) {
	tree := NewRBTree[int, string]()
	for _, k := range []int{50, 10, 100, 60} {
		tree.Add(k, "v")
	}
	hint, ok := tree.GetNode(ByKey(60))
	require.True(t, ok)

	require.True(t, tree.AddWithHint(5, "five", hint))
	minNode, ok := tree.Min()
	require.True(t, ok)
	require.Equal(t, 5, minNode.Key())
	require.Equal(t, "five", minNode.Val())
	require.NoError(t, Validate(tree))

	// 55 lies between the pred 50 and the hint, the left slot of 60 is free.
	require.True(t, tree.AddWithHint(55, "v", hint))
	require.Equal(t, 55, hint.Left().Key())
	// Equal keys upsert at the hint.
	require.False(t, tree.AddWithHint(60, "sixty", hint))
	v, _ := tree.Get(ByKey(60))
	require.Equal(t, "sixty", v)

	require.True(t, tree.AddWithHint(200, "max", hint))
	maxNode, _ := tree.Max()
	require.Equal(t, 200, maxNode.Key())
	require.Equal(t, int64(7), tree.Len())
	require.NoError(t, Validate(tree))

	// A detached node is not a valid hint anymore.
	require.Len(t, tree.Delete(ByNode(hint)), 1)
	require.True(t, tree.AddWithHint(61, "v", hint))
	require.True(t, tree.Has(ByKey(61)))
	require.False(t, tree.Has(ByKey(60)))
	require.NoError(t, Validate(tree))
}

// skewedStackLimit is far below the stack a recursive walk down a
// skewed tree of skewedSize nodes needs.
const (
	skewedStackLimit  = 1 << 20
	skewedOverflowEnv = "XTREE_SKEWED_OVERFLOW"
)

func skewedSize() int {
	if testing.Short() {
		return 1 << 17
	}
	return 1 << 18
}

// skewedBST builds a chain of n nodes through the hinted insert, leaning
// to the right for ascending keys and to the left otherwise.
func skewedBST(t testing.TB, n int, ascending bool) BinaryTree[int, int] {
	tree := NewBST[int, int]()
	var hint Node[int, int]
	for i := 1; i <= n; i++ {
		key := i
		if !ascending {
			key = n - i + 1
		}
		require.True(t, tree.AddWithHint(key, key, hint))
		if ascending {
			hint, _ = tree.Max()
		} else {
			hint, _ = tree.Min()
		}
	}
	require.Equal(t, int64(n), tree.Len())
	return tree
}

func limitStack(t *testing.T, limit int) {
	prev := debug.SetMaxStack(limit)
	t.Cleanup(func() {
		debug.SetMaxStack(prev)
	})
}

func TestBST_SkewedLeftMostRightMost(t *testing.T) {
	n := skewedSize()
	right := skewedBST(t, n, true)
	require.Equal(t, n-1, right.Height(nil))
	left := skewedBST(t, n, false)
	require.Equal(t, n-1, left.Height(nil))

	limitStack(t, skewedStackLimit)
	l, ok := right.LeftMost(nil, Iterative)
	require.True(t, ok)
	require.Equal(t, 1, l.Key())
	r, ok := right.RightMost(nil, Iterative)
	require.True(t, ok)
	require.Equal(t, n, r.Key())

	l, ok = left.LeftMost(nil, Iterative)
	require.True(t, ok)
	require.Equal(t, 1, l.Key())
	r, ok = left.RightMost(nil, Iterative)
	require.True(t, ok)
	require.Equal(t, n, r.Key())
}

// A stack overflow is fatal, so the recursive walk runs in a child
// process of the test binary under the same stack limit.
func TestBST_SkewedRecursiveWalkOverflows(t *testing.T) {
	if os.Getenv(skewedOverflowEnv) == "1" {
		left := skewedBST(t, skewedSize(), false)
		debug.SetMaxStack(skewedStackLimit)
		l, _ := left.LeftMost(nil, Recursive)
		fmt.Println("recursive walk returned", l.Key())
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestBST_SkewedRecursiveWalkOverflows$")
	if testing.Short() {
		cmd.Args = append(cmd.Args, "-test.short")
	}
	cmd.Env = append(os.Environ(), skewedOverflowEnv+"=1")
	out, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr, string(out))
	require.False(t, exitErr.Success())
	require.Contains(t, string(out), "goroutine stack exceeds")
	require.NotContains(t, string(out), "recursive walk returned")
}

func TestBST_LeftMostRightMostRecursiveEqualsIterative(t *testing.T) {
	for _, keys := range [][]int{
		randv2.Perm(1000),
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		{10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
	} {
		tree := NewBST[int, int]()
		tree.AddManyKeys(keys, false)
		tree.Foreach(func(_ int64, n Node[int, int]) bool {
			li, _ := tree.LeftMost(n, Iterative)
			lr, _ := tree.LeftMost(n, Recursive)
			require.Equal(t, li, lr)
			ri, _ := tree.RightMost(n, Iterative)
			rr, _ := tree.RightMost(n, Recursive)
			require.Equal(t, ri, rr)
			return true
		})
	}

	empty := NewBST[int, int]()
	_, ok := empty.LeftMost(nil)
	require.False(t, ok)
	_, ok = empty.RightMost(nil, Recursive)
	require.False(t, ok)
}

func randomInsertAndRemoveRunCore(t *testing.T, variant Variant, opts []TreeOption[int, int], total int) {
	tree := New[int, int](variant, opts...)
	keys := randv2.Perm(total)
	for i, k := range keys {
		require.True(t, tree.Add(k, k))
		if i%97 == 0 {
			require.NoError(t, Validate(tree))
		}
	}
	require.NoError(t, Validate(tree))
	tree.Foreach(func(idx int64, n Node[int, int]) bool {
		require.Equal(t, int(idx), n.Key())
		return true
	})

	removed, kept := keys[:total/2], keys[total/2:]
	for i, k := range removed {
		res := tree.Delete(ByKey(k))
		require.Len(t, res, 1)
		require.Equal(t, k, res[0].Deleted.Key())
		require.Equal(t, k, res[0].Deleted.Val())
		if i%97 == 0 {
			require.NoError(t, Validate(tree))
		}
	}
	require.Equal(t, int64(len(kept)), tree.Len())
	require.NoError(t, Validate(tree))
	for _, k := range removed {
		require.False(t, tree.Has(ByKey(k)))
		require.Empty(t, tree.Delete(ByKey(k)))
	}
	for _, k := range kept {
		v, ok := tree.Get(ByKey(k))
		require.True(t, ok)
		require.Equal(t, k, v)
	}

	for tree.Len() > 0 {
		x, ok := tree.RemoveMax()
		require.True(t, ok)
		if m, ok := tree.Max(); ok {
			require.Less(t, m.Key(), x.Key())
		}
	}
	require.NoError(t, Validate(tree))
}

func TestBinaryTree_RandomInsertAndRemove(t *testing.T) {
	testcases := []struct {
		name string
		opts []TreeOption[int, int]
	}{
		{
			name: "rm by pred",
		},
		{
			name: "rm by succ",
			opts: []TreeOption[int, int]{WithRemoveBorrowSucc[int, int]()},
		},
		{
			name: "map mode",
			opts: []TreeOption[int, int]{WithMapMode[int, int]()},
		},
		{
			name: "recursive",
			opts: []TreeOption[int, int]{WithIterationType[int, int](Recursive)},
		},
	}
	for _, variant := range allVariants {
		for _, tc := range testcases {
			t.Run(variant.String()+" "+tc.name, func(tt *testing.T) {
				randomInsertAndRemoveRunCore(tt, variant, tc.opts, 2000)
			})
		}
	}
}

func TestBinaryTree_HeaderMinMax(t *testing.T) {
	for _, variant := range allVariants {
		tree := New[int, int](variant)
		present := map[int]struct{}{}
		for i := 0; i < 3000; i++ {
			k := randv2.IntN(500)
			if randv2.IntN(3) == 0 {
				tree.Delete(ByKey(k))
				delete(present, k)
			} else {
				tree.AddKey(k)
				present[k] = struct{}{}
			}

			minNode, hasMin := tree.Min()
			maxNode, hasMax := tree.Max()
			require.Equal(t, len(present) > 0, hasMin)
			require.Equal(t, len(present) > 0, hasMax)
			if len(present) == 0 {
				continue
			}
			lo, hi := 500, -1
			for p := range present {
				lo, hi = min(lo, p), max(hi, p)
			}
			require.Equal(t, lo, minNode.Key())
			require.Equal(t, hi, maxNode.Key())
		}
		require.NoError(t, Validate(tree))
	}
}

func TestBinaryTree_IdempotentInsert(t *testing.T) {
	for _, variant := range allVariants {
		tree := New[string, int](variant)
		require.True(t, tree.Add("a", 1))
		require.True(t, tree.Add("b", 2))
		require.False(t, tree.Add("a", 3))
		require.Equal(t, int64(2), tree.Len())
		v, ok := tree.Get(ByKey("a"))
		require.True(t, ok)
		require.Equal(t, 3, v)

		// A key without value keeps the previous value.
		require.False(t, tree.AddKey("a"))
		v, _ = tree.Get(ByKey("a"))
		require.Equal(t, 3, v)
		require.True(t, tree.AddKey("c"))
		n, _ := tree.GetNode(ByKey("c"))
		require.False(t, n.HasVal())
	}
}

func TestBinaryTree_Targets(t *testing.T) {
	tree := NewAVLTree[int, string]()
	tree.AddMany([]Entry[int, string]{
		{Key: 1, Value: "one"},
		{Key: 2, Value: "two"},
		{Key: 3, Value: "three"},
		{Key: 4, Value: "four"},
	}, false)

	v, ok := tree.Get(ByEntry(Entry[int, string]{Key: 2, Value: "ignored"}))
	require.True(t, ok)
	require.Equal(t, "two", v)

	n, ok := tree.GetNode(ByPredicate(func(n Node[int, string]) bool {
		return len(n.Val()) == 5
	}))
	require.True(t, ok)
	require.Equal(t, 3, n.Key())
	require.Equal(t, "three", n.Val())

	got, ok := tree.GetNode(ByNode(n))
	require.True(t, ok)
	require.Same(t, n, got)

	// A node of another tree resolves by its key.
	other := NewAVLTree[int, string]()
	other.Add(4, "x")
	foreign, _ := other.GetNode(ByKey(4))
	v, ok = tree.Get(ByNode(foreign))
	require.True(t, ok)
	require.Equal(t, "four", v)

	_, ok = tree.Get(ByPredicate[int, string](nil))
	require.False(t, ok)
	_, ok = tree.Get(ByNode[int, string](nil))
	require.False(t, ok)
	_, ok = tree.Get(nil)
	require.False(t, ok)
	// A target of another key type matches nothing.
	_, ok = tree.Get(ByKey("4"))
	require.False(t, ok)
	require.False(t, tree.Has(ByKey(int64(4))))

	res := tree.Delete(ByPredicate(func(n Node[int, string]) bool {
		return n.Key()%2 == 0
	}))
	require.Len(t, res, 1)
	require.Equal(t, 2, res[0].Deleted.Key())
	require.Equal(t, []int{1, 3, 4}, tree.Keys())
}

func TestBinaryTree_NilKeys(t *testing.T) {
	tree := NewBST[*int, int](WithComparator[*int, int](func(a, b *int) int {
		return *a - *b
	}))
	one, two := 1, 2
	require.False(t, tree.Add(nil, 0))
	require.True(t, tree.Add(&one, 1))
	require.True(t, tree.AddWithHint(&two, 2, tree.Root()))
	require.False(t, tree.AddWithHint(nil, 3, tree.Root()))
	require.Equal(t, int64(2), tree.Len())

	_, ok := tree.Get(ByKey[*int](nil))
	require.False(t, ok)
	_, ok = tree.FloorEntry(ByKey[*int](nil))
	require.False(t, ok)
	_, ok = tree.Get(ByEntry(Entry[*int, int]{Key: nil}))
	require.False(t, ok)
	nodes, err := tree.RangeSearch(Range[*int]{Low: nil, High: &two})
	require.NoError(t, err)
	require.Empty(t, nodes)

	res := tree.AddManyKeys([]*int{nil, &one, nil}, true)
	require.Equal(t, []bool{false, false, false}, res)
	require.Equal(t, int64(2), tree.Len())
}

func TestBinaryTree_ComparatorRequired(t *testing.T) {
	type point struct {
		x, y int
	}

	// Detected lazily, on the first comparison.
	tree := NewRBTree[point, int]()
	require.True(t, tree.AddKey(point{1, 2}))

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err, _ = r.(error)
			}
		}()
		tree.AddKey(point{3, 4})
	}()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrComparatorRequired))

	tree = NewRBTree[point, int](WithComparator[point, int](func(a, b point) int {
		if a.x != b.x {
			return a.x - b.x
		}
		return a.y - b.y
	}))
	for i := 10; i > 0; i-- {
		require.True(t, tree.AddKey(point{i % 3, i}))
	}
	require.NoError(t, Validate(tree))
	minNode, _ := tree.Min()
	require.Equal(t, point{0, 3}, minNode.Key())
}

func TestBinaryTree_NamedKeyNaturalOrder(t *testing.T) {
	type score uint16
	tree := NewAVLTree[score, struct{}]()
	for _, s := range []score{30, 10, 20} {
		tree.AddKey(s)
	}
	require.Equal(t, []score{10, 20, 30}, tree.Keys())
}

func TestBinaryTree_DescOrder(t *testing.T) {
	tree := NewAVLTree[int, int](WithDescOrder[int, int]())
	tree.AddManyKeys([]int{5, 1, 9, 3, 7}, false)
	require.Equal(t, []int{9, 7, 5, 3, 1}, tree.Keys())

	minNode, _ := tree.Min()
	require.Equal(t, 9, minNode.Key())
	n, ok := tree.FloorEntry(ByKey(6))
	require.True(t, ok)
	require.Equal(t, 7, n.Key())
	require.NoError(t, Validate(tree))
}

func TestBinaryTree_MapMode(t *testing.T) {
	tree := NewRBTree[string, []byte](WithMapMode[string, []byte]())
	require.True(t, tree.IsMapMode())
	for _, k := range []string{"m", "c", "x", "a", "e"} {
		tree.Add(k, []byte(k+k))
	}
	n, ok := tree.GetNode(ByKey("c"))
	require.True(t, ok)
	require.Equal(t, []byte("cc"), n.Val())

	tree.Add("c", []byte("C"))
	require.Equal(t, []byte("C"), n.Val())

	res := tree.Delete(ByKey("m"))
	require.Len(t, res, 1)
	// The value goes along with the detached node.
	require.Equal(t, []byte("mm"), res[0].Deleted.Val())
	require.True(t, res[0].Deleted.HasVal())
	_, ok = tree.Get(ByKey("m"))
	require.False(t, ok)

	require.Equal(t, []string{"a", "c", "e", "x"}, tree.Keys())
	require.Equal(t, [][]byte{[]byte("aa"), []byte("C"), []byte("ee"), []byte("xx")}, tree.Values())
	require.NoError(t, Validate(tree))

	tree.Clear()
	require.Equal(t, int64(0), tree.Len())
	_, ok = tree.Get(ByKey("a"))
	require.False(t, ok)
}

func TestBinaryTree_MapModeUnhashableKeys(t *testing.T) {
	for _, v := range allVariants {
		t.Run(v.String(), func(t *testing.T) {
			tree := New[[]byte, int](v,
				WithMapMode[[]byte, int](),
				WithComparator[[]byte, int](bytes.Compare),
			)
			for i, k := range []string{"m", "c", "x", "a", "e"} {
				require.NotPanics(t, func() {
					tree.Add([]byte(k), i)
				})
			}
			val, ok := tree.Get(ByKey([]byte("x")))
			require.True(t, ok)
			require.Equal(t, 2, val)

			tree.Add([]byte("x"), 20)
			val, ok = tree.Get(ByKey([]byte("x")))
			require.True(t, ok)
			require.Equal(t, 20, val)

			res := tree.Delete(ByKey([]byte("c")))
			require.Len(t, res, 1)
			require.Equal(t, 1, res[0].Deleted.Val())
			require.NoError(t, Validate(tree))

			c := tree.Clone()
			require.True(t, c.IsMapMode())
			require.Equal(t, []int{3, 4, 0, 20}, c.Values())
			tree.Add([]byte("a"), 30)
			val, ok = c.Get(ByKey([]byte("a")))
			require.True(t, ok)
			require.Equal(t, 3, val)
		})
	}
}

func TestBinaryTree_MapModeNaNKey(t *testing.T) {
	for _, mapMode := range []bool{false, true} {
		opts := []TreeOption[float64, string]{}
		if mapMode {
			opts = append(opts, WithMapMode[float64, string]())
		}
		tree := NewRBTree[float64, string](opts...)
		tree.AddMany([]Entry[float64, string]{
			{Key: 1, Value: "one"},
			{Key: math.NaN(), Value: "nan"},
			{Key: -1, Value: "minus"},
		}, false)
		require.True(t, tree.Has(ByKey(math.NaN())))

		val, ok := tree.Get(ByKey(math.NaN()))
		require.True(t, ok, "map mode %v", mapMode)
		require.Equal(t, "nan", val)

		n, ok := tree.GetNode(ByKey(math.NaN()))
		require.True(t, ok)
		require.True(t, n.HasVal())
		require.Equal(t, "nan", n.Val())
		require.Equal(t, []string{"nan", "minus", "one"}, tree.Values())
	}
}

func TestBinaryTree_DeleteResult(t *testing.T) {
	tree := NewBST[int, int]()
	tree.AddManyKeys([]int{10, 5, 15, 3, 7}, false)

	res := tree.Delete(ByKey(3))
	require.Len(t, res, 1)
	require.Equal(t, 3, res[0].Deleted.Key())
	require.Equal(t, 5, res[0].NeedBalanced.Key())
	require.Nil(t, res[0].Deleted.Parent())

	// Two children, borrow the pred 7 of 5 then unlink it.
	res = tree.Delete(ByKey(10))
	require.Len(t, res, 1)
	require.Equal(t, 10, res[0].Deleted.Key())
	require.Equal(t, 7, tree.Root().Key())
	require.Equal(t, 5, res[0].NeedBalanced.Key())

	tree.Delete(ByKey(5))
	tree.Delete(ByKey(15))
	res = tree.Delete(ByKey(7))
	require.Len(t, res, 1)
	require.Nil(t, res[0].NeedBalanced)
	require.Nil(t, tree.Root())
}

func TestBinaryTree_CloneAndMerge(t *testing.T) {
	for _, variant := range allVariants {
		tree := New[int, string](variant)
		for i := 0; i < 100; i++ {
			tree.Add(i*2, "even")
		}
		cloned := tree.Clone()
		require.Equal(t, variant, cloned.Variant())
		require.Equal(t, tree.Len(), cloned.Len())
		require.Equal(t, tree.Keys(), cloned.Keys())
		require.NoError(t, Validate(cloned))

		cloned.Delete(ByKey(0))
		cloned.Add(1, "odd")
		require.True(t, tree.Has(ByKey(0)))
		require.False(t, tree.Has(ByKey(1)))
		// Nodes of the clone are not attached to the source.
		n, _ := cloned.GetNode(ByKey(2))
		require.Equal(t, -1, tree.Depth(n, nil))

		other := New[int, string](variant)
		for i := 0; i < 50; i++ {
			other.Add(i*3, "three")
		}
		tree.Merge(other)
		require.NoError(t, Validate(tree))
		// The multiples of 6 below 150 are shared.
		require.Equal(t, int64(100+50-25), tree.Len())
		v, _ := tree.Get(ByKey(6))
		require.Equal(t, "three", v)
		v, _ = tree.Get(ByKey(4))
		require.Equal(t, "even", v)

		tree.Merge(nil)
		require.Equal(t, int64(125), tree.Len())
	}
}

func TestNew_UnknownVariant(t *testing.T) {
	require.Panics(t, func() {
		New[int, int](Variant(9))
	})
	require.Equal(t, "Variant(9)", Variant(9).String())
	require.Equal(t, "RB", RB.String())
	require.Equal(t, "Red", Red.String())
}

func BenchmarkAVLTree_Random(b *testing.B) {
	b.StopTimer()
	tree := NewAVLTree[int, int]()
	rngArr := make([]int, 0, b.N)
	for i := 0; i < b.N; i++ {
		rngArr = append(rngArr, randv2.Int())
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Add(rngArr[i], i)
	}
}

func BenchmarkBST_AddWithHint_Serial(b *testing.B) {
	tree := NewBST[int, int]()
	var hint Node[int, int]
	for i := 0; i < b.N; i++ {
		tree.AddWithHint(i, i, hint)
		hint, _ = tree.Max()
	}
}
