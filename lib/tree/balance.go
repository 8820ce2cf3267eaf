package tree

import (
	"math/bits"
	"slices"

	"github.com/benz9527/xtree/lib/infra"
)

type balancedItem[K, V any] struct {
	key    K
	val    V
	idx    int
	hasVal bool
}

// buildBalanced inserts the sorted items by midpoint recursion, the
// classic sorted array to BST conversion. An empty tree is linked
// directly into a complete tree of minimum height, otherwise the
// midpoints go through add and the balancer.
func (tree *binaryTree[K, V]) buildBalanced(items []balancedItem[K, V], res []bool, iterType IterationType) {
	if tree.root.isNil() {
		tree.linkBalanced(items, res, iterType)
		return
	}

	add := func(item balancedItem[K, V]) {
		ok := tree.add(item.key, item.val, item.hasVal)
		if res != nil && item.idx >= 0 {
			res[item.idx] = ok
		}
	}

	if iterType == Recursive {
		var build func(l, r int)
		build = func(l, r int) {
			if l > r {
				return
			}
			m := l + (r-l)>>1
			add(items[m])
			build(l, m-1)
			build(m+1, r)
		}
		build(0, len(items)-1)
		return
	}

	type span struct {
		l, r int
	}
	stack := make([]span, 0, 32)
	stack = append(stack, span{l: 0, r: len(items) - 1})
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.l > s.r {
			continue
		}
		m := s.l + (s.r-s.l)>>1
		add(items[m])
		stack = append(stack, span{l: m + 1, r: s.r}, span{l: s.l, r: m - 1})
	}
}

/*
linkBalanced links the sorted distinct items into the empty tree without
any descent or rotation. A span of n items gets the height
floor(log2(n)), all the empty slots are on the last two levels.

	[1 2 3 4 5 6]        3
	      ^            /   \
	   m = 2          1     5
	                   \   / \
	                    2 4   6
*/
func (tree *binaryTree[K, V]) linkBalanced(items []balancedItem[K, V], res []bool, iterType IterationType) {
	size := len(items)
	if size == 0 {
		return
	}
	treeHeight := bits.Len(uint(size)) - 1

	link := func(l, r, depth int, parent *node[K, V]) *node[K, V] {
		m := l + (r-l)>>1
		item := items[m]
		x := tree.newNode(item.key, item.val, item.hasVal, parent)
		tree.balancer.linked(x, depth, bits.Len(uint(r-l+1))-1, treeHeight)
		if m == 0 {
			tree.header.left = x
		}
		if m == size-1 {
			tree.header.right = x
		}
		if res != nil && item.idx >= 0 {
			res[item.idx] = true
		}
		tree.stats.IncreaseInsertCount()
		return x
	}

	if iterType == Recursive {
		var build func(l, r, depth int, parent *node[K, V]) *node[K, V]
		build = func(l, r, depth int, parent *node[K, V]) *node[K, V] {
			if l > r {
				return tree.sentinel
			}
			m := l + (r-l)>>1
			x := link(l, r, depth, parent)
			x.left = build(l, m-1, depth+1, x)
			x.right = build(m+1, r, depth+1, x)
			return x
		}
		tree.root = build(0, size-1, 0, nil)
	} else {
		type span struct {
			parent      *node[K, V]
			l, r, depth int
			dir         direction
		}
		stack := make([]span, 0, 2*(treeHeight+1))
		stack = append(stack, span{l: 0, r: size - 1, dir: dirRoot})
		for len(stack) > 0 {
			s := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if s.l > s.r {
				continue
			}
			x := link(s.l, s.r, s.depth, s.parent)
			switch s.dir {
			case dirLeft:
				s.parent.left = x
			case dirRight:
				s.parent.right = x
			default:
				tree.root = x
			}
			m := s.l + (s.r-s.l)>>1
			stack = append(stack,
				span{parent: x, l: m + 1, r: s.r, depth: s.depth + 1, dir: dirRight},
				span{parent: x, l: s.l, r: m - 1, depth: s.depth + 1, dir: dirLeft},
			)
		}
	}
	tree.count = int64(size)
	tree.stats.RecordSize(int64(size))
}

// PerfectlyBalance rebuilds the tree into a complete tree of minimum
// height. It is a no-op returning false for less than 2 nodes.
func (tree *binaryTree[K, V]) PerfectlyBalance(iterType ...IterationType) bool {
	if tree.count < 2 {
		return false
	}

	items := make([]balancedItem[K, V], 0, tree.count)
	tree.inorder(func(x *node[K, V]) bool {
		val, hasVal := tree.store.load(x)
		items = append(items, balancedItem[K, V]{key: x.key, val: val, hasVal: hasVal, idx: -1})
		return true
	})
	tree.Clear()
	tree.buildBalanced(items, nil, tree.iterationType(iterType))
	return true
}

func (tree *binaryTree[K, V]) AddMany(entries []Entry[K, V], isBalanceAdd bool, iterType ...IterationType) []bool {
	res := make([]bool, len(entries))
	if !isBalanceAdd {
		for i, e := range entries {
			res[i] = tree.add(e.Key, e.Value, true)
		}
		return res
	}

	items := make([]balancedItem[K, V], 0, len(entries))
	for i, e := range entries {
		items = append(items, balancedItem[K, V]{key: e.Key, val: e.Value, hasVal: true, idx: i})
	}
	tree.addBalanced(items, res, tree.iterationType(iterType))
	return res
}

func (tree *binaryTree[K, V]) AddManyKeys(keys []K, isBalanceAdd bool, iterType ...IterationType) []bool {
	res := make([]bool, len(keys))
	if !isBalanceAdd {
		var zero V
		for i, k := range keys {
			res[i] = tree.add(k, zero, false)
		}
		return res
	}

	items := make([]balancedItem[K, V], 0, len(keys))
	for i, k := range keys {
		items = append(items, balancedItem[K, V]{key: k, idx: i})
	}
	tree.addBalanced(items, res, tree.iterationType(iterType))
	return res
}

/*
addBalanced sorts the items (stable), folds the runs of equal keys and
inserts them by midpoint recursion.
A run of duplicates is reported on the first index of the run and
carries the value of the last one, the same outcome as sequential
upserts.
Nil keys are rejected up front, they keep false in res.
*/
func (tree *binaryTree[K, V]) addBalanced(items []balancedItem[K, V], res []bool, iterType IterationType) {
	items = slices.DeleteFunc(items, func(item balancedItem[K, V]) bool {
		return infra.IsNilKey(item.key)
	})
	if len(items) == 0 {
		return
	}
	slices.SortStableFunc(items, func(a, b balancedItem[K, V]) int {
		return tree.compare(a.key, b.key)
	})

	folded := items[:1]
	for _, item := range items[1:] {
		last := &folded[len(folded)-1]
		if tree.compare(last.key, item.key) != 0 {
			folded = append(folded, item)
			continue
		}
		if item.hasVal {
			last.val, last.hasVal = item.val, true
		}
	}
	tree.buildBalanced(folded, res, iterType)
}

// IsAVLBalanced verifies that the heights of the two children of every
// node differ by at most 1, whatever the balancer.
func (tree *binaryTree[K, V]) IsAVLBalanced(iterType ...IterationType) bool {
	if tree.root.isNil() {
		return true
	}

	if tree.iterationType(iterType) == Recursive {
		var height func(aux *node[K, V]) (int, bool)
		height = func(aux *node[K, V]) (int, bool) {
			if aux.isNil() {
				return -1, true
			}
			lh, ok := height(aux.left)
			if !ok {
				return 0, false
			}
			rh, ok := height(aux.right)
			if !ok || lh-rh > 1 || rh-lh > 1 {
				return 0, false
			}
			return 1 + max(lh, rh), true
		}
		_, ok := height(tree.root)
		return ok
	}

	// Reversed post order by two stacks.
	heights := make(map[*node[K, V]]int, tree.count)
	heightOf := func(aux *node[K, V]) int {
		if aux.isNil() {
			return -1
		}
		return heights[aux]
	}
	stack := []*node[K, V]{tree.root}
	postorder := make([]*node[K, V], 0, tree.count)
	for len(stack) > 0 {
		aux := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		postorder = append(postorder, aux)
		if !aux.left.isNil() {
			stack = append(stack, aux.left)
		}
		if !aux.right.isNil() {
			stack = append(stack, aux.right)
		}
	}
	for i := len(postorder) - 1; i >= 0; i-- {
		aux := postorder[i]
		lh, rh := heightOf(aux.left), heightOf(aux.right)
		if lh-rh > 1 || rh-lh > 1 {
			return false
		}
		heights[aux] = 1 + max(lh, rh)
	}
	return true
}

// IsBST verifies that the in-order keys are strictly increasing.
func (tree *binaryTree[K, V]) IsBST(iterType ...IterationType) bool {
	var prev *node[K, V]
	if tree.iterationType(iterType) == Recursive {
		var check func(aux *node[K, V]) bool
		check = func(aux *node[K, V]) bool {
			if aux.isNil() {
				return true
			}
			if !check(aux.left) {
				return false
			}
			if prev != nil && tree.compare(prev.key, aux.key) >= 0 {
				return false
			}
			prev = aux
			return check(aux.right)
		}
		return check(tree.root)
	}

	ok := true
	tree.inorder(func(x *node[K, V]) bool {
		if prev != nil && tree.compare(prev.key, x.key) >= 0 {
			ok = false
			return false
		}
		prev = x
		return true
	})
	return ok
}

// IsPerfectlyBalanced reports whether no empty slot is more than one
// level above the deepest node.
func (tree *binaryTree[K, V]) IsPerfectlyBalanced() bool {
	return tree.MinHeight(nil, Iterative)+1 >= tree.Height(nil, Iterative)
}
