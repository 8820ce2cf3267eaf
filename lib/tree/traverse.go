package tree

import (
	"iter"

	"github.com/samber/lo"

	"github.com/benz9527/xtree/lib/list"
)

// inorder is the explicit stack in-order walk every other in-order API
// is built on.
func (tree *binaryTree[K, V]) inorder(fn func(x *node[K, V]) bool) {
	aux := tree.root
	if aux.isNil() {
		return
	}

	stack := make([]*node[K, V], 0, 32)
	defer func() {
		clear(stack)
	}()

	for ; !aux.isNil(); aux = aux.left {
		stack = append(stack, aux)
	}
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !fn(aux) {
			return
		}
		stack = stack[:size-1]
		for aux = aux.right; !aux.isNil(); aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

// All iterates the entries in order.
func (tree *binaryTree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		tree.inorder(func(x *node[K, V]) bool {
			val, _ := tree.store.load(x)
			return yield(x.key, val)
		})
	}
}

func (tree *binaryTree[K, V]) Keys() []K {
	keys := make([]K, 0, tree.count)
	tree.inorder(func(x *node[K, V]) bool {
		keys = append(keys, x.key)
		return true
	})
	return keys
}

func (tree *binaryTree[K, V]) Values() []V {
	values := make([]V, 0, tree.count)
	tree.inorder(func(x *node[K, V]) bool {
		val, _ := tree.store.load(x)
		values = append(values, val)
		return true
	})
	return values
}

func (tree *binaryTree[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, tree.count)
	for k, v := range tree.All() {
		entries = append(entries, Entry[K, V]{Key: k, Value: v})
	}
	return entries
}

// Foreach is the in-order traversal, stopped once action returns false.
func (tree *binaryTree[K, V]) Foreach(action func(idx int64, n Node[K, V]) bool) {
	idx := int64(0)
	tree.inorder(func(x *node[K, V]) bool {
		if !action(idx, x) {
			return false
		}
		idx++
		return true
	})
}

// BFS yields the nodes level by level.
func (tree *binaryTree[K, V]) BFS(iterType ...IterationType) iter.Seq[Node[K, V]] {
	if tree.iterationType(iterType) == Recursive {
		return func(yield func(Node[K, V]) bool) {
			if tree.root.isNil() {
				return
			}
			tree.bfsRecursive([]*node[K, V]{tree.root}, yield)
		}
	}
	return func(yield func(Node[K, V]) bool) {
		if tree.root.isNil() {
			return
		}
		queue := list.NewQueue[*node[K, V]]()
		defer queue.Clear()
		queue.Enqueue(tree.root)
		for !queue.IsEmpty() {
			aux, _ := queue.Dequeue()
			if !yield(aux) {
				return
			}
			if !aux.left.isNil() {
				queue.Enqueue(aux.left)
			}
			if !aux.right.isNil() {
				queue.Enqueue(aux.right)
			}
		}
	}
}

// bfsRecursive recurses once per level.
func (tree *binaryTree[K, V]) bfsRecursive(level []*node[K, V], yield func(Node[K, V]) bool) bool {
	if len(level) == 0 {
		return true
	}
	next := make([]*node[K, V], 0, len(level)<<1)
	for _, aux := range level {
		if !yield(aux) {
			return false
		}
		if !aux.left.isNil() {
			next = append(next, aux.left)
		}
		if !aux.right.isNil() {
			next = append(next, aux.right)
		}
	}
	return tree.bfsRecursive(next, yield)
}

// DFS yields the nodes in pre, in or post order.
func (tree *binaryTree[K, V]) DFS(order DFSOrder, iterType ...IterationType) iter.Seq[Node[K, V]] {
	if tree.iterationType(iterType) == Recursive {
		return func(yield func(Node[K, V]) bool) {
			tree.dfsRecursive(order, tree.root, yield)
		}
	}
	return func(yield func(Node[K, V]) bool) {
		tree.dfsIterative(order, yield)
	}
}

func (tree *binaryTree[K, V]) dfsRecursive(order DFSOrder, aux *node[K, V], yield func(Node[K, V]) bool) bool {
	if aux.isNil() {
		return true
	}
	switch order {
	case PreOrder:
		return yield(aux) &&
			tree.dfsRecursive(order, aux.left, yield) &&
			tree.dfsRecursive(order, aux.right, yield)
	case InOrder:
		return tree.dfsRecursive(order, aux.left, yield) &&
			yield(aux) &&
			tree.dfsRecursive(order, aux.right, yield)
	case PostOrder:
		return tree.dfsRecursive(order, aux.left, yield) &&
			tree.dfsRecursive(order, aux.right, yield) &&
			yield(aux)
	default:
	}
	return false
}

/*
dfsIterative pops an entry, then either emits it or visits it. Visiting
pushes the children and the node itself as an emit entry, in the reverse
order of the expected emission.

	pre:  push(R visit), push(L visit), push(X emit)
	in:   push(R visit), push(X emit), push(L visit)
	post: push(X emit), push(R visit), push(L visit)
*/
func (tree *binaryTree[K, V]) dfsIterative(order DFSOrder, yield func(Node[K, V]) bool) {
	if tree.root.isNil() {
		return
	}

	type entry struct {
		x    *node[K, V]
		emit bool
	}
	stack := make([]entry, 0, 32)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, entry{x: tree.root})
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.x.isNil() {
			continue
		}
		if e.emit {
			if !yield(e.x) {
				return
			}
			continue
		}
		switch order {
		case PreOrder:
			stack = append(stack, entry{x: e.x.right}, entry{x: e.x.left}, entry{x: e.x, emit: true})
		case InOrder:
			stack = append(stack, entry{x: e.x.right}, entry{x: e.x, emit: true}, entry{x: e.x.left})
		case PostOrder:
			stack = append(stack, entry{x: e.x, emit: true}, entry{x: e.x.right}, entry{x: e.x.left})
		default:
			return
		}
	}
}

// ListLevels groups the nodes by depth.
func (tree *binaryTree[K, V]) ListLevels(iterType ...IterationType) [][]Node[K, V] {
	levels := make([][]Node[K, V], 0, 8)
	if tree.root.isNil() {
		return levels
	}

	if tree.iterationType(iterType) == Recursive {
		var walk func(aux *node[K, V], level int)
		walk = func(aux *node[K, V], level int) {
			if len(levels) <= level {
				levels = append(levels, make([]Node[K, V], 0, 1<<min(level, 10)))
			}
			levels[level] = append(levels[level], aux)
			if !aux.left.isNil() {
				walk(aux.left, level+1)
			}
			if !aux.right.isNil() {
				walk(aux.right, level+1)
			}
		}
		walk(tree.root, 0)
		return levels
	}

	queue := list.NewQueue[*node[K, V]]()
	defer queue.Clear()
	queue.Enqueue(tree.root)
	for !queue.IsEmpty() {
		size := queue.Len()
		level := make([]Node[K, V], 0, size)
		for i := int64(0); i < size; i++ {
			aux, _ := queue.Dequeue()
			level = append(level, aux)
			if !aux.left.isNil() {
				queue.Enqueue(aux.left)
			}
			if !aux.right.isNil() {
				queue.Enqueue(aux.right)
			}
		}
		levels = append(levels, level)
	}
	return levels
}

// LesserOrGreaterTraverse returns the nodes, in order, whose key compares
// to the pivot with the given sign: -1 lesser, 0 equal, 1 greater.
func (tree *binaryTree[K, V]) LesserOrGreaterTraverse(sign int, pivot Target[K, V], iterType ...IterationType) []Node[K, V] {
	res := make([]Node[K, V], 0, 16)
	l := tree.resolve(pivot)
	if l.kind == lookupPredicate {
		if x := tree.firstMatch(l.pred); x != nil {
			l = lookup[K, V]{kind: lookupNode, key: x.key, node: x}
		} else {
			return res
		}
	}
	if l.kind == lookupNone {
		return res
	}

	sign = max(-1, min(1, sign))
	for n := range tree.DFS(InOrder, iterType...) {
		c := tree.compare(n.Key(), l.key)
		if max(-1, min(1, c)) == sign {
			res = append(res, n)
		}
	}
	return res
}

// Height counts the edges of the longest downward path from the node,
// -1 for an empty tree. A nil from means the root.
func (tree *binaryTree[K, V]) Height(from Node[K, V], iterType ...IterationType) int {
	begin := tree.beginAt(from)
	if begin.isNil() {
		return -1
	}

	if tree.iterationType(iterType) == Recursive {
		var height func(aux *node[K, V]) int
		height = func(aux *node[K, V]) int {
			if aux.isNil() {
				return -1
			}
			return 1 + max(height(aux.left), height(aux.right))
		}
		return height(begin)
	}

	type entry struct {
		x     *node[K, V]
		depth int
	}
	res := -1
	stack := []entry{{x: begin}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		res = max(res, e.depth)
		if !e.x.left.isNil() {
			stack = append(stack, entry{x: e.x.left, depth: e.depth + 1})
		}
		if !e.x.right.isNil() {
			stack = append(stack, entry{x: e.x.right, depth: e.depth + 1})
		}
	}
	return res
}

// MinHeight counts the edges of the shortest downward path from the node
// to a node with an empty child slot, -1 for an empty tree.
func (tree *binaryTree[K, V]) MinHeight(from Node[K, V], iterType ...IterationType) int {
	begin := tree.beginAt(from)
	if begin.isNil() {
		return -1
	}

	if tree.iterationType(iterType) == Recursive {
		var minHeight func(aux *node[K, V]) int
		minHeight = func(aux *node[K, V]) int {
			if aux.isNil() {
				return -1
			}
			return 1 + min(minHeight(aux.left), minHeight(aux.right))
		}
		return minHeight(begin)
	}

	queue := list.NewQueue[*node[K, V]]()
	defer queue.Clear()
	queue.Enqueue(begin)
	for depth := 0; !queue.IsEmpty(); depth++ {
		for size := queue.Len(); size > 0; size-- {
			aux, _ := queue.Dequeue()
			if aux.left.isNil() || aux.right.isNil() {
				return depth
			}
			queue.Enqueue(aux.left)
			queue.Enqueue(aux.right)
		}
	}
	// impossible run to here
	return -1
}

// Depth counts the edges from the node up to from, -1 if the node is not
// below from. A nil from means the root.
func (tree *binaryTree[K, V]) Depth(n Node[K, V], from Node[K, V]) int {
	x, begin := tree.attached(n), tree.beginAt(from)
	if x == nil || begin.isNil() {
		return -1
	}
	depth := 0
	for aux := x; aux != nil; aux = aux.parent {
		if aux == begin {
			return depth
		}
		depth++
	}
	return -1
}

// PathToRoot returns the nodes from n up to the root, or from the root
// down to n when reverse is set.
func (tree *binaryTree[K, V]) PathToRoot(n Node[K, V], reverse bool) []Node[K, V] {
	x := tree.attached(n)
	if x == nil {
		return []Node[K, V]{}
	}
	path := make([]Node[K, V], 0, 16)
	for aux := x; aux != nil; aux = aux.parent {
		path = append(path, aux)
	}
	if reverse {
		return lo.Reverse(path)
	}
	return path
}

// beginAt resolves the traversal start, the root for a nil node.
func (tree *binaryTree[K, V]) beginAt(from Node[K, V]) *node[K, V] {
	if from == nil {
		return tree.root
	}
	if x := tree.attached(from); x != nil {
		return x
	}
	return tree.sentinel
}
