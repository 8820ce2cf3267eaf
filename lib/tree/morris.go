package tree

import (
	"iter"
)

// Morris yields the nodes in O(1) extra space by threading the right
// slot of every in-order predecessor back to its successor. The threads
// are always removed, if the consumer stops early the walk goes on to
// the end without yielding.
// The tree must not be read through the Node view or mutated until the
// iteration finished.
func (tree *binaryTree[K, V]) Morris(order DFSOrder) iter.Seq[Node[K, V]] {
	return func(yield func(Node[K, V]) bool) {
		if tree.root.isNil() {
			return
		}
		stopped := false
		emit := func(x *node[K, V]) {
			if !stopped && !yield(x) {
				stopped = true
			}
		}
		switch order {
		case PreOrder:
			tree.morrisPreOrder(emit)
		case InOrder:
			tree.morrisInOrder(emit)
		case PostOrder:
			tree.morrisPostOrder(emit)
		default:
		}
	}
}

// thread returns the in-order predecessor of cur within its left
// subtree, stopping at an existing thread back to cur.
func (tree *binaryTree[K, V]) thread(cur *node[K, V]) *node[K, V] {
	pred := cur.left
	for !pred.right.isNil() && pred.right != cur {
		pred = pred.right
	}
	return pred
}

func (tree *binaryTree[K, V]) morrisInOrder(emit func(*node[K, V])) {
	for cur := tree.root; !cur.isNil(); {
		if cur.left.isNil() {
			emit(cur)
			cur = cur.right
			continue
		}
		if pred := tree.thread(cur); pred.right.isNil() {
			pred.right = cur
			cur = cur.left
		} else {
			pred.right = tree.sentinel
			emit(cur)
			cur = cur.right
		}
	}
}

func (tree *binaryTree[K, V]) morrisPreOrder(emit func(*node[K, V])) {
	for cur := tree.root; !cur.isNil(); {
		if cur.left.isNil() {
			emit(cur)
			cur = cur.right
			continue
		}
		if pred := tree.thread(cur); pred.right.isNil() {
			emit(cur)
			pred.right = cur
			cur = cur.left
		} else {
			pred.right = tree.sentinel
			cur = cur.right
		}
	}
}

/*
morrisPostOrder hangs the tree under a dummy node. Once the thread of cur
is removed, the right edge from cur.left down to pred is emitted bottom
up, by reversing it, walking it and reversing it back.

	 dummy
	 /
	R
*/
func (tree *binaryTree[K, V]) morrisPostOrder(emit func(*node[K, V])) {
	dummy := &node[K, V]{left: tree.root, right: tree.sentinel}
	for cur := dummy; !cur.isNil(); {
		if cur.left.isNil() {
			cur = cur.right
			continue
		}
		if pred := tree.thread(cur); pred.right.isNil() {
			pred.right = cur
			cur = cur.left
		} else {
			pred.right = tree.sentinel
			tree.emitReversedEdge(cur.left, pred, emit)
			cur = cur.right
		}
	}
	dummy.left = nil
}

func (tree *binaryTree[K, V]) reverseEdge(from, to *node[K, V]) {
	if from == to {
		return
	}
	x, y := from, from.right
	for x != to {
		z := y.right
		y.right = x
		x, y = y, z
	}
}

func (tree *binaryTree[K, V]) emitReversedEdge(from, to *node[K, V], emit func(*node[K, V])) {
	tree.reverseEdge(from, to)
	for aux := to; ; aux = aux.right {
		emit(aux)
		if aux == from {
			break
		}
	}
	tree.reverseEdge(to, from)
	// The reversal back leaves to pointing at its old parent on the edge.
	to.right = tree.sentinel
}
