package tree

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

func isBlack[K, V any](n Node[K, V]) bool {
	return n == nil || n.Color() == Black
}

func isRed[K, V any](n Node[K, V]) bool {
	return n != nil && n.Color() == Red
}

func isRoot[K, V any](n Node[K, V]) bool {
	return n != nil && n.Parent() == nil
}

func blackDepthTo[K, V any](target, to Node[K, V]) int {
	depth := 0
	for aux := target; aux != nil && aux != to; aux = aux.Parent() {
		if isBlack[K, V](aux) {
			depth++
		}
	}
	return depth
}

// Tree rule validation utilities. They read the tree through the Node
// view only and report the first violation found.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

// RedViolationValidate checks by inorder traversal that no red node has a
// red parent or a red child, and that the root is black.
func RedViolationValidate[K, V any](tree BinaryTree[K, V]) error {
	aux := tree.Root()
	if aux == nil {
		return nil
	}
	if isRed[K, V](aux) {
		return errors.New("rbtree red root violation")
	}

	var err error
	tree.Foreach(func(_ int64, n Node[K, V]) bool {
		if !isRed[K, V](n) {
			return true
		}
		if (!isRoot[K, V](n.Parent()) && isRed[K, V](n.Parent())) ||
			isRed[K, V](n.Left()) || isRed[K, V](n.Right()) {
			err = fmt.Errorf("rbtree red violation at key %v", n.Key())
			return false
		}
		return true
	})
	return err
}

// BFS traversal to load all nodes with an empty child slot.
func bfsLeaves[K, V any](tree BinaryTree[K, V]) []Node[K, V] {
	if tree.Root() == nil {
		return nil
	}

	leaves := make([]Node[K, V], 0, tree.Len()>>1+1)
	for n := range tree.BFS(Iterative) {
		if /* nil leaves, keep one */ n.Left() == nil || n.Right() == nil {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
	        /  \
	     <8>    [15]
	     / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
	      /  \             /    \
	     /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each leaf node to root node black depth are equal.
*/
func BlackViolationValidate[K, V any](tree BinaryTree[K, V]) error {
	leaves := bfsLeaves[K, V](tree)
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo[K, V](leaves[0], nil)
	for i := 1; i < len(leaves); i++ {
		if d := blackDepthTo[K, V](leaves[i], nil); d != blackDepth {
			return fmt.Errorf("rbtree black violation at key %v, black depth %d, expected %d",
				leaves[i].Key(), d, blackDepth)
		}
	}
	return nil
}

// AVLViolationValidate checks the children heights of every node differ
// by at most 1, and that the recorded heights are the real ones.
func AVLViolationValidate[K, V any](tree BinaryTree[K, V]) error {
	if !tree.IsAVLBalanced(Iterative) {
		return errors.New("avl height balance violation")
	}
	var err error
	for n := range tree.DFS(PostOrder, Iterative) {
		lh, rh := -1, -1
		if l := n.Left(); l != nil {
			lh = l.Height()
		}
		if r := n.Right(); r != nil {
			rh = r.Height()
		}
		if n.Height() != 1+max(lh, rh) {
			err = fmt.Errorf("avl height violation at key %v, height %d, expected %d",
				n.Key(), n.Height(), 1+max(lh, rh))
			break
		}
	}
	return err
}

func BSTViolationValidate[K, V any](tree BinaryTree[K, V]) error {
	if !tree.IsBST(Iterative) {
		return errors.New("bst order violation")
	}
	return nil
}

// SizeViolationValidate checks the size against a full traversal.
func SizeViolationValidate[K, V any](tree BinaryTree[K, V]) error {
	count := int64(0)
	for range tree.BFS(Iterative) {
		count++
	}
	if count != tree.Len() {
		return fmt.Errorf("size violation, len %d, traversed %d", tree.Len(), count)
	}
	return nil
}

// HeaderViolationValidate checks the cached minimum and maximum against
// the leftmost and rightmost nodes.
func HeaderViolationValidate[K, V any](tree BinaryTree[K, V]) error {
	minNode, hasMin := tree.Min()
	maxNode, hasMax := tree.Max()
	leftMost, _ := tree.LeftMost(nil, Iterative)
	rightMost, _ := tree.RightMost(nil, Iterative)
	if tree.Root() == nil {
		if hasMin || hasMax {
			return errors.New("header violation, empty tree with cached min or max")
		}
		return nil
	}
	if !hasMin || minNode != leftMost {
		return errors.New("header violation, cached min is not the leftmost node")
	}
	if !hasMax || maxNode != rightMost {
		return errors.New("header violation, cached max is not the rightmost node")
	}
	return nil
}

// Validate combines the validators that apply to the tree variant.
func Validate[K, V any](tree BinaryTree[K, V]) error {
	err := multierr.Combine(
		BSTViolationValidate(tree),
		SizeViolationValidate(tree),
		HeaderViolationValidate(tree),
	)
	switch tree.Variant() {
	case AVL:
		err = multierr.Append(err, AVLViolationValidate(tree))
	case RB:
		err = multierr.Append(err, RedViolationValidate(tree))
		err = multierr.Append(err, BlackViolationValidate(tree))
	default:
	}
	return err
}
