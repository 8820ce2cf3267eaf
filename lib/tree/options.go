package tree

import (
	"github.com/benz9527/xtree/lib/xlog"
)

type TreeOption[K, V any] func(*binaryTree[K, V])

func WithComparator[K, V any](cmp Comparator[K]) TreeOption[K, V] {
	return func(tree *binaryTree[K, V]) {
		tree.userCmp = cmp
	}
}

// WithMapMode keeps the values in a map owned by the tree instead of on
// the nodes.
func WithMapMode[K, V any]() TreeOption[K, V] {
	return func(tree *binaryTree[K, V]) {
		tree.isMapMode = true
	}
}

func WithIterationType[K, V any](typ IterationType) TreeOption[K, V] {
	return func(tree *binaryTree[K, V]) {
		tree.iterType = typ
	}
}

func WithDescOrder[K, V any]() TreeOption[K, V] {
	return func(tree *binaryTree[K, V]) {
		tree.isDesc = true
	}
}

// WithRemoveBorrowSucc swaps a node with two children with its in-order
// successor instead of its predecessor before unlinking it.
func WithRemoveBorrowSucc[K, V any]() TreeOption[K, V] {
	return func(tree *binaryTree[K, V]) {
		tree.isRmBorrowSucc = true
	}
}

func WithLogger[K, V any](logger xlog.XLogger) TreeOption[K, V] {
	return func(tree *binaryTree[K, V]) {
		tree.logger = logger
	}
}

// WithTreeStats records the mutations into the otel meter named by
// TreeStatsName and the given name.
func WithTreeStats[K, V any](name string) TreeOption[K, V] {
	return func(tree *binaryTree[K, V]) {
		tree.isStatsEnabled = true
		tree.name = name
	}
}
