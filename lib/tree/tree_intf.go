package tree

import (
	"iter"
	"strconv"
)

type Color uint8

const (
	Black Color = iota
	Red
)

func (c Color) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "Color(" + strconv.FormatInt(int64(c), 10) + ")"
}

type direction int8

const (
	dirLeft direction = -1 + iota
	dirRoot
	dirRight
)

// Variant is the rebalancing policy of a tree.
type Variant uint8

const (
	BST Variant = iota
	AVL
	RB
)

func (v Variant) String() string {
	switch v {
	case BST:
		return "BST"
	case AVL:
		return "AVL"
	case RB:
		return "RB"
	default:
	}
	return "Variant(" + strconv.FormatInt(int64(v), 10) + ")"
}

// IterationType selects between the recursive and the explicit-stack
// form of an algorithm. The recursive forms are bounded by the goroutine
// stack and intended for shallow trees only.
type IterationType uint8

const (
	Iterative IterationType = iota
	Recursive
)

func (typ IterationType) String() string {
	switch typ {
	case Iterative:
		return "ITERATIVE"
	case Recursive:
		return "RECURSIVE"
	default:
	}
	return "IterationType(" + strconv.FormatInt(int64(typ), 10) + ")"
}

type DFSOrder uint8

const (
	PreOrder DFSOrder = iota
	InOrder
	PostOrder
)

func (o DFSOrder) String() string {
	switch o {
	case PreOrder:
		return "PRE"
	case InOrder:
		return "IN"
	case PostOrder:
		return "POST"
	default:
	}
	return "DFSOrder(" + strconv.FormatInt(int64(o), 10) + ")"
}

// Comparator returns a negative number when a < b, zero when a == b
// and a positive number when a > b.
type Comparator[K any] func(a, b K) int

// Node is the read-only view of a tree vertex. Empty child slots and
// the sentinel leaf are reported as nil.
type Node[K, V any] interface {
	Key() K
	// Val returns the node value. In map mode the value is looked up from
	// the owner tree's store while the node is attached.
	Val() V
	HasVal() bool
	Color() Color
	Height() int
	Left() Node[K, V]
	Right() Node[K, V]
	Parent() Node[K, V]
}

type Entry[K, V any] struct {
	Key   K
	Value V
}

type DeleteResult[K, V any] struct {
	// Deleted is the detached node.
	Deleted Node[K, V]
	// NeedBalanced is the former parent of the unlinked position, where
	// the rebalancing walk started. Nil if the tree became empty or the
	// root was unlinked.
	NeedBalanced Node[K, V]
}

// Range is an inclusive key range unless the Exclude flags are set.
type Range[K any] struct {
	Low         K
	High        K
	ExcludeLow  bool
	ExcludeHigh bool
}

type BinaryTree[K, V any] interface {
	Variant() Variant
	Len() int64
	Root() Node[K, V]
	Min() (Node[K, V], bool)
	Max() (Node[K, V], bool)
	IsMapMode() bool

	// Add inserts the key with value. It returns true if a new node was
	// attached and false if the key was already present (the value is
	// replaced) or the key is nil.
	Add(key K, val V) bool
	AddKey(key K) bool
	AddWithHint(key K, val V, hint Node[K, V]) bool
	AddMany(entries []Entry[K, V], isBalanceAdd bool, iterType ...IterationType) []bool
	AddManyKeys(keys []K, isBalanceAdd bool, iterType ...IterationType) []bool
	Delete(target Target[K, V]) []DeleteResult[K, V]
	RemoveMin() (Node[K, V], bool)
	RemoveMax() (Node[K, V], bool)
	Get(target Target[K, V]) (V, bool)
	GetNode(target Target[K, V]) (Node[K, V], bool)
	Has(target Target[K, V]) bool
	Clear()
	Clone() BinaryTree[K, V]
	Merge(other BinaryTree[K, V])

	All() iter.Seq2[K, V]
	Keys() []K
	Values() []V
	Entries() []Entry[K, V]
	Foreach(action func(idx int64, n Node[K, V]) bool)

	BFS(iterType ...IterationType) iter.Seq[Node[K, V]]
	DFS(order DFSOrder, iterType ...IterationType) iter.Seq[Node[K, V]]
	Morris(order DFSOrder) iter.Seq[Node[K, V]]
	ListLevels(iterType ...IterationType) [][]Node[K, V]
	LesserOrGreaterTraverse(sign int, pivot Target[K, V], iterType ...IterationType) []Node[K, V]

	FloorEntry(target Target[K, V], iterType ...IterationType) (Node[K, V], bool)
	CeilingEntry(target Target[K, V], iterType ...IterationType) (Node[K, V], bool)
	LowerEntry(target Target[K, V], iterType ...IterationType) (Node[K, V], bool)
	HigherEntry(target Target[K, V], iterType ...IterationType) (Node[K, V], bool)
	LowerBound(target Target[K, V], iterType ...IterationType) (Node[K, V], bool)
	UpperBound(target Target[K, V], iterType ...IterationType) (Node[K, V], bool)
	RangeSearch(r Range[K], iterType ...IterationType) ([]Node[K, V], error)

	PerfectlyBalance(iterType ...IterationType) bool
	IsAVLBalanced(iterType ...IterationType) bool
	IsBST(iterType ...IterationType) bool
	IsPerfectlyBalanced() bool
	Height(from Node[K, V], iterType ...IterationType) int
	MinHeight(from Node[K, V], iterType ...IterationType) int
	Depth(n Node[K, V], from Node[K, V]) int
	LeftMost(from Node[K, V], iterType ...IterationType) (Node[K, V], bool)
	RightMost(from Node[K, V], iterType ...IterationType) (Node[K, V], bool)
	PathToRoot(n Node[K, V], reverse bool) []Node[K, V]
}
