package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

// Target is a lookup input. It is resolved by the tree into a key
// comparison, an attached node or an in-order predicate scan.
// A target built for another key type matches nothing.
type Target[K, V any] interface {
	target()
}

// KeyTarget does not depend on the value type, so ByKey(k) is accepted
// by any tree keyed by K.
type KeyTarget[K any] struct {
	key K
}

func (KeyTarget[K]) target() {}

type nodeTarget[K, V any] struct {
	node Node[K, V]
}

func (nodeTarget[K, V]) target() {}

type entryTarget[K, V any] struct {
	entry Entry[K, V]
}

func (entryTarget[K, V]) target() {}

type predicateTarget[K, V any] struct {
	fn func(Node[K, V]) bool
}

func (predicateTarget[K, V]) target() {}

func ByKey[K any](key K) KeyTarget[K] {
	return KeyTarget[K]{key: key}
}

func ByNode[K, V any](n Node[K, V]) Target[K, V] {
	return nodeTarget[K, V]{node: n}
}

// ByEntry matches by the entry key only. A nil entry key matches nothing.
func ByEntry[K, V any](e Entry[K, V]) Target[K, V] {
	return entryTarget[K, V]{entry: e}
}

// ByPredicate matches the first node in order that satisfies fn.
func ByPredicate[K, V any](fn func(Node[K, V]) bool) Target[K, V] {
	return predicateTarget[K, V]{fn: fn}
}

type lookupKind uint8

const (
	lookupNone lookupKind = iota
	lookupKey
	lookupNode
	lookupPredicate
)

type lookup[K, V any] struct {
	kind lookupKind
	key  K
	node *node[K, V]
	pred func(Node[K, V]) bool
}

func (tree *binaryTree[K, V]) resolve(t Target[K, V]) lookup[K, V] {
	switch tg := t.(type) {
	case KeyTarget[K]:
		if infra.IsNilKey(tg.key) {
			return lookup[K, V]{}
		}
		return lookup[K, V]{kind: lookupKey, key: tg.key}
	case nodeTarget[K, V]:
		if n := tree.attached(tg.node); n != nil {
			return lookup[K, V]{kind: lookupNode, key: n.key, node: n}
		}
		if infra.IsNilKey(tg.node) || infra.IsNilKey(tg.node.Key()) {
			return lookup[K, V]{}
		}
		return lookup[K, V]{kind: lookupKey, key: tg.node.Key()}
	case entryTarget[K, V]:
		if infra.IsNilKey(tg.entry.Key) {
			return lookup[K, V]{}
		}
		return lookup[K, V]{kind: lookupKey, key: tg.entry.Key}
	case predicateTarget[K, V]:
		if tg.fn == nil {
			return lookup[K, V]{}
		}
		return lookup[K, V]{kind: lookupPredicate, pred: tg.fn}
	default:
	}
	return lookup[K, V]{}
}

// attached returns the concrete node if n belongs to this tree.
func (tree *binaryTree[K, V]) attached(n Node[K, V]) *node[K, V] {
	x, ok := n.(*node[K, V])
	if !ok || x == nil || x.sentinel || x.owner != tree {
		return nil
	}
	return x
}

// find returns the node matched by the lookup, or nil.
func (tree *binaryTree[K, V]) find(l lookup[K, V]) *node[K, V] {
	switch l.kind {
	case lookupNode:
		return l.node
	case lookupKey:
		return tree.search(l.key)
	case lookupPredicate:
		return tree.firstMatch(l.pred)
	default:
	}
	return nil
}

func (tree *binaryTree[K, V]) search(key K) *node[K, V] {
	for x := tree.root; !x.isNil(); {
		res := tree.compare(key, x.key)
		if /* equal */ res == 0 {
			return x
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}
	return nil
}

func (tree *binaryTree[K, V]) firstMatch(pred func(Node[K, V]) bool) *node[K, V] {
	var found *node[K, V]
	tree.inorder(func(x *node[K, V]) bool {
		if pred(x) {
			found = x
			return false
		}
		return true
	})
	return found
}
