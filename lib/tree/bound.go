package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

type boundKind uint8

const (
	floorBound   boundKind = iota // greatest key <= x
	ceilingBound                  // smallest key >= x
	lowerBound                    // greatest key < x
	higherBound                   // smallest key > x
)

// candidate reports whether the node n with res = compare(n.key, x) is a
// candidate and which side to continue with.
//
//	floor:   res == 0 hit; res < 0 record and go right; res > 0 go left.
//	ceiling: res == 0 hit; res > 0 record and go left; res < 0 go right.
//	lower:   res < 0 record and go right; otherwise go left.
//	higher:  res > 0 record and go left; otherwise go right.
func (kind boundKind) candidate(res int) (hit, record bool, dir direction) {
	switch kind {
	case floorBound:
		if res == 0 {
			return true, true, dirRoot
		} else if res < 0 {
			return false, true, dirRight
		}
		return false, false, dirLeft
	case ceilingBound:
		if res == 0 {
			return true, true, dirRoot
		} else if res > 0 {
			return false, true, dirLeft
		}
		return false, false, dirRight
	case lowerBound:
		if res < 0 {
			return false, true, dirRight
		}
		return false, false, dirLeft
	case higherBound:
		if res > 0 {
			return false, true, dirLeft
		}
		return false, false, dirRight
	default:
	}
	// impossible run to here
	panic( /* debug assertion */ "[tree] unknown bound kind")
}

func (tree *binaryTree[K, V]) bound(kind boundKind, target Target[K, V], iterType []IterationType) (Node[K, V], bool) {
	l := tree.resolve(target)
	switch l.kind {
	case lookupKey, lookupNode:
	case lookupPredicate:
		// A predicate carries no magnitude, all the bounds degenerate to
		// the first in-order match.
		if x := tree.firstMatch(l.pred); x != nil {
			return x, true
		}
		return nil, false
	default:
		return nil, false
	}

	var x *node[K, V]
	if tree.iterationType(iterType) == Recursive {
		x = tree.boundRecursive(kind, tree.root, l.key)
	} else {
		x = tree.boundIterative(kind, l.key)
	}
	if x == nil {
		return nil, false
	}
	return x, true
}

func (tree *binaryTree[K, V]) boundIterative(kind boundKind, key K) *node[K, V] {
	var found *node[K, V]
	for aux := tree.root; !aux.isNil(); {
		hit, record, dir := kind.candidate(tree.compare(aux.key, key))
		if hit {
			return aux
		}
		if record {
			found = aux
		}
		if dir == dirLeft {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return found
}

func (tree *binaryTree[K, V]) boundRecursive(kind boundKind, aux *node[K, V], key K) *node[K, V] {
	if aux.isNil() {
		return nil
	}
	hit, record, dir := kind.candidate(tree.compare(aux.key, key))
	if hit {
		return aux
	}
	next := aux.right
	if dir == dirLeft {
		next = aux.left
	}
	if found := tree.boundRecursive(kind, next, key); found != nil {
		return found
	}
	if record {
		return aux
	}
	return nil
}

func (tree *binaryTree[K, V]) FloorEntry(target Target[K, V], iterType ...IterationType) (Node[K, V], bool) {
	return tree.bound(floorBound, target, iterType)
}

func (tree *binaryTree[K, V]) CeilingEntry(target Target[K, V], iterType ...IterationType) (Node[K, V], bool) {
	return tree.bound(ceilingBound, target, iterType)
}

func (tree *binaryTree[K, V]) LowerEntry(target Target[K, V], iterType ...IterationType) (Node[K, V], bool) {
	return tree.bound(lowerBound, target, iterType)
}

func (tree *binaryTree[K, V]) HigherEntry(target Target[K, V], iterType ...IterationType) (Node[K, V], bool) {
	return tree.bound(higherBound, target, iterType)
}

// LowerBound is the smallest key >= x.
func (tree *binaryTree[K, V]) LowerBound(target Target[K, V], iterType ...IterationType) (Node[K, V], bool) {
	return tree.bound(ceilingBound, target, iterType)
}

// UpperBound is the smallest key > x.
func (tree *binaryTree[K, V]) UpperBound(target Target[K, V], iterType ...IterationType) (Node[K, V], bool) {
	return tree.bound(higherBound, target, iterType)
}

func (tree *binaryTree[K, V]) inRange(r Range[K], key K) (aboveLow, belowHigh bool) {
	lo, hi := tree.compare(key, r.Low), tree.compare(key, r.High)
	aboveLow = lo > 0 || (lo == 0 && !r.ExcludeLow)
	belowHigh = hi < 0 || (hi == 0 && !r.ExcludeHigh)
	return
}

// RangeSearch returns the nodes within the range in order. The subtrees
// provably outside of the range are pruned.
func (tree *binaryTree[K, V]) RangeSearch(r Range[K], iterType ...IterationType) ([]Node[K, V], error) {
	if infra.IsNilKey(r.Low) || infra.IsNilKey(r.High) {
		return []Node[K, V]{}, nil
	}
	if tree.compare(r.Low, r.High) > 0 {
		return nil, infra.WrapErrorStackWithMessage(ErrInvalidRange, "[tree] range search")
	}

	res := make([]Node[K, V], 0, 16)
	if tree.iterationType(iterType) == Recursive {
		tree.rangeRecursive(tree.root, r, &res)
		return res, nil
	}

	stack := make([]*node[K, V], 0, 16)
	defer func() {
		clear(stack)
	}()
	for aux := tree.root; !aux.isNil() || len(stack) > 0; {
		for ; !aux.isNil(); aux = aux.left {
			stack = append(stack, aux)
			if tree.compare(aux.key, r.Low) <= 0 {
				// The left subtree is below the low.
				aux = tree.sentinel
				break
			}
		}
		aux = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if aboveLow, belowHigh := tree.inRange(r, aux.key); aboveLow && belowHigh {
			res = append(res, aux)
		}
		if tree.compare(aux.key, r.High) < 0 {
			aux = aux.right
		} else {
			aux = tree.sentinel
		}
	}
	return res, nil
}

func (tree *binaryTree[K, V]) rangeRecursive(aux *node[K, V], r Range[K], res *[]Node[K, V]) {
	if aux.isNil() {
		return
	}
	if tree.compare(aux.key, r.Low) > 0 {
		tree.rangeRecursive(aux.left, r, res)
	}
	if aboveLow, belowHigh := tree.inRange(r, aux.key); aboveLow && belowHigh {
		*res = append(*res, aux)
	}
	if tree.compare(aux.key, r.High) < 0 {
		tree.rangeRecursive(aux.right, r, res)
	}
}
