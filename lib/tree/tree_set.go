package tree

import "iter"

// TreeSet is an ordered set of unique keys backed by a binary tree of the
// given variant.
type TreeSet[K any] struct {
	tree BinaryTree[K, struct{}]
}

func NewTreeSet[K any](variant Variant, opts ...TreeOption[K, struct{}]) *TreeSet[K] {
	return &TreeSet[K]{tree: New[K, struct{}](variant, opts...)}
}

// Add returns false if the key was already present or is nil.
func (s *TreeSet[K]) Add(key K) bool {
	return s.tree.AddKey(key)
}

func (s *TreeSet[K]) Has(key K) bool {
	return s.tree.Has(ByKey(key))
}

func (s *TreeSet[K]) Delete(key K) bool {
	return len(s.tree.Delete(ByKey(key))) > 0
}

func (s *TreeSet[K]) Len() int64 {
	return s.tree.Len()
}

func (s *TreeSet[K]) First() (key K, ok bool) {
	n, ok := s.tree.Min()
	if !ok {
		return key, false
	}
	return n.Key(), true
}

func (s *TreeSet[K]) Last() (key K, ok bool) {
	n, ok := s.tree.Max()
	if !ok {
		return key, false
	}
	return n.Key(), true
}

// LowerBound returns the smallest key not less than key.
func (s *TreeSet[K]) LowerBound(key K) (K, bool) {
	n, ok := s.tree.LowerBound(ByKey(key))
	return keyOf(n, ok)
}

// UpperBound returns the smallest key greater than key.
func (s *TreeSet[K]) UpperBound(key K) (K, bool) {
	n, ok := s.tree.UpperBound(ByKey(key))
	return keyOf(n, ok)
}

func (s *TreeSet[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range s.tree.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Range yields the keys inside r in ascending order.
func (s *TreeSet[K]) Range(r Range[K]) (iter.Seq[K], error) {
	nodes, err := s.tree.RangeSearch(r)
	if err != nil {
		return nil, err
	}
	return func(yield func(K) bool) {
		for _, n := range nodes {
			if !yield(n.Key()) {
				return
			}
		}
	}, nil
}

func (s *TreeSet[K]) Keys() []K {
	return s.tree.Keys()
}

func (s *TreeSet[K]) Clear() {
	s.tree.Clear()
}

func keyOf[K, V any](n Node[K, V], ok bool) (key K, found bool) {
	if !ok {
		return key, false
	}
	return n.Key(), true
}
