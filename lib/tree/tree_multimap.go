package tree

import (
	"iter"
	"slices"
)

// TreeMultiMap is an ordered map that keeps every value added under a key,
// in insertion order. A multiset is a TreeMultiMap whose values are
// ignored, see Count.
type TreeMultiMap[K, V any] struct {
	tree BinaryTree[K, []V]
	size int64
}

func NewTreeMultiMap[K, V any](variant Variant, opts ...TreeOption[K, []V]) *TreeMultiMap[K, V] {
	return &TreeMultiMap[K, V]{tree: New[K, []V](variant, opts...)}
}

// Add appends val under key. It returns false only for a nil key.
func (m *TreeMultiMap[K, V]) Add(key K, val V) bool {
	if n, ok := m.tree.GetNode(ByKey(key)); ok {
		m.tree.Add(key, append(n.Val(), val))
		m.size++
		return true
	}
	if !m.tree.Add(key, []V{val}) {
		return false
	}
	m.size++
	return true
}

// Len is the number of values under all the keys.
func (m *TreeMultiMap[K, V]) Len() int64 {
	return m.size
}

// KeyLen is the number of distinct keys.
func (m *TreeMultiMap[K, V]) KeyLen() int64 {
	return m.tree.Len()
}

func (m *TreeMultiMap[K, V]) Has(key K) bool {
	return m.tree.Has(ByKey(key))
}

func (m *TreeMultiMap[K, V]) Count(key K) int {
	vals, _ := m.tree.Get(ByKey(key))
	return len(vals)
}

// EqualRange yields the values added under key, oldest first.
func (m *TreeMultiMap[K, V]) EqualRange(key K) iter.Seq[V] {
	vals, _ := m.tree.Get(ByKey(key))
	return slices.Values(vals)
}

// Get returns a copy of the values under key.
func (m *TreeMultiMap[K, V]) Get(key K) ([]V, bool) {
	vals, ok := m.tree.Get(ByKey(key))
	if !ok {
		return nil, false
	}
	return slices.Clone(vals), true
}

// Delete removes the key with all of its values and returns how many
// values were removed.
func (m *TreeMultiMap[K, V]) Delete(key K) int {
	res := m.tree.Delete(ByKey(key))
	if len(res) == 0 {
		return 0
	}
	removed := len(res[0].Deleted.Val())
	m.size -= int64(removed)
	return removed
}

// First returns the oldest value under the smallest key.
func (m *TreeMultiMap[K, V]) First() (key K, val V, ok bool) {
	n, ok := m.tree.Min()
	if !ok {
		return key, val, false
	}
	return n.Key(), n.Val()[0], true
}

// Last returns the newest value under the greatest key.
func (m *TreeMultiMap[K, V]) Last() (key K, val V, ok bool) {
	n, ok := m.tree.Max()
	if !ok {
		return key, val, false
	}
	vals := n.Val()
	return n.Key(), vals[len(vals)-1], true
}

// All yields every value in key order, duplicates included.
func (m *TreeMultiMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, vals := range m.tree.All() {
			for _, v := range vals {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

// Range yields every value whose key is inside r, from the lower bound
// of r.Low up to the upper bound of r.High.
func (m *TreeMultiMap[K, V]) Range(r Range[K]) (iter.Seq2[K, V], error) {
	nodes, err := m.tree.RangeSearch(r)
	if err != nil {
		return nil, err
	}
	return func(yield func(K, V) bool) {
		for _, n := range nodes {
			for _, v := range n.Val() {
				if !yield(n.Key(), v) {
					return
				}
			}
		}
	}, nil
}

func (m *TreeMultiMap[K, V]) Clear() {
	m.tree.Clear()
	m.size = 0
}
