package tree

// valueStore decides where the values live. It is chosen once at
// construction.
type valueStore[K, V any] interface {
	load(n *node[K, V]) (V, bool)
	store(n *node[K, V], val V)
	// release moves the value onto the node before it is detached.
	release(n *node[K, V])
	reset()
}

type inlineStore[K, V any] struct{}

func (inlineStore[K, V]) load(n *node[K, V]) (V, bool) {
	return n.val, n.hasVal
}

func (inlineStore[K, V]) store(n *node[K, V], val V) {
	n.val, n.hasVal = val, true
}

func (inlineStore[K, V]) release(*node[K, V]) {}

func (inlineStore[K, V]) reset() {}

// mapStore keeps the nodes small. The values are keyed by node identity,
// so keys need no equality of their own. Rotations and location swaps
// never copy payloads.
type mapStore[K, V any] struct {
	values map[*node[K, V]]V
}

func (s *mapStore[K, V]) load(n *node[K, V]) (V, bool) {
	val, ok := s.values[n]
	return val, ok
}

func (s *mapStore[K, V]) store(n *node[K, V], val V) {
	s.values[n] = val
}

func (s *mapStore[K, V]) release(n *node[K, V]) {
	if val, ok := s.values[n]; ok {
		n.val, n.hasVal = val, true
		delete(s.values, n)
	}
}

func (s *mapStore[K, V]) reset() {
	clear(s.values)
}
