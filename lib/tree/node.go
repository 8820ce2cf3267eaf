package tree

type node[K, V any] struct {
	parent   *node[K, V]
	left     *node[K, V]
	right    *node[K, V]
	owner    *binaryTree[K, V]
	key      K
	val      V
	height   int
	color    Color
	hasVal   bool
	sentinel bool
}

// toNode converts the concrete node into the read-only view. A nil
// pointer or the sentinel must not leak as a non-nil interface.
func toNode[K, V any](n *node[K, V]) Node[K, V] {
	if n.isNil() {
		return nil
	}
	return n
}

func (n *node[K, V]) Key() K {
	return n.key
}

func (n *node[K, V]) Val() V {
	if n.owner != nil {
		val, _ := n.owner.store.load(n)
		return val
	}
	return n.val
}

func (n *node[K, V]) HasVal() bool {
	if n.isNil() {
		return false
	}
	if n.owner != nil {
		_, ok := n.owner.store.load(n)
		return ok
	}
	return n.hasVal
}

func (n *node[K, V]) Color() Color {
	return n.color
}

// Height is maintained by the AVL balancer only.
func (n *node[K, V]) Height() int {
	return n.height
}

func (n *node[K, V]) Left() Node[K, V] {
	if n.isNil() {
		return nil
	}
	return toNode(n.left)
}

func (n *node[K, V]) Right() Node[K, V] {
	if n.isNil() {
		return nil
	}
	return toNode(n.right)
}

func (n *node[K, V]) Parent() Node[K, V] {
	if n.isNil() {
		return nil
	}
	return toNode(n.parent)
}

func (n *node[K, V]) isNil() bool {
	return n == nil || n.sentinel
}

func (n *node[K, V]) isRed() bool {
	return !n.isNil() && n.color == Red
}

func (n *node[K, V]) isBlack() bool {
	return n.isNil() || n.color == Black
}

func (n *node[K, V]) isRoot() bool {
	return !n.isNil() && n.parent == nil
}

func (n *node[K, V]) isLeaf() bool {
	return !n.isNil() && n.left.isNil() && n.right.isNil()
}

func (n *node[K, V]) direction() direction {
	if n.isNil() {
		// impossible run to here
		panic( /* debug assertion */ "[tree] nil leaf node without direction")
	}

	if n.isRoot() {
		return dirRoot
	}
	if n == n.parent.left {
		return dirLeft
	}
	return dirRight
}

func (n *node[K, V]) sibling() *node[K, V] {
	switch n.direction() {
	case dirLeft:
		return n.parent.right
	case dirRight:
		return n.parent.left
	default:
	}
	return nil
}

// fixLink points the real children back to n. The sentinel is never
// written.
func (n *node[K, V]) fixLink() {
	if !n.left.isNil() {
		n.left.parent = n
	}
	if !n.right.isNil() {
		n.right.parent = n
	}
}

func (n *node[K, V]) minimum() *node[K, V] {
	aux := n
	for ; !aux.isNil() && !aux.left.isNil(); aux = aux.left {
	}
	return aux
}

func (n *node[K, V]) maximum() *node[K, V] {
	aux := n
	for ; !aux.isNil() && !aux.right.isNil(); aux = aux.right {
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order.
func (n *node[K, V]) pred() *node[K, V] {
	x := n
	if x.isNil() {
		return nil
	}
	if !x.left.isNil() {
		return x.left.maximum()
	}

	aux := x.parent
	// Backtrack to father node that is the x's pred.
	for aux != nil && x == aux.left {
		x = aux
		aux = aux.parent
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
func (n *node[K, V]) succ() *node[K, V] {
	x := n
	if x.isNil() {
		return nil
	}
	if !x.right.isNil() {
		return x.right.minimum()
	}

	aux := x.parent
	// Backtrack to father node that is the x's succ.
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

func (n *node[K, V]) updateHeight() {
	n.height = 1 + max(n.left.height, n.right.height)
}

func (n *node[K, V]) balanceFactor() int {
	if n.isNil() {
		return 0
	}
	return n.left.height - n.right.height
}
