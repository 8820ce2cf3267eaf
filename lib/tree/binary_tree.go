package tree

import (
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/xlog"
)

// balancer is the rebalancing strategy plugged into the tree core.
type balancer[K, V any] interface {
	variant() Variant
	// afterInsert runs once z has been attached and counted.
	afterInsert(tree *binaryTree[K, V], z *node[K, V])
	// beforeUnlink runs while z, which has at most one real child,
	// is still linked.
	beforeUnlink(tree *binaryTree[K, V], z, child *node[K, V])
	// afterUnlink runs once child has taken the place of z under parent.
	afterUnlink(tree *binaryTree[K, V], parent, child, z *node[K, V])
	// linked settles x, linked at depth with a subtree of the given height
	// into a complete tree of treeHeight.
	linked(x *node[K, V], depth, height, treeHeight int)
}

var _ BinaryTree[int, int] = (*binaryTree[int, int])(nil)

// header caches the minimum (left) and maximum (right) nodes.
type header[K, V any] struct {
	left  *node[K, V]
	right *node[K, V]
}

type binaryTree[K, V any] struct {
	root           *node[K, V]
	sentinel       *node[K, V]
	header         header[K, V]
	count          int64
	cmp            Comparator[K]
	userCmp        Comparator[K]
	store          valueStore[K, V]
	balancer       balancer[K, V]
	logger         xlog.XLogger
	stats          *treeStats
	name           string
	opts           []TreeOption[K, V]
	iterType       IterationType
	isMapMode      bool
	isDesc         bool
	isRmBorrowSucc bool
	isStatsEnabled bool
}

func newBinaryTree[K, V any](b balancer[K, V], opts ...TreeOption[K, V]) *binaryTree[K, V] {
	tree := &binaryTree[K, V]{
		balancer: b,
		opts:     opts,
	}
	for _, o := range opts {
		if o != nil {
			o(tree)
		}
	}

	tree.sentinel = &node[K, V]{
		color:    Black,
		height:   -1,
		sentinel: true,
	}
	tree.root = tree.sentinel
	tree.cmp = tree.comparator()
	if tree.isMapMode {
		tree.store = &mapStore[K, V]{values: make(map[*node[K, V]]V)}
	} else {
		tree.store = inlineStore[K, V]{}
	}
	if tree.isStatsEnabled {
		tree.stats = newTreeStats(tree.name, b.variant())
	}
	return tree
}

func NewBST[K, V any](opts ...TreeOption[K, V]) BinaryTree[K, V] {
	return newBinaryTree[K, V](bstBalancer[K, V]{}, opts...)
}

func NewAVLTree[K, V any](opts ...TreeOption[K, V]) BinaryTree[K, V] {
	return newBinaryTree[K, V](avlBalancer[K, V]{}, opts...)
}

func NewRBTree[K, V any](opts ...TreeOption[K, V]) BinaryTree[K, V] {
	return newBinaryTree[K, V](rbBalancer[K, V]{}, opts...)
}

func New[K, V any](variant Variant, opts ...TreeOption[K, V]) BinaryTree[K, V] {
	switch variant {
	case BST:
		return NewBST[K, V](opts...)
	case AVL:
		return NewAVLTree[K, V](opts...)
	case RB:
		return NewRBTree[K, V](opts...)
	default:
	}
	panic(infra.NewErrorStack("[tree] unknown variant " + variant.String()))
}

func naturalCompare[K any](a, b K) int {
	res, ok := infra.CompareNatural(a, b)
	if !ok {
		panic(infra.WrapErrorStack(ErrComparatorRequired))
	}
	return res
}

func (tree *binaryTree[K, V]) comparator() Comparator[K] {
	cmp := tree.userCmp
	if cmp == nil {
		cmp = naturalCompare[K]
	}
	if tree.isDesc {
		asc := cmp
		cmp = func(a, b K) int {
			return asc(b, a)
		}
	}
	return cmp
}

func (tree *binaryTree[K, V]) compare(a, b K) int {
	return tree.cmp(a, b)
}

func (tree *binaryTree[K, V]) iterationType(iterType []IterationType) IterationType {
	if len(iterType) > 0 {
		return iterType[0]
	}
	return tree.iterType
}

func (tree *binaryTree[K, V]) warn(msg string, fields ...zap.Field) {
	if tree.logger == nil {
		return
	}
	tree.logger.Warn(msg, fields...)
}

func (tree *binaryTree[K, V]) Variant() Variant {
	return tree.balancer.variant()
}

func (tree *binaryTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *binaryTree[K, V]) Root() Node[K, V] {
	return toNode(tree.root)
}

func (tree *binaryTree[K, V]) Min() (Node[K, V], bool) {
	if tree.header.left == nil {
		return nil, false
	}
	return tree.header.left, true
}

func (tree *binaryTree[K, V]) Max() (Node[K, V], bool) {
	if tree.header.right == nil {
		return nil, false
	}
	return tree.header.right, true
}

func (tree *binaryTree[K, V]) IsMapMode() bool {
	return tree.isMapMode
}

/*
		 |                         |
		 X                         Y
		/ \     leftRotate(X)     / \
	   L   Y    ============>    X   Yd
		  / \                   / \
		Yc   Yd                L   Yc
*/
func (tree *binaryTree[K, V]) leftRotate(x *node[K, V]) {
	if x.isNil() || x.right.isNil() {
		// impossible run to here
		panic( /* debug assertion */ "[tree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case dirRoot:
		tree.root = y
	case dirLeft:
		p.left = y
	case dirRight:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[tree] unknown node direction to left-rotate")
	}
	y.parent = p
	tree.stats.IncreaseRotationCount()
}

/*
		 |                         |
		 X                         Y
		/ \     rightRotate(X)    / \
	   Y   R    ============>   Yd   X
	  / \                           / \
	Yd   Yc                       Yc   R
*/
func (tree *binaryTree[K, V]) rightRotate(x *node[K, V]) {
	if x.isNil() || x.left.isNil() {
		// impossible run to here
		panic( /* debug assertion */ "[tree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case dirRoot:
		tree.root = y
	case dirLeft:
		p.left = y
	case dirRight:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[tree] unknown node direction to right-rotate")
	}
	y.parent = p
	tree.stats.IncreaseRotationCount()
}

func (tree *binaryTree[K, V]) newNode(key K, val V, hasVal bool, parent *node[K, V]) *node[K, V] {
	z := &node[K, V]{
		key:    key,
		parent: parent,
		left:   tree.sentinel,
		right:  tree.sentinel,
		owner:  tree,
		color:  Black,
	}
	if hasVal {
		tree.store.store(z, val)
	}
	return z
}

func (tree *binaryTree[K, V]) upsert(x *node[K, V], val V, hasVal bool) {
	if hasVal {
		tree.store.store(x, val)
	}
	tree.stats.IncreaseUpsertCount()
}

func (tree *binaryTree[K, V]) updateHeader(z *node[K, V]) {
	if tree.header.left == nil || tree.header.right == nil {
		tree.header.left, tree.header.right = z, z
		return
	}
	if tree.compare(z.key, tree.header.left.key) < 0 {
		tree.header.left = z
	}
	if tree.compare(z.key, tree.header.right.key) > 0 {
		tree.header.right = z
	}
}

func (tree *binaryTree[K, V]) afterAttach(z *node[K, V]) {
	tree.count++
	tree.updateHeader(z)
	tree.balancer.afterInsert(tree, z)
	tree.stats.IncreaseInsertCount()
	tree.stats.RecordSize(1)
}

func (tree *binaryTree[K, V]) Add(key K, val V) bool {
	return tree.add(key, val, true)
}

func (tree *binaryTree[K, V]) AddKey(key K) bool {
	var zero V
	return tree.add(key, zero, false)
}

func (tree *binaryTree[K, V]) add(key K, val V, hasVal bool) bool {
	if infra.IsNilKey(key) {
		return false
	}

	if tree.root.isNil() {
		z := tree.newNode(key, val, hasVal, nil)
		tree.root = z
		tree.afterAttach(z)
		return true
	}

	var (
		x, y *node[K, V] = tree.root, nil
		res  int
	)
	for !x.isNil() {
		y = x
		res = tree.compare(key, x.key)
		if /* equal */ res == 0 {
			tree.upsert(x, val, hasVal)
			return false
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	z := tree.newNode(key, val, hasVal, y)
	if res < 0 {
		y.left = z
	} else {
		y.right = z
	}
	tree.afterAttach(z)
	return true
}

/*
h1: The key lies between the hint H and its pred P (or succ S) and the
slot on H's side is free. Attach to H directly.

	  P            P
	   \            \
	    H   ===>     H
	               /
	              X

h2: H already has a child on the key side. The pred P (rightmost of the
left subtree) always has a free right slot. Attach to P when the key
lies between P and H.

	    H            H
	   /            /
	  L    ===>    L
	   \            \
	    P            P
	                  \
	                   X

h3: Otherwise the hint is useless, fall back to the full descent.
*/
func (tree *binaryTree[K, V]) AddWithHint(key K, val V, hint Node[K, V]) bool {
	if infra.IsNilKey(key) {
		return false
	}

	h := tree.attached(hint)
	if h == nil {
		tree.stats.IncreaseHintMissCount()
		return tree.add(key, val, true)
	}

	res := tree.compare(key, h.key)
	if res == 0 {
		tree.stats.IncreaseHintHitCount()
		tree.upsert(h, val, true)
		return false
	}

	var (
		parent *node[K, V]
		dir    direction
	)
	if res < 0 {
		if /* h1 */ h.left.isNil() {
			if p := h.pred(); p == nil || tree.compare(key, p.key) > 0 {
				parent, dir = h, dirLeft
			}
		} else /* h2 */ {
			p := h.left.maximum()
			if c := tree.compare(key, p.key); c == 0 {
				tree.stats.IncreaseHintHitCount()
				tree.upsert(p, val, true)
				return false
			} else if c > 0 {
				parent, dir = p, dirRight
			}
		}
	} else {
		if /* h1 */ h.right.isNil() {
			if s := h.succ(); s == nil || tree.compare(key, s.key) < 0 {
				parent, dir = h, dirRight
			}
		} else /* h2 */ {
			s := h.right.minimum()
			if c := tree.compare(key, s.key); c == 0 {
				tree.stats.IncreaseHintHitCount()
				tree.upsert(s, val, true)
				return false
			} else if c < 0 {
				parent, dir = s, dirLeft
			}
		}
	}

	if /* h3 */ parent == nil {
		tree.stats.IncreaseHintMissCount()
		return tree.add(key, val, true)
	}

	tree.stats.IncreaseHintHitCount()
	z := tree.newNode(key, val, true, parent)
	if dir == dirLeft {
		parent.left = z
	} else {
		parent.right = z
	}
	tree.afterAttach(z)
	return true
}

func (tree *binaryTree[K, V]) replaceChild(parent, old, replacement *node[K, V]) {
	if parent == nil {
		tree.root = replacement
	} else if parent.left == old {
		parent.left = replacement
	} else {
		parent.right = replacement
	}
}

/*
swapLocation exchanges the positions of x and y in the tree, y being the
pred or succ of x and so a descendant of x. The keys stay on their nodes,
the colors and heights stay on their positions.

Find pred:

	  |                    |
	  X                    L
	 / \                  / \
	L  ..   swap(X, L)   X  ..
	    |   =========>       |
	    P                    P
	   / \                  / \
	  S  ..                S  ..
*/
func (tree *binaryTree[K, V]) swapLocation(x, y *node[K, V]) {
	xp, xl, xr := x.parent, x.left, x.right
	yp, yl, yr := y.parent, y.left, y.right

	tree.replaceChild(xp, x, y)
	if yp == x {
		if xl == y {
			y.left, y.right = x, xr
		} else {
			y.left, y.right = xl, x
		}
	} else {
		tree.replaceChild(yp, y, x)
		y.left, y.right = xl, xr
		x.parent = yp
	}
	y.parent = xp
	x.left, x.right = yl, yr

	y.fixLink()
	x.fixLink()

	x.color, y.color = y.color, x.color
	x.height, y.height = y.height, x.height
}

func (tree *binaryTree[K, V]) deleteNode(z *node[K, V]) DeleteResult[K, V] {
	if !z.left.isNil() && !z.right.isNil() {
		var y *node[K, V]
		if tree.isRmBorrowSucc {
			y = z.right.minimum()
		} else {
			y = z.left.maximum()
		}
		tree.swapLocation(z, y)
	}

	child := z.left
	if child.isNil() {
		child = z.right
	}
	tree.balancer.beforeUnlink(tree, z, child)

	parent := z.parent
	tree.replaceChild(parent, z, child)
	if !child.isNil() {
		child.parent = parent
	}
	tree.count--
	tree.balancer.afterUnlink(tree, parent, child, z)

	if tree.root.isNil() {
		tree.header = header[K, V]{}
	} else {
		if tree.header.left == z {
			tree.header.left = tree.root.minimum()
		}
		if tree.header.right == z {
			tree.header.right = tree.root.maximum()
		}
	}

	tree.detach(z)
	tree.stats.IncreaseDeleteCount()
	tree.stats.RecordSize(-1)
	return DeleteResult[K, V]{
		Deleted:      z,
		NeedBalanced: toNode(parent),
	}
}

func (tree *binaryTree[K, V]) detach(z *node[K, V]) {
	tree.store.release(z)
	z.parent, z.left, z.right = nil, nil, nil
	z.owner = nil
}

func (tree *binaryTree[K, V]) Delete(target Target[K, V]) []DeleteResult[K, V] {
	z := tree.find(tree.resolve(target))
	if z == nil {
		return []DeleteResult[K, V]{}
	}
	return []DeleteResult[K, V]{tree.deleteNode(z)}
}

func (tree *binaryTree[K, V]) RemoveMin() (Node[K, V], bool) {
	if tree.header.left == nil {
		return nil, false
	}
	return tree.deleteNode(tree.header.left).Deleted, true
}

func (tree *binaryTree[K, V]) RemoveMax() (Node[K, V], bool) {
	if tree.header.right == nil {
		return nil, false
	}
	return tree.deleteNode(tree.header.right).Deleted, true
}

func (tree *binaryTree[K, V]) GetNode(target Target[K, V]) (Node[K, V], bool) {
	x := tree.find(tree.resolve(target))
	if x == nil {
		return nil, false
	}
	return x, true
}

func (tree *binaryTree[K, V]) Get(target Target[K, V]) (V, bool) {
	x := tree.find(tree.resolve(target))
	if x == nil {
		var zero V
		return zero, false
	}
	return tree.store.load(x)
}

func (tree *binaryTree[K, V]) Has(target Target[K, V]) bool {
	return tree.find(tree.resolve(target)) != nil
}

// Clear detaches every node so that stale references are no longer
// accepted as hints or node targets.
func (tree *binaryTree[K, V]) Clear() {
	aux, size := tree.root, tree.count
	tree.root = tree.sentinel
	tree.header = header[K, V]{}
	tree.count = 0
	tree.store.reset()
	tree.stats.RecordSize(-size)
	if aux.isNil() {
		return
	}

	stack := make([]*node[K, V], 0, 64)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, aux)
	for len(stack) > 0 {
		aux = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !aux.left.isNil() {
			stack = append(stack, aux.left)
		}
		if !aux.right.isNil() {
			stack = append(stack, aux.right)
		}
		aux.parent, aux.left, aux.right = nil, nil, nil
		aux.owner = nil
	}
}

// Clone deep copies the structure with the same options. The values are
// copied by assignment.
func (tree *binaryTree[K, V]) Clone() BinaryTree[K, V] {
	c := newBinaryTree[K, V](tree.balancer, tree.opts...)
	if tree.root.isNil() {
		return c
	}

	copyNode := func(src, parent *node[K, V]) *node[K, V] {
		val, hasVal := tree.store.load(src)
		dst := c.newNode(src.key, val, hasVal, parent)
		dst.color, dst.height = src.color, src.height
		if src == tree.header.left {
			c.header.left = dst
		}
		if src == tree.header.right {
			c.header.right = dst
		}
		return dst
	}

	type pair struct {
		src, dst *node[K, V]
	}
	c.root = copyNode(tree.root, nil)
	stack := []pair{{src: tree.root, dst: c.root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !p.src.left.isNil() {
			p.dst.left = copyNode(p.src.left, p.dst)
			stack = append(stack, pair{src: p.src.left, dst: p.dst.left})
		}
		if !p.src.right.isNil() {
			p.dst.right = copyNode(p.src.right, p.dst)
			stack = append(stack, pair{src: p.src.right, dst: p.dst.right})
		}
	}
	c.count = tree.count
	c.stats.RecordSize(c.count)
	return c
}

// Merge absorbs all entries of other. Existing keys take the value from
// other.
func (tree *binaryTree[K, V]) Merge(other BinaryTree[K, V]) {
	if other == nil || other.Len() <= 0 {
		return
	}
	entries := make([]*node[K, V], 0, other.Len())
	other.Foreach(func(_ int64, n Node[K, V]) bool {
		entries = append(entries, &node[K, V]{key: n.Key(), val: n.Val(), hasVal: n.HasVal()})
		return true
	})
	for _, e := range entries {
		tree.add(e.key, e.val, e.hasVal)
	}
}
