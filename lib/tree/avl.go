package tree

var _ balancer[int, int] = avlBalancer[int, int]{}

type avlBalancer[K, V any] struct{}

func (avlBalancer[K, V]) variant() Variant {
	return AVL
}

func (avlBalancer[K, V]) afterInsert(tree *binaryTree[K, V], z *node[K, V]) {
	tree.avlRebalance(z.parent)
}

func (avlBalancer[K, V]) beforeUnlink(*binaryTree[K, V], *node[K, V], *node[K, V]) {}

func (avlBalancer[K, V]) afterUnlink(tree *binaryTree[K, V], parent, _, _ *node[K, V]) {
	tree.avlRebalance(parent)
}

func (avlBalancer[K, V]) linked(x *node[K, V], _, height, _ int) {
	x.height = height
}

// avlRebalance walks from x to the root, recomputing the heights and
// rotating every node whose balance factor is out of [-1, 1].
func (tree *binaryTree[K, V]) avlRebalance(x *node[K, V]) {
	for ; x != nil; x = x.parent {
		x.updateHeight()
		x = tree.avlBalance(x)
	}
}

/*
LL: bf(X) > 1 and bf(L) >= 0, rightRotate(X).

	      X              L
	     /              / \
	    L     ====>   LL   X
	   /
	 LL

LR: bf(X) > 1 and bf(L) < 0, leftRotate(L) then rightRotate(X).

	    X              X             LR
	   /              /             /  \
	  L     ====>   LR    ====>    L    X
	   \            /
	   LR          L

RR and RL are the mirrors.
*/
func (tree *binaryTree[K, V]) avlBalance(x *node[K, V]) *node[K, V] {
	switch bf := x.balanceFactor(); {
	case bf > 1:
		if /* LR */ x.left.balanceFactor() < 0 {
			tree.avlLeftRotate(x.left)
		}
		/* LL */
		return tree.avlRightRotate(x)
	case bf < -1:
		if /* RL */ x.right.balanceFactor() > 0 {
			tree.avlRightRotate(x.right)
		}
		/* RR */
		return tree.avlLeftRotate(x)
	default:
	}
	return x
}

// avlLeftRotate returns the new subtree root.
func (tree *binaryTree[K, V]) avlLeftRotate(x *node[K, V]) *node[K, V] {
	y := x.right
	tree.leftRotate(x)
	x.updateHeight()
	y.updateHeight()
	return y
}

func (tree *binaryTree[K, V]) avlRightRotate(x *node[K, V]) *node[K, V] {
	y := x.left
	tree.rightRotate(x)
	x.updateHeight()
	y.updateHeight()
	return y
}
