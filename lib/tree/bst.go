package tree

var _ balancer[int, int] = bstBalancer[int, int]{}

// bstBalancer keeps the plain ordering only. The height of the tree is
// bounded by the input order.
type bstBalancer[K, V any] struct{}

func (bstBalancer[K, V]) variant() Variant {
	return BST
}

func (bstBalancer[K, V]) afterInsert(*binaryTree[K, V], *node[K, V]) {}

func (bstBalancer[K, V]) beforeUnlink(*binaryTree[K, V], *node[K, V], *node[K, V]) {}

func (bstBalancer[K, V]) afterUnlink(*binaryTree[K, V], *node[K, V], *node[K, V], *node[K, V]) {}

func (bstBalancer[K, V]) linked(*node[K, V], int, int, int) {}
