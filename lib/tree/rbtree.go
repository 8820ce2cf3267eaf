package tree

import (
	"go.uber.org/zap"
)

var _ balancer[int, int] = rbBalancer[int, int]{}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. (Optional) The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
//   because if it were black, its NIL descendants would sit at a different
//   black depth than X's NIL child, violating p4.
// So the shortest path nodes are black nodes. Otherwise,
// the path must contain red node.
// The longest path nodes' number is 2 * shortest path nodes' number.
type rbBalancer[K, V any] struct{}

func (rbBalancer[K, V]) variant() Variant {
	return RB
}

func (rbBalancer[K, V]) afterInsert(tree *binaryTree[K, V], z *node[K, V]) {
	z.color = Red
	tree.rbInsertRebalance(z)
}

/*
r1: Current node Z is a red leaf node, remove directly.

r2: Current node Z is a black leaf node, we have to rebalance before
unlinking it. (black-violation)

r3: Current node Z contains a not nil child node.
The child node must be a red node. (See conclusion. Otherwise, black-violation)
Repaint it into black after unlinking Z.
*/
func (rbBalancer[K, V]) beforeUnlink(tree *binaryTree[K, V], z, child *node[K, V]) {
	if /* r2 */ z.isBlack() && child.isNil() && !z.isRoot() {
		tree.rbRemoveRebalance(z)
	}
}

func (rbBalancer[K, V]) afterUnlink(tree *binaryTree[K, V], _, child, z *node[K, V]) {
	if /* r3 */ z.color == Black && !child.isNil() {
		child.color = Black
	}
	if !tree.root.isNil() {
		tree.root.color = Black
	}
}

// linked paints the deepest level red and the others black. Every path
// to a NIL then counts treeHeight black nodes, the empty slots being on
// the last two levels.
func (rbBalancer[K, V]) linked(x *node[K, V], depth, _, treeHeight int) {
	x.color = Black
	if depth == treeHeight && treeHeight > 0 {
		x.color = Red
	}
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

im1: Current node X's parent P is black, hold p3 and p4.

im2: Current node X's parent P is red but has no grandpa G. It is a
malformed red root, stop here and repaint the root.

im3: If both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Recursive to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red but the uncle U is black. (red-violation)
X is opposite direction to P. Rotate P to opposite direction.
After rotation may be still red-violation. Here must enter im5 to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: Handle im4 scenario, current node is the same direction as parent.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *binaryTree[K, V]) rbInsertRebalance(x *node[K, V]) {
	for /* im1 */ !x.isRoot() && x.parent.isRed() {
		p := x.parent
		g := p.parent
		if /* im2 */ g == nil {
			tree.warn("[tree] rbtree red node without grandpa, stop insert rebalance",
				zap.Any("key", x.key),
				zap.Any("parent", p.key),
			)
			break
		}

		if u := p.sibling(); /* im3 */ u.isRed() {
			p.color = Black
			u.color = Black
			g.color = Red
			x = g
			continue
		}

		if dir := x.direction(); /* im4 */ dir != p.direction() {
			switch dir {
			case dirLeft:
				tree.rightRotate(p)
			case dirRight:
				tree.leftRotate(p)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[tree] rbtree insert violate (im4)")
			}
			x, p = p, x // enter im5 to fix
		}

		switch /* im5 */ p.direction() {
		case dirLeft:
			tree.rightRotate(g)
		case dirRight:
			tree.leftRotate(g)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[tree] rbtree insert violate (im5)")
		}
		p.color = Black
		g.color = Red
		break
	}
	tree.root.color = Black
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the same direction to X and it X's sibling's child node.
Sd is the opposite direction to X and it X's sibling's child node.

rm1: Current node X's sibling S is red, so the parent P, nephew node Sc and Sd
must be black. (Otherwise, red-violation)
(1) X is left node of P, left rotate P
(2) X is right node of P, right rotate P.
(3) repaint S into black, P into red.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [D]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: Current node X's parent P is red, the sibling S, nephew node Sc and Sd
is black.
Repaint S into red and P into black.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: All of current node X's parent P, the sibling S, nephew node Sc and Sd
are black.
Unable to satisfy p3 and p4. We have to paint the S into red to satisfy
p4 locally. Then recursive to handle P.

	  [P]             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm4: Current node X's sibling S is black, nephew node Sc is red and Sd
is black. Ignore X's parent P's color (red or black is okay)
Unable to satisfy p3 and p4.
(1) If X is left node of P, right rotate S.
(2) If X is right node of P, left rotate S.
(3) Repaint S into red, Sc into black
Enter into rm5 to fix.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm5: Current node X's sibling S is black, nephew node Sd is red.
Ignore X's parent P's color (red or black is okay)
Unable to satisfy p4 (black-violation)
(1) If X is left node of P, left rotate P.
(2) If X is right node of P, right rotate P.
(3) Swap P and S's color (red-violation)
(4) Repaint Sd into black.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *binaryTree[K, V]) rbRemoveRebalance(x *node[K, V]) {
	for {
		if x.isRoot() {
			return
		}

		sibling := x.sibling()
		dir := x.direction()
		if /* rm1 */ sibling.isRed() {
			switch dir {
			case dirLeft:
				tree.leftRotate(x.parent)
			case dirRight:
				tree.rightRotate(x.parent)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[tree] rbtree remove violate (rm1)")
			}
			sibling.color = Black
			x.parent.color = Red // ready to enter rm2
			sibling = x.sibling()
		}

		var sc, sd *node[K, V]
		switch dir {
		case dirLeft:
			sc, sd = sibling.left, sibling.right
		case dirRight:
			sc, sd = sibling.right, sibling.left
		default:
			// impossible run to here
			panic( /* debug assertion */ "[tree] rbtree remove violate (rm2)")
		}

		if sc.isBlack() && sd.isBlack() {
			if /* rm2 */ x.parent.isRed() {
				sibling.color = Red
				x.parent.color = Black
				return
			}
			/* rm3 */
			sibling.color = Red
			x = x.parent
			continue
		}

		if /* rm4 */ sd.isBlack() {
			switch dir {
			case dirLeft:
				tree.rightRotate(sibling)
			case dirRight:
				tree.leftRotate(sibling)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[tree] rbtree remove violate (rm4)")
			}
			sc.color = Black
			sibling.color = Red
			sibling = x.sibling()
			switch dir {
			case dirLeft:
				sd = sibling.right
			case dirRight:
				sd = sibling.left
			default:
			}
		}

		switch /* rm5 */ dir {
		case dirLeft:
			tree.leftRotate(x.parent)
		case dirRight:
			tree.rightRotate(x.parent)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[tree] rbtree remove violate (rm5)")
		}
		sibling.color = x.parent.color
		x.parent.color = Black
		if !sd.isNil() {
			sd.color = Black
		}
		return
	}
}
