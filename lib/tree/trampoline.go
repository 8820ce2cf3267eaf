package tree

// thunk is one step of a trampolined walk. Either the walk is done with
// the result, or next continues it.
type thunk[K, V any] struct {
	result *node[K, V]
	next   func() thunk[K, V]
	done   bool
}

// trampoline runs the steps in a loop so that the walk never grows the
// goroutine stack, whatever the depth of the tree.
func trampoline[K, V any](t thunk[K, V]) *node[K, V] {
	for !t.done {
		t = t.next()
	}
	return t.result
}

func (tree *binaryTree[K, V]) leftMostThunk(aux *node[K, V]) thunk[K, V] {
	if aux.left.isNil() {
		return thunk[K, V]{result: aux, done: true}
	}
	return thunk[K, V]{next: func() thunk[K, V] {
		return tree.leftMostThunk(aux.left)
	}}
}

func (tree *binaryTree[K, V]) rightMostThunk(aux *node[K, V]) thunk[K, V] {
	if aux.right.isNil() {
		return thunk[K, V]{result: aux, done: true}
	}
	return thunk[K, V]{next: func() thunk[K, V] {
		return tree.rightMostThunk(aux.right)
	}}
}

func (tree *binaryTree[K, V]) leftMostRecursive(aux *node[K, V]) *node[K, V] {
	if aux.left.isNil() {
		return aux
	}
	return tree.leftMostRecursive(aux.left)
}

func (tree *binaryTree[K, V]) rightMostRecursive(aux *node[K, V]) *node[K, V] {
	if aux.right.isNil() {
		return aux
	}
	return tree.rightMostRecursive(aux.right)
}

// LeftMost returns the smallest node below from (the root if nil).
func (tree *binaryTree[K, V]) LeftMost(from Node[K, V], iterType ...IterationType) (Node[K, V], bool) {
	begin := tree.beginAt(from)
	if begin.isNil() {
		return nil, false
	}
	if tree.iterationType(iterType) == Recursive {
		return tree.leftMostRecursive(begin), true
	}
	return trampoline(tree.leftMostThunk(begin)), true
}

// RightMost returns the greatest node below from (the root if nil).
func (tree *binaryTree[K, V]) RightMost(from Node[K, V], iterType ...IterationType) (Node[K, V], bool) {
	begin := tree.beginAt(from)
	if begin.isNil() {
		return nil, false
	}
	if tree.iterationType(iterType) == Recursive {
		return tree.rightMostRecursive(begin), true
	}
	return trampoline(tree.rightMostThunk(begin)), true
}
