package list

type nodeElement[T any] struct {
	prev, next *nodeElement[T]
	listRef    *doublyLinkedList[T]
	value      T // The type of value may be a small size type.
	// It should be placed at the end of the struct to avoid taking too much padding.
}

func newNodeElement[T any](v T, list *doublyLinkedList[T]) *nodeElement[T] {
	return &nodeElement[T]{
		value:   v,
		listRef: list,
	}
}
