package list

var _ Queue[struct{}] = (*linkedQueue[struct{}])(nil) // Type check assertion

// The root is a sentinel element. The list is a ring through it:
// root.next is the head and root.prev is the tail.
type doublyLinkedList[T any] struct {
	root *nodeElement[T]
	len  int64
}

func (l *doublyLinkedList[T]) init() *doublyLinkedList[T] {
	l.root = &nodeElement[T]{
		listRef: l,
	}
	l.root.next = l.root
	l.root.prev = l.root
	l.len = 0
	return l
}

func (l *doublyLinkedList[T]) contains(e *nodeElement[T]) bool {
	return e != nil && e != l.root && e.listRef == l && e.prev != nil && e.next != nil
}

// insertAfter links newE right after the at element.
func (l *doublyLinkedList[T]) insertAfter(newE, at *nodeElement[T]) *nodeElement[T] {
	newE.listRef = l
	newE.prev = at
	newE.next = at.next
	at.next.prev = newE
	at.next = newE
	l.len++
	return newE
}

func (l *doublyLinkedList[T]) front() *nodeElement[T] {
	if l.len == 0 {
		return nil
	}
	return l.root.next
}

func (l *doublyLinkedList[T]) pushBack(v T) *nodeElement[T] {
	return l.insertAfter(newNodeElement(v, l), l.root.prev)
}

func (l *doublyLinkedList[T]) remove(targetE *nodeElement[T]) *nodeElement[T] {
	if l.len == 0 || !l.contains(targetE) {
		return nil
	}

	targetE.prev.next = targetE.next
	targetE.next.prev = targetE.prev

	// avoid memory leaks
	targetE.listRef = nil
	targetE.next = nil
	targetE.prev = nil

	l.len--
	return targetE
}

func (l *doublyLinkedList[T]) clear() {
	for iterator := l.root.next; iterator != l.root; {
		n := iterator.next
		iterator.listRef, iterator.prev, iterator.next = nil, nil, nil
		iterator = n
	}
	l.init()
}

type linkedQueue[T any] struct {
	l *doublyLinkedList[T]
}

// NewQueue returns an unbounded FIFO queue.
func NewQueue[T any]() Queue[T] {
	return &linkedQueue[T]{
		l: new(doublyLinkedList[T]).init(),
	}
}

func (q *linkedQueue[T]) Len() int64 {
	return q.l.len
}

func (q *linkedQueue[T]) IsEmpty() bool {
	return q.l.len == 0
}

func (q *linkedQueue[T]) Enqueue(v T) {
	q.l.pushBack(v)
}

func (q *linkedQueue[T]) Dequeue() (v T, ok bool) {
	e := q.l.remove(q.l.front())
	if e == nil {
		return v, false
	}
	return e.value, true
}

func (q *linkedQueue[T]) Clear() {
	q.l.clear()
}
