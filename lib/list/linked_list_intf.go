package list

// Queue is a FIFO facade over the doubly linked list. It is not thread
// safe.
type Queue[T any] interface {
	Len() int64
	IsEmpty() bool
	Enqueue(v T)
	// Dequeue removes the head value. The second result is false if the queue is empty.
	Dequeue() (T, bool)
	Clear()
}
