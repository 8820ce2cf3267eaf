package kv

type ThreadSafeStorer[K comparable, V any] interface {
	// Purge drops all items. The map rejects writes afterwards.
	Purge() error
	AddOrUpdate(key K, obj V) error
	Get(key K) (item V, exists bool)
	Len() int
}
