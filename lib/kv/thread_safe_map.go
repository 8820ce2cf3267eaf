package kv

import (
	"errors"
	"sync"
)

var ErrThreadSafeMapPurged = errors.New("[kv] thread safe map has been purged")

type ThreadSafeMapOption[K comparable, V any] func(*threadSafeMap[K, V])

func WithThreadSafeMapInitCap[K comparable, V any](capacity uint32) ThreadSafeMapOption[K, V] {
	return func(m *threadSafeMap[K, V]) {
		m.initCap = capacity
	}
}

type threadSafeMap[K comparable, V any] struct {
	lock    sync.RWMutex
	items   map[K]V
	initCap uint32
	purged  bool
}

func (t *threadSafeMap[K, V]) AddOrUpdate(key K, obj V) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.purged {
		return ErrThreadSafeMapPurged
	}
	t.items[key] = obj
	return nil
}

func (t *threadSafeMap[K, V]) Get(key K) (item V, exists bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	item, exists = t.items[key]
	return
}

func (t *threadSafeMap[K, V]) Len() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return len(t.items)
}

func (t *threadSafeMap[K, V]) Purge() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.purged {
		return ErrThreadSafeMapPurged
	}
	t.items = nil
	t.purged = true
	return nil
}

func NewThreadSafeMap[K comparable, V any](opts ...ThreadSafeMapOption[K, V]) ThreadSafeStorer[K, V] {
	m := &threadSafeMap[K, V]{initCap: 32}
	for _, o := range opts {
		o(m)
	}
	m.items = make(map[K]V, m.initCap)
	return m
}
