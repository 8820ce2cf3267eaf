package id

import (
	"fmt"
	randv2 "math/rand/v2"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

const cacheLinePadSize = unsafe.Sizeof(cpu.CacheLinePad{})

// monotonicNonZeroID only increases, it skips 0 on overflow.
// The counter occupies a whole cache line so the workers sharing a
// generator do not false share with their neighbours.
type monotonicNonZeroID struct {
	_   [cacheLinePadSize - unsafe.Sizeof(*new(uint64))]byte
	val uint64
	_   [cacheLinePadSize - unsafe.Sizeof(*new(uint64))]byte
}

func (id *monotonicNonZeroID) next() uint64 {
	var v uint64
	if v = atomic.AddUint64(&id.val, 1); v == 0 {
		v = atomic.AddUint64(&id.val, 1)
	}
	return v
}

// MonotonicNonZeroID yields 1, 2, 3, ... and is safe for concurrent use.
func MonotonicNonZeroID() Gen {
	src := &monotonicNonZeroID{val: 0}
	return src.next
}

// DescendingID yields from, from-1, ... down to 1 and then starts over
// from from.
func DescendingID(from uint64) Gen {
	if from == 0 {
		from = 1
	}
	src := &monotonicNonZeroID{val: 0}
	return func() uint64 {
		return from - (src.next()-1)%from
	}
}

// RandomID yields pseudo random keys below limit (all of uint64 for 0).
// The same seed replays the same keys.
func RandomID(seed, limit uint64) Gen {
	lock := &sync.Mutex{}
	r := randv2.New(randv2.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func() uint64 {
		lock.Lock()
		defer lock.Unlock()
		if limit == 0 {
			return r.Uint64()
		}
		return r.Uint64N(limit)
	}
}

// New returns the generator of the pattern. The limit bounds the keys of
// the descending and random patterns.
func New(pattern Pattern, seed, limit uint64) (Gen, error) {
	switch pattern {
	case Sequential, "":
		return MonotonicNonZeroID(), nil
	case Descending:
		return DescendingID(limit), nil
	case Random:
		return RandomID(seed, limit), nil
	default:
	}
	return nil, fmt.Errorf("[id] unknown key pattern %q", pattern)
}
