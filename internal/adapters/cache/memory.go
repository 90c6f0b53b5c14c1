package cache

import (
	"sync"
	"time"
)

// Memory is an in-process snapshot cache. A zero ttl keeps the value until
// Invalidate is called.
//
// Every Invalidate starts a new generation. Set only stores values loaded in
// the current generation, so a read that started before a write cannot put
// the old snapshot back.
type Memory[T any] struct {
	mu       sync.RWMutex
	value    T
	loaded   bool
	gen      uint64
	storedAt time.Time
	ttl      time.Duration
	now      func() time.Time
}

func NewMemory[T any](ttl time.Duration) *Memory[T] {
	return &Memory[T]{ttl: ttl, now: time.Now}
}

// Get returns the cached value and the current generation. The generation is
// returned on a miss too, to be passed to Set once the value is loaded.
func (c *Memory[T]) Get() (T, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero T
	if !c.loaded {
		return zero, c.gen, false
	}
	if c.ttl > 0 && c.now().Sub(c.storedAt) > c.ttl {
		return zero, c.gen, false
	}
	return c.value, c.gen, true
}

// Set stores value if no Invalidate happened since gen was read. It reports
// whether the value was stored.
func (c *Memory[T]) Set(value T, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return false
	}
	c.value = value
	c.loaded = true
	c.storedAt = c.now()
	return true
}

func (c *Memory[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	c.value = zero
	c.loaded = false
	c.gen++
}

// Nop never holds a value. Services use it when caching is disabled.
type Nop[T any] struct{}

func (Nop[T]) Get() (T, uint64, bool) {
	var zero T
	return zero, 0, false
}

func (Nop[T]) Set(T, uint64) bool { return false }

func (Nop[T]) Invalidate() {}
