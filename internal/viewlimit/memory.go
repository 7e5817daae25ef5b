package viewlimit

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultCapacity bounds the number of tracked clients.
const DefaultCapacity = 1000

// DefaultCooldown is the window during which repeat visits are ignored.
const DefaultCooldown = 5 * time.Minute

type memoryEntry struct {
	key  string
	seen time.Time
}

// MemoryLimiter keeps the last counted visit per key in an LRU list. The
// front holds the most recent timestamp, so eviction from the back drops the
// oldest timestamps first.
type MemoryLimiter struct {
	mu       sync.Mutex
	cooldown time.Duration
	capacity int
	now      func() time.Time
	order    *list.List
	items    map[string]*list.Element
}

// NewMemoryLimiter creates a MemoryLimiter. Non-positive arguments fall back
// to the defaults.
func NewMemoryLimiter(cooldown time.Duration, capacity int) *MemoryLimiter {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryLimiter{
		cooldown: cooldown,
		capacity: capacity,
		now:      time.Now,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// WithClock replaces the time source. Intended for tests.
func (l *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	l.now = now
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if el, ok := l.items[key]; ok {
		e := el.Value.(*memoryEntry)
		if now.Sub(e.seen) < l.cooldown {
			return false, nil
		}
		e.seen = now
		l.order.MoveToFront(el)
		return true, nil
	}

	l.items[key] = l.order.PushFront(&memoryEntry{key: key, seen: now})
	for l.order.Len() > l.capacity {
		oldest := l.order.Back()
		l.order.Remove(oldest)
		delete(l.items, oldest.Value.(*memoryEntry).key)
	}
	return true, nil
}

// Len returns the number of tracked keys.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order.Len()
}
