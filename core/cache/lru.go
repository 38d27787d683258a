package cache

import (
	"container/list"
	"sync"
)

// DefaultCapacity is used when NewLRUCache gets a non-positive capacity.
const DefaultCapacity = 128

type entry[K comparable, V any] struct {
	key   K
	value V
}

// LRUCache is a fixed-capacity cache evicting the least recently used entry.
type LRUCache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*list.Element
	order    *list.List // front is most recently used
	onEvict  func(K, V)
}

// NewLRUCache creates a cache holding at most capacity entries.
func NewLRUCache[K comparable, V any](capacity int) *LRUCache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LRUCache[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
	}
}

// SetEvictCallback registers fn to run for entries dropped to make room.
// Remove and Clear do not call it.
func (c *LRUCache[K, V]) SetEvictCallback(fn func(K, V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get returns the value for key and marks it as recently used.
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry[K, V]).value, true
}

// Put stores value under key, evicting the oldest entry when full.
func (c *LRUCache[K, V]) Put(key K, value V) {
	c.mu.Lock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry[K, V]).value = value
		c.order.MoveToFront(el)
		c.mu.Unlock()
		return
	}

	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})

	var evicted *entry[K, V]
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		evicted = oldest.Value.(*entry[K, V])
		delete(c.items, evicted.key)
	}
	onEvict := c.onEvict
	c.mu.Unlock()

	// outside the lock so callbacks may use the cache
	if evicted != nil && onEvict != nil {
		onEvict(evicted.key, evicted.value)
	}
}

// Remove deletes key, returning the value it held.
func (c *LRUCache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.Remove(el)
	delete(c.items, key)
	return el.Value.(*entry[K, V]).value, true
}

// Len returns the number of entries.
func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear removes every entry.
func (c *LRUCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*list.Element, c.capacity)
	c.order.Init()
}
