package rewind

import (
	"container/list"
	"sync"
)

type (
	lruCache[T any] struct {
		cache   map[string]*list.Element
		lru     *list.List
		maxSize int
		mu      sync.RWMutex
	}

	constructor[T any] func() T

	// cacheEntry refs counts callers between Get and Release and is guarded
	// by the cache's mutex. Entries with refs above zero are never evicted
	cacheEntry[T any] struct {
		value T
		key   string
		refs  int
		mu    sync.Mutex
	}
)

func newLRUCache[T any](maxSize int) *lruCache[T] {
	if maxSize <= 0 {
		maxSize = DefaultRegistrySize
	}
	return &lruCache[T]{
		cache:   map[string]*list.Element{},
		lru:     list.New(),
		maxSize: maxSize,
	}
}

func (c *lruCache[T]) Get(key string, cons constructor[T]) *cacheEntry[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry[T])
		entry.refs++
		return entry
	}

	entry := &cacheEntry[T]{key: key, value: cons(), refs: 1}
	c.cache[key] = c.lru.PushFront(entry)
	c.evict()
	return entry
}

// Release returns an entry obtained from Get, making it evictable again
// once no other caller holds it
func (c *lruCache[T]) Release(entry *cacheEntry[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.refs--
	c.evict()
}

func (c *lruCache[T]) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.cache[key]
	if !ok || elem.Value.(*cacheEntry[T]).refs > 0 {
		return false
	}
	c.lru.Remove(elem)
	delete(c.cache, key)
	return true
}

func (c *lruCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.Len()
}

func (c *lruCache[T]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]string, 0, c.lru.Len())
	for e := c.lru.Front(); e != nil; e = e.Next() {
		res = append(res, e.Value.(*cacheEntry[T]).key)
	}
	return res
}

// evict drops the least recently used idle entries until the cache fits.
// If every remaining entry is in use the cache stays over size until
// enough of them are released
func (c *lruCache[T]) evict() {
	for e := c.lru.Back(); e != nil && c.lru.Len() > c.maxSize; {
		prev := e.Prev()
		if entry := e.Value.(*cacheEntry[T]); entry.refs == 0 {
			c.lru.Remove(e)
			delete(c.cache, entry.key)
		}
		e = prev
	}
}
