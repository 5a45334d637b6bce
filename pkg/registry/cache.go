package registry

import (
	"container/list"
	"reflect"
	"sync"

	"github.com/sandrolain/tagexpr/pkg/ast"
)

// resolveCache memoizes the (reflect.Type, OpTag) → OverloadFunc walk so
// repeated dispatch on the same concrete type does not re-walk the parent
// chain. It is dispatch memoization, not expression-compilation caching:
// the key is a runtime type and an operation tag, never a parsed
// expression.
//
// A container/list-backed LRU, the same shape as any hand-rolled Go cache.
// A cached nil function records a confirmed miss, so a type with no
// overload for a tag does not re-walk its (possibly long) parent chain on
// every dispatch either.
type resolveCache struct {
	mu       sync.RWMutex
	capacity int
	ll       *list.List
	items    map[cacheKey]*list.Element
}

type cacheKey struct {
	typ reflect.Type
	tag ast.OpTag
}

type cacheEntry struct {
	key cacheKey
	fn  OverloadFunc
}

func newResolveCache(capacity int) *resolveCache {
	if capacity <= 0 {
		capacity = 256
	}
	return &resolveCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[cacheKey]*list.Element, capacity),
	}
}

func (c *resolveCache) get(typ reflect.Type, tag ast.OpTag) (OverloadFunc, bool) {
	key := cacheKey{typ, tag}

	c.mu.RLock()
	el, ok := c.items[key]
	alreadyFront := ok && c.ll.Front() == el
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !alreadyFront {
		c.mu.Lock()
		el, ok = c.items[key]
		if ok {
			c.ll.MoveToFront(el)
		}
		c.mu.Unlock()
		if !ok {
			return nil, false
		}
	}
	return el.Value.(*cacheEntry).fn, true
}

func (c *resolveCache) set(typ reflect.Type, tag ast.OpTag, fn OverloadFunc) {
	key := cacheKey{typ, tag}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).fn = fn
		c.ll.MoveToFront(el)
		return
	}
	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}
	el := c.ll.PushFront(&cacheEntry{key: key, fn: fn})
	c.items[key] = el
}

// invalidateType drops every cached entry for typ, and conservatively the
// whole cache: a registration on typ can change the answer not just for typ
// itself but for any descendant whose parent chain walks through it, and the
// cache has no reverse parent index to find those descendants cheaply.
// Registration is a setup-time operation, not a hot path, so flushing the
// whole memo on every call is the correct trade rather than a narrower
// invalidation that can serve a stale miss forever.
func (c *resolveCache) invalidateType(typ reflect.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	for key := range c.items {
		delete(c.items, key)
	}
}

func (c *resolveCache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*cacheEntry).key)
}
