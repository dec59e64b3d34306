package cache

import (
	"github.com/go-kit/log/level"
)

// Cache is a cost-bounded key/value store with FIFO eviction.
//
// Every entry carries a non-negative cost. Once an insertion would push the
// total cost over MaxCost, entries are evicted oldest-insertion-first until
// the new entry fits. Reads never reorder entries.
//
// Values are handed out as *V handles shared between the cache and its
// callers. Evicting or removing an entry only drops the cache's reference;
// handles already held by callers stay valid.
//
// A Cache is not safe for concurrent use. Callers that share one between
// goroutines must synchronize access themselves.
type Cache[K comparable, V any] struct {
	index   map[K]*node[K, V]
	queue   evictionQueue[K, V]
	maxCost int64

	opt Options[K, V]
}

// New constructs a cache with the provided Options.
// Defaults:
//   - MaxCost == 0 -> DefaultMaxCost
//   - nil Factory  -> new(V)
//   - nil Metrics  -> NoopMetrics
//   - nil Logger   -> nop logger
//
// A negative MaxCost yields an ErrCodeInvalidMaxCost error.
func New[K comparable, V any](opt Options[K, V]) (*Cache[K, V], error) {
	opt, err := opt.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Cache[K, V]{
		index:   make(map[K]*node[K, V]),
		maxCost: opt.MaxCost,
		opt:     opt,
	}, nil
}

// Put stores v under k with cost 1. See PutWithCost.
func (c *Cache[K, V]) Put(k K, v *V) (*V, bool) {
	return c.PutWithCost(k, v, 1)
}

// PutWithCost stores v under k with the given cost and returns the handle.
//
// If cost exceeds MaxCost the call changes nothing and returns (nil, false).
// Otherwise the oldest entries are evicted until cost fits, then any previous
// entry for k is replaced. Headroom is made before the replace, so a
// budget-tight cache may evict k itself on the way. Negative costs count as 0.
func (c *Cache[K, V]) PutWithCost(k K, v *V, cost int64) (*V, bool) {
	return c.add(k, func() *V { return v }, cost)
}

// Make stores a factory-made value under k with cost 1. See MakeWithCost.
func (c *Cache[K, V]) Make(k K) (*V, bool) {
	return c.MakeWithCost(k, 1)
}

// MakeWithCost behaves like PutWithCost, except the value is produced by
// Options.Factory. The factory is only invoked when the entry is admitted.
func (c *Cache[K, V]) MakeWithCost(k K, cost int64) (*V, bool) {
	return c.add(k, c.opt.Factory, cost)
}

// Take removes k and returns its handle, or (nil, false) if k is absent.
func (c *Cache[K, V]) Take(k K) (*V, bool) {
	n, ok := c.index[k]
	if !ok {
		return nil, false
	}
	c.unlink(n, "take")
	c.reportSize()
	return n.val, true
}

// Remove deletes k if present and reports whether it was.
func (c *Cache[K, V]) Remove(k K) bool {
	_, ok := c.Take(k)
	return ok
}

// Get returns the handle stored under k. It does not affect eviction order.
func (c *Cache[K, V]) Get(k K) (*V, bool) {
	n, ok := c.index[k]
	if !ok {
		c.opt.Metrics.Miss()
		return nil, false
	}
	c.opt.Metrics.Hit()
	return n.val, true
}

// Contains reports whether k is resident, without reporting a hit or miss.
func (c *Cache[K, V]) Contains(k K) bool {
	_, ok := c.index[k]
	return ok
}

// MaxCost returns the current budget.
func (c *Cache[K, V]) MaxCost() int64 { return c.maxCost }

// SetMaxCost changes the budget and synchronously evicts the oldest entries
// until TotalCost() <= maxCost. A negative maxCost is rejected and the cache
// is left unchanged.
func (c *Cache[K, V]) SetMaxCost(maxCost int64) error {
	if maxCost < 0 {
		return NewErrInvalidMaxCost(maxCost)
	}
	before := c.queue.len
	c.maxCost = maxCost
	c.freeSpace(maxCost, EvictResize)
	c.reportSize()
	level.Debug(c.opt.Logger).Log(
		"msg", "cache budget changed",
		"max_cost", maxCost,
		"evicted", before-c.queue.len,
		"total_cost", c.queue.cost,
	)
	return nil
}

// TotalCost returns the summed cost of the resident entries.
func (c *Cache[K, V]) TotalCost() int64 { return c.queue.cost }

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return len(c.index) }

// Keys returns the resident keys in eviction order (oldest first).
func (c *Cache[K, V]) Keys() []K { return c.queue.keys() }

// Clear drops every entry and resets the total cost. OnEvict is not called.
func (c *Cache[K, V]) Clear() {
	clear(c.index)
	c.queue.reset()
	c.reportSize()
}

// -------------------- internals --------------------

// add is the single insertion path shared by Put and Make.
func (c *Cache[K, V]) add(k K, mk func() *V, cost int64) (*V, bool) {
	if cost < 0 {
		cost = 0
	}
	if cost > c.maxCost {
		c.opt.Metrics.Reject()
		level.Debug(c.opt.Logger).Log("msg", "rejected entry heavier than budget", "cost", cost, "max_cost", c.maxCost)
		return nil, false
	}

	c.freeSpace(c.maxCost-cost, EvictCapacity)
	if old, ok := c.index[k]; ok {
		c.unlink(old, "replace")
	}

	n := &node[K, V]{key: k, val: mk(), cost: cost}
	c.index[k] = n
	c.queue.pushBack(n)
	c.reportSize()
	return n.val, true
}

// unlink removes n from both the index and the queue.
func (c *Cache[K, V]) unlink(n *node[K, V], op string) {
	delete(c.index, n.key)
	c.queue.remove(n)
	c.assertConsistent(op)
}

// freeSpace evicts from the queue head until the total cost is <= limit.
func (c *Cache[K, V]) freeSpace(limit int64, reason EvictReason) {
	for c.queue.cost > limit {
		n := c.queue.front()
		if n == nil {
			panic(newErrInconsistentState("evict", len(c.index), c.queue.len, c.queue.cost))
		}
		c.unlink(n, "evict")
		c.opt.Metrics.Evict(reason)
		if cb := c.opt.OnEvict; cb != nil {
			cb(n.key, n.val, reason)
		}
	}
}

// assertConsistent panics if the index, the queue and the cost total
// disagree. An empty queue must carry zero cost; the converse does not
// hold because zero-cost entries are allowed.
func (c *Cache[K, V]) assertConsistent(op string) {
	if len(c.index) != c.queue.len ||
		c.queue.cost < 0 ||
		(c.queue.len == 0 && c.queue.cost != 0) {
		panic(newErrInconsistentState(op, len(c.index), c.queue.len, c.queue.cost))
	}
}

func (c *Cache[K, V]) reportSize() {
	c.opt.Metrics.Size(c.queue.len, c.queue.cost)
}
