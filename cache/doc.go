// Package cache provides a generic, in-memory, cost-bounded cache with
// strict FIFO (insertion-order) eviction.
//
// Design
//
//   - Storage: a map[K]*node for lookups and an intrusive doubly linked list
//     recording insertion order (head = oldest). The map's node pointer is a
//     back reference used to unlink in O(1); it never extends a value's life.
//
//   - Cost/MaxCost: every entry carries a cost (1 by default). An insertion
//     first evicts the oldest entries until its cost fits, then replaces any
//     entry already stored under the key. An entry whose cost exceeds MaxCost
//     is refused and nothing changes. SetMaxCost shrinks synchronously.
//
//   - FIFO, not LRU: Get never reorders. Re-inserting a key moves it to the
//     tail of the queue.
//
//   - Handles: values are stored and returned as *V. Eviction, Remove, Take
//     and Clear only drop the cache's reference; callers keep theirs.
//
//   - Factory: Make/MakeWithCost build values with Options.Factory, a per-
//     instance func() *V (defaults to new(V)).
//
//   - Metrics: Options.Metrics receives Hit/Miss/Reject/Evict/Size signals.
//     By default NoopMetrics is used; see package metrics/prom for Prometheus.
//
//   - Callbacks: Options.OnEvict(k, v, reason) is called for every eviction
//     (reason is EvictCapacity or EvictResize).
//
// Basic usage
//
//	c, err := cache.New[string, float64](cache.Options[string, float64]{MaxCost: 100})
//	if err != nil {
//	    return err
//	}
//	v := 10.0
//	h, _ := c.Put("foo", &v)            // cost 1
//	c.PutWithCost("bar", new(float64), 42)
//	if got, ok := c.Get("foo"); ok {
//	    *got = 11 // h and got are the same handle
//	}
//	_ = h
//	c.Remove("bar")
//
// Custom factory
//
//	var made int
//	c, _ := cache.New[int, []byte](cache.Options[int, []byte]{
//	    MaxCost: 1 << 20,
//	    Factory: func() *[]byte {
//	        made++
//	        b := make([]byte, 0, 4096)
//	        return &b
//	    },
//	})
//	buf, _ := c.MakeWithCost(7, 4096)
//
// Thread-safety & complexity
//
// A Cache is not safe for concurrent use; wrap it in a mutex when sharing it.
// Handles may be read from any goroutine once obtained. Every operation is
// O(1) amortized plus O(1) per evicted entry.
//
// Internal consistency faults (index, queue and cost total disagreeing) are
// bugs; the cache panics with an ErrCodeInconsistentState error.
package cache
