package cache

// Store is the read/write surface of a cost-bounded cache.
// It is implemented by *Cache; programs that only drive a cache
// (workload generators, handlers) can depend on Store instead.
//
// Implementations are not required to be safe for concurrent use.
//
// Typical complexity is amortized O(1): a map operation plus constant-time
// list adjustments, and O(1) per evicted entry.
type Store[K comparable, V any] interface {
	// PutWithCost stores v under k. Returns (nil, false) without changing
	// anything if cost exceeds MaxCost.
	PutWithCost(k K, v *V, cost int64) (*V, bool)

	// MakeWithCost stores a factory-made value under k; same contract as PutWithCost.
	MakeWithCost(k K, cost int64) (*V, bool)

	// Get returns the handle for k and a presence flag. Never reorders entries.
	Get(k K) (*V, bool)

	// Take removes k and returns its handle.
	Take(k K) (*V, bool)

	// Remove deletes k if present and returns true on success.
	Remove(k K) bool

	// MaxCost returns the budget; SetMaxCost changes it and evicts as needed.
	MaxCost() int64
	SetMaxCost(maxCost int64) error

	// TotalCost returns the summed cost of resident entries.
	TotalCost() int64

	// Len returns the number of resident entries.
	Len() int

	// Clear drops every entry.
	Clear()
}

var _ Store[string, int] = (*Cache[string, int])(nil)
