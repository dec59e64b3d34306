package cache

import "github.com/go-kit/log"

// DefaultMaxCost is the budget used when Options.MaxCost is zero.
const DefaultMaxCost int64 = 100

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictCapacity: removed to make headroom for an incoming entry.
	EvictCapacity EvictReason = iota
	// EvictResize: removed because SetMaxCost lowered the budget.
	EvictResize
)

// String returns a stable lowercase name for the reason.
func (r EvictReason) String() string {
	switch r {
	case EvictCapacity:
		return "capacity"
	case EvictResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	// Reject is reported when an entry heavier than the whole budget is refused.
	Reject()
	Evict(reason EvictReason)
	Size(entries int, cost int64)
}

// Options configures the cache. Zero values are safe;
// defaults are applied in New():
//   - MaxCost == 0  => DefaultMaxCost
//   - nil Factory   => new(V)
//   - nil Metrics   => NoopMetrics
//   - nil Logger    => log.NewNopLogger()
type Options[K comparable, V any] struct {
	// MaxCost is the total cost budget. Negative values are rejected by New.
	// Use SetMaxCost(0) for an empty budget.
	MaxCost int64

	// Factory produces values for Make/MakeWithCost.
	// It is held by the instance, so callers can plug pooled or
	// instrumented construction, or close over constructor arguments.
	Factory func() *V

	// OnEvict is called for every eviction, synchronously, before the
	// evicting call returns. Explicit Remove/Take/Clear and same-key
	// replacement are not evictions.
	OnEvict func(k K, v *V, reason EvictReason)

	// Observability
	Metrics Metrics
	Logger  log.Logger
}

// withDefaults validates opt and fills in the zero-value defaults.
func (opt Options[K, V]) withDefaults() (Options[K, V], error) {
	if opt.MaxCost < 0 {
		return opt, NewErrInvalidMaxCost(opt.MaxCost)
	}
	if opt.MaxCost == 0 {
		opt.MaxCost = DefaultMaxCost
	}
	if opt.Factory == nil {
		opt.Factory = func() *V { return new(V) }
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Logger == nil {
		opt.Logger = log.NewNopLogger()
	}
	return opt, nil
}
