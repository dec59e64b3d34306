package cache

import (
	goerrors "errors"

	"github.com/agilira/go-errors"
)

// Error codes for cache operations.
const (
	// ErrCodeInvalidMaxCost marks a negative budget passed to New or SetMaxCost.
	ErrCodeInvalidMaxCost errors.ErrorCode = "COSTCACHE_INVALID_MAX_COST"
	// ErrCodeInconsistentState marks a broken index/queue/cost invariant.
	// It is only ever raised through a panic: it means a bug, not bad input.
	ErrCodeInconsistentState errors.ErrorCode = "COSTCACHE_INCONSISTENT_STATE"
)

const (
	msgInvalidMaxCost    = "invalid max cost: must be non-negative"
	msgInconsistentState = "cache bookkeeping is inconsistent"
)

// NewErrInvalidMaxCost creates an error for a negative budget.
func NewErrInvalidMaxCost(maxCost int64) error {
	return errors.NewWithContext(ErrCodeInvalidMaxCost, msgInvalidMaxCost, map[string]interface{}{
		"provided_max_cost": maxCost,
		"minimum_required":  0,
	})
}

// newErrInconsistentState describes a detected invariant violation.
func newErrInconsistentState(operation string, entries, queued int, cost int64) error {
	return errors.NewWithContext(ErrCodeInconsistentState, msgInconsistentState, map[string]interface{}{
		"operation":  operation,
		"entries":    entries,
		"queued":     queued,
		"total_cost": cost,
	}).WithSeverity("critical")
}

// IsInvalidMaxCost reports whether err was caused by a negative budget.
func IsInvalidMaxCost(err error) bool {
	return errors.HasCode(err, ErrCodeInvalidMaxCost)
}

// ErrorCode extracts the error code from err, or "" if it carries none.
func ErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}
