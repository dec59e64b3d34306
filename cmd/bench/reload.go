package main

import (
	"math"
	"strconv"
	"time"

	"github.com/agilira/argus"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// budgetReloader watches a config file and forwards cache.max_cost changes
// to the goroutine that owns the cache. Only the latest value is kept.
type budgetReloader struct {
	updates chan int64
	watcher *argus.Watcher
	logger  log.Logger
}

// newBudgetReloader starts watching path. Supported layouts (any format argus
// parses: JSON, YAML, TOML, HCL, INI, properties):
//
//	cache:
//	  max_cost: 50000
//
// or a flat "cache.max_cost" / "max_cost" key.
func newBudgetReloader(path string, poll time.Duration, logger log.Logger) (*budgetReloader, error) {
	if poll < 100*time.Millisecond {
		poll = 100 * time.Millisecond
	}
	r := &budgetReloader{
		updates: make(chan int64, 1),
		logger:  logger,
	}
	w, err := argus.UniversalConfigWatcherWithConfig(path, r.handle, argus.Config{PollInterval: poll})
	if err != nil {
		return nil, err
	}
	r.watcher = w
	if !w.IsRunning() {
		if err := w.Start(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Updates delivers new budgets. Receive from it on the cache owner's goroutine.
func (r *budgetReloader) Updates() <-chan int64 { return r.updates }

// Stop stops the file watcher.
func (r *budgetReloader) Stop() error { return r.watcher.Stop() }

// handle is called by argus on every detected change.
func (r *budgetReloader) handle(data map[string]interface{}) {
	maxCost, ok := parseMaxCost(data)
	if !ok {
		level.Warn(r.logger).Log("msg", "config change without a usable cache.max_cost, ignoring")
		return
	}
	level.Info(r.logger).Log("msg", "cache budget reload requested", "max_cost", maxCost)
	r.publish(maxCost)
}

// publish replaces any undelivered value with maxCost.
func (r *budgetReloader) publish(maxCost int64) {
	for {
		select {
		case r.updates <- maxCost:
			return
		default:
		}
		select {
		case <-r.updates:
		default:
		}
	}
}

// parseMaxCost extracts a non-negative budget from parsed config data.
func parseMaxCost(data map[string]interface{}) (int64, bool) {
	if section, ok := data["cache"].(map[string]interface{}); ok {
		if v, ok := parseNonNegative(section["max_cost"]); ok {
			return v, true
		}
	}
	if v, ok := parseNonNegative(data["cache.max_cost"]); ok {
		return v, true
	}
	return parseNonNegative(data["max_cost"])
}

// parseNonNegative accepts the numeric shapes the config parsers produce
// (YAML ints, JSON float64s, INI/properties strings).
func parseNonNegative(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		if v >= 0 {
			return int64(v), true
		}
	case int64:
		if v >= 0 {
			return v, true
		}
	case float64:
		if v >= 0 && v < math.MaxInt64 && v == math.Trunc(v) {
			return int64(v), true
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			return n, true
		}
	}
	return 0, false
}
