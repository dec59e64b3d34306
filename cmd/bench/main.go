// Command bench runs a synthetic workload against the cache and exposes optional pprof/Prometheus endpoints.
//
// The cache is not safe for concurrent use, so a single worker goroutine owns
// it. Budget changes arriving from the watched config file are handed to that
// goroutine over a channel and applied between operations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/agilira/go-timecache"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/costcache/cache"
	pmet "github.com/IvanBrykalov/costcache/metrics/prom"
)

type config struct {
	maxCost     int64
	maxItemCost int
	duration    time.Duration
	readPct     int
	keys        int
	zipfS       float64
	zipfV       float64
	seed        int64
	preload     int

	pprofAddr   string
	metricsAddr string
	configFile  string
	poll        time.Duration
	logLevel    string
}

type report struct {
	ops, reads, writes, hits, misses, rejected uint64
	elapsed                                    time.Duration
}

func main() {
	// ---- Flags ----
	var cfg config
	flag.Int64Var(&cfg.maxCost, "maxcost", 100_000, "cache cost budget")
	flag.IntVar(&cfg.maxItemCost, "itemcost", 4, "entries cost a random value in [1..itemcost]")
	flag.DurationVar(&cfg.duration, "duration", 10*time.Second, "benchmark duration")
	flag.IntVar(&cfg.readPct, "reads", 80, "read percentage [0..100]")
	flag.IntVar(&cfg.keys, "keys", 1_000_000, "keyspace size")
	flag.Float64Var(&cfg.zipfS, "zipf_s", 1.1, "Zipf s > 1 (skew)")
	flag.Float64Var(&cfg.zipfV, "zipf_v", 1.0, "Zipf v")
	flag.Int64Var(&cfg.seed, "seed", time.Now().UnixNano(), "random seed")
	flag.IntVar(&cfg.preload, "preload", 0, "preload entries (0 = maxcost/2)")
	flag.StringVar(&cfg.pprofAddr, "pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
	flag.StringVar(&cfg.metricsAddr, "http", ":8080", "serve Prometheus metrics at addr")
	flag.StringVar(&cfg.configFile, "config.file", "", "config file to watch for cache.max_cost changes; empty = disabled")
	flag.DurationVar(&cfg.poll, "config.poll", time.Second, "config file poll interval")
	flag.StringVar(&cfg.logLevel, "log.level", "info", "log level: debug | info | warn | error")
	flag.Parse()

	logger := newLogger(cfg.logLevel)

	if err := run(cfg, logger); err != nil {
		level.Error(logger).Log("msg", "bench failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	var opt level.Option
	switch lvl {
	case "debug":
		opt = level.AllowDebug()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		opt = level.AllowInfo()
	}
	return level.NewFilter(logger, opt)
}

func run(cfg config, logger log.Logger) error {
	if cfg.keys < 2 {
		return fmt.Errorf("keys must be >= 2, got %d", cfg.keys)
	}
	if cfg.maxItemCost < 1 {
		cfg.maxItemCost = 1
	}

	// ---- pprof server (on DefaultServeMux) ----
	if cfg.pprofAddr != "" {
		go func() {
			level.Info(logger).Log("msg", "pprof: serving", "addr", cfg.pprofAddr)
			level.Warn(logger).Log("msg", "pprof server stopped", "err", http.ListenAndServe(cfg.pprofAddr, nil))
		}()
	}

	// ---- Build cache ----
	metrics := pmet.New(nil, "costcache", "bench", nil)
	c, err := cache.New[string, string](cache.Options[string, string]{
		MaxCost: cfg.maxCost,
		Metrics: metrics,
		Logger:  log.With(logger, "component", "cache"),
	})
	if err != nil {
		return err
	}
	metrics.SetMaxCost(c.MaxCost())

	var updates <-chan int64
	if cfg.configFile != "" {
		r, err := newBudgetReloader(cfg.configFile, cfg.poll, log.With(logger, "component", "reload"))
		if err != nil {
			return fmt.Errorf("watch %s: %w", cfg.configFile, err)
		}
		defer func() { _ = r.Stop() }()
		updates = r.Updates()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	// ---- Prometheus metrics ----
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: cfg.metricsAddr, Handler: mux}
	g.Go(func() error {
		level.Info(logger).Log("msg", "metrics: serving", "addr", cfg.metricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return srv.Close()
	})

	// ---- Load generation (single owner of the cache) ----
	var rep report
	g.Go(func() error {
		defer cancel()
		rep = workload(gctx, c, cfg, updates, metrics, logger)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	hitRate := 0.0
	if rep.reads > 0 {
		hitRate = float64(rep.hits) / float64(rep.reads) * 100
	}
	fmt.Printf("maxcost=%d itemcost=%d keys=%d dur=%v seed=%d\n",
		c.MaxCost(), cfg.maxItemCost, cfg.keys, rep.elapsed, cfg.seed)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d  rejected=%d\n",
		rep.ops, float64(rep.ops)/rep.elapsed.Seconds(), rep.reads, rep.writes, rep.rejected)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", rep.hits, rep.misses, hitRate)
	fmt.Printf("Len()=%d TotalCost()=%d\n", c.Len(), c.TotalCost())
	return nil
}

// workload drives c until the deadline passes or ctx is done. It is the only
// goroutine that touches c.
func workload(ctx context.Context, c *cache.Cache[string, string], cfg config, updates <-chan int64, metrics *pmet.Adapter, logger log.Logger) report {
	r := rand.New(rand.NewSource(cfg.seed))
	zipf := rand.NewZipf(r, cfg.zipfS, cfg.zipfV, uint64(cfg.keys-1))
	key := func() string { return "k:" + strconv.FormatUint(zipf.Uint64(), 10) }

	// ---- Preload half the budget to get a realistic hit-rate ----
	pl := cfg.preload
	if pl == 0 {
		pl = int(c.MaxCost() / 2)
	}
	for i := 0; i < pl; i++ {
		v := "v" + strconv.Itoa(i)
		c.Put("k:"+strconv.Itoa(i), &v)
	}

	var rep report
	start := time.Now()
	deadline := timecache.CachedTimeNano() + int64(cfg.duration)
	for {
		// Cheap checks every 1024 ops; the cached clock avoids a syscall per loop.
		if rep.ops&1023 == 0 {
			if ctx.Err() != nil || timecache.CachedTimeNano() >= deadline {
				break
			}
			select {
			case maxCost := <-updates:
				before := c.Len()
				if err := c.SetMaxCost(maxCost); err != nil {
					level.Warn(logger).Log("msg", "budget reload rejected", "err", err)
					break
				}
				metrics.SetMaxCost(maxCost)
				level.Info(logger).Log("msg", "cache budget applied", "max_cost", maxCost, "evicted", before-c.Len())
			default:
			}
		}

		rep.ops++
		if r.Intn(100) < cfg.readPct {
			rep.reads++
			if _, ok := c.Get(key()); ok {
				rep.hits++
			} else {
				rep.misses++
			}
			continue
		}
		rep.writes++
		v := "v" + strconv.Itoa(r.Int())
		if _, ok := c.PutWithCost(key(), &v, int64(1+r.Intn(cfg.maxItemCost))); !ok {
			rep.rejected++
		}
	}
	rep.elapsed = time.Since(start)
	return rep
}
