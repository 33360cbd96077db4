// Command bench runs a synthetic memoization workload and exposes optional
// pprof/Prometheus endpoints.
package main

import (
	"context"
	"flag"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/IvanBrykalov/memoize/expire"
	"github.com/IvanBrykalov/memoize/memo"
	pmet "github.com/IvanBrykalov/memoize/metrics/prom"
)

type upstream struct {
	latency time.Duration
	calls   atomic.Uint64
}

func (u *upstream) fetch(key string) string {
	u.calls.Add(1)
	if u.latency > 0 {
		time.Sleep(u.latency)
	}
	return "v:" + key
}

func main() {
	// ---- Flags ----
	var (
		mode    = flag.String("mode", "memo", "workload: memo | expire")
		workers = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		dur     = flag.Duration("duration", 10*time.Second, "benchmark duration")

		keys    = flag.Int("keys", 100_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		latency = flag.Duration("latency", 0, "simulated upstream latency per miss")
		unused  = flag.Duration("unused", time.Second, "idle period for -mode=expire")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	log, _ := zap.NewProduction()
	defer func() { _ = log.Sync() }()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Info("pprof: serving", zap.String("addr", *pprofAddr))
			log.Error("pprof server exited", zap.Error(http.ListenAndServe(*pprofAddr, nil)))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Info("metrics: serving", zap.String("addr", *metricsAddr))
		log.Error("metrics server exited", zap.Error(http.ListenAndServe(*metricsAddr, nil)))
	}()

	up := &upstream{latency: *latency}

	// ---- Build the workload under test ----
	var call func(ctx context.Context, key string) (string, error)
	switch *mode {
	case "memo":
		m := pmet.New(nil, "memoize", "bench", nil)
		wrapped := memo.Wrap(func(_ context.Context, u *upstream, k string) (string, error) {
			return u.fetch(k), nil
		}, memo.Options[string]{Policy: memo.Policy{Metrics: m}})
		call = func(ctx context.Context, key string) (string, error) {
			return wrapped(ctx, up, key)
		}
	case "expire":
		m := pmet.NewExpiry(nil, "memoize", "bench", nil)
		c := expire.New[string, string](expire.Options[string, string]{
			Unused:  *unused,
			Metrics: m,
		})
		defer func() { _ = c.Close() }()
		call = func(ctx context.Context, key string) (string, error) {
			return c.GetOrLoad(ctx, key, func(context.Context) (string, error) {
				return up.fetch(key), nil
			})
		}
	default:
		log.Fatal("unknown mode (use memo or expire)", zap.String("mode", *mode))
	}

	// ---- Snapshot flags for goroutines ----
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	zipfSVal := *zipfS
	zipfVVal := *zipfV
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	var total, failures uint64
	ctx, cancel := context.WithTimeout(context.Background(), *dur)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(workersN)
	for w := 0; w < workersN; w++ {
		go func(id int) {
			defer wg.Done()

			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)

			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddUint64(&total, 1)
				k := "k:" + strconv.FormatUint(localZipf.Uint64(), 10)
				if _, err := call(ctx, k); err != nil && ctx.Err() == nil {
					atomic.AddUint64(&failures, 1)
				}
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	// ---- Report ----
	ops := atomic.LoadUint64(&total)
	log.Info("done",
		zap.String("mode", *mode),
		zap.Int("workers", workersN),
		zap.Int("keys", *keys),
		zap.Duration("elapsed", elapsed),
		zap.Int64("seed", seedBase),
		zap.Uint64("ops", ops),
		zap.Float64("ops_per_sec", float64(ops)/elapsed.Seconds()),
		zap.Uint64("upstream_calls", up.calls.Load()),
		zap.Uint64("failures", atomic.LoadUint64(&failures)),
	)
}
