// Package prom exports memoization metrics to Prometheus.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/IvanBrykalov/memoize/expire"
	"github.com/IvanBrykalov/memoize/memo"
)

// Adapter implements memo.Metrics and exports Prometheus counters.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits   prometheus.Counter
	misses prometheus.Counter
	evicts *prometheus.CounterVec
}

// New constructs a Prometheus metrics adapter for a memoized member.
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:     Prometheus namespace and subsystem
//   - constLabels: static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Memoization hits",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Memoization misses",
			ConstLabels: constLabels,
		}),
		evicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "evictions_total",
				Help:        "Slot removals by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
	}
	reg.MustRegister(a.hits, a.misses, a.evicts)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Evict increments the eviction counter with a reason label.
func (a *Adapter) Evict(r memo.EvictReason) {
	a.evicts.WithLabelValues(reason(r)).Inc()
}

// reason maps EvictReason to a stable label value.
func reason(r memo.EvictReason) string {
	switch r {
	case memo.EvictSuccess:
		return "success"
	case memo.EvictCollected:
		return "collected"
	default:
		return "failure"
	}
}

// Compile-time check: ensure Adapter implements memo.Metrics.
var _ memo.Metrics = (*Adapter)(nil)

// ExpiryAdapter implements expire.Metrics for the inactivity cache.
type ExpiryAdapter struct {
	hits   prometheus.Counter
	misses prometheus.Counter
	evicts prometheus.Counter
}

// NewExpiry constructs a Prometheus metrics adapter for an expire.Cache.
// Parameters mirror New.
func NewExpiry(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *ExpiryAdapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &ExpiryAdapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Cache hits",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Cache misses",
			ConstLabels: constLabels,
		}),
		evicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "evictions_total",
			Help:        "Entries evicted after the idle period",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.evicts)
	return a
}

// Hit increments the hit counter.
func (a *ExpiryAdapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *ExpiryAdapter) Miss() { a.misses.Inc() }

// Evict increments the eviction counter.
func (a *ExpiryAdapter) Evict() { a.evicts.Inc() }

var _ expire.Metrics = (*ExpiryAdapter)(nil)
