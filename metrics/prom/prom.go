package prom

import (
	"github.com/IvanBrykalov/shardstore/store"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter implements store.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits     prometheus.Counter
	misses   prometheus.Counter
	expired  prometheus.Counter
	growth   *prometheus.CounterVec
	entries  prometheus.Gauge
	expiring prometheus.Gauge
	buckets  prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil), e.g. {"shard": "3"}
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Key lookups that found an entry",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Key lookups that found nothing",
			ConstLabels: constLabels,
		}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "expired_total",
			Help:        "Entries released by expiration",
			ConstLabels: constLabels,
		}),
		growth: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "growth_total",
				Help:        "Bucket array growth attempts by outcome",
				ConstLabels: constLabels,
			},
			[]string{"outcome"},
		),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of resident entries",
			ConstLabels: constLabels,
		}),
		expiring: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_expiring",
			Help:        "Number of resident entries with a deadline",
			ConstLabels: constLabels,
		}),
		buckets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "buckets",
			Help:        "Current bucket array length",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.expired, a.growth, a.entries, a.expiring, a.buckets)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Expired adds n released entries.
func (a *Adapter) Expired(n int) { a.expired.Add(float64(n)) }

// Size updates the entry gauges.
func (a *Adapter) Size(entries, expiring int) {
	a.entries.Set(float64(entries))
	a.expiring.Set(float64(expiring))
}

// Grow counts a growth attempt by outcome.
func (a *Adapter) Grow(_ int, ok bool) {
	a.growth.WithLabelValues(outcome(ok)).Inc()
}

// Buckets sets the bucket array gauge.
func (a *Adapter) Buckets(n int) { a.buckets.Set(float64(n)) }

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "skipped"
}

// Compile-time check: ensure Adapter implements store.Metrics.
var _ store.Metrics = (*Adapter)(nil)
