package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Lookup and invalidation outcomes used as the "result" label
const (
	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultCorrupt = "corrupt"
	ResultError   = "error"
	ResultOK      = "ok"
)

// Metrics groups the cache counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	lookups        *prometheus.CounterVec
	invalidations  *prometheus.CounterVec
	existsShortcut *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_cache_lookups_total",
			Help: "Cache lookups by entity and result.",
		}, []string{"entity", "result"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_cache_invalidations_total",
			Help: "Cache key invalidations by entity and result.",
		}, []string{"entity", "result"}),
		existsShortcut: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_cache_exists_shortcuts_total",
			Help: "Existence checks answered from the cache without querying the store.",
		}, []string{"entity"}),
	}

	reg.MustRegister(m.lookups, m.invalidations, m.existsShortcut)
	return m
}

func (m *Metrics) lookup(entity, result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(entity, result).Inc()
}

func (m *Metrics) invalidation(entity, result string) {
	if m == nil {
		return
	}
	m.invalidations.WithLabelValues(entity, result).Inc()
}

// ExistsShortcut records an existence check answered from the cache
func (m *Metrics) ExistsShortcut(entity string) {
	if m == nil {
		return
	}
	m.existsShortcut.WithLabelValues(entity).Inc()
}
