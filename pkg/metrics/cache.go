package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics tracks query cache effectiveness per resource family.
type CacheMetrics struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	if reg == nil {
		return &CacheMetrics{}
	}
	hits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "querycache_hits_total",
		Help: "Reads served from a fresh cache entry.",
	}, []string{"resource"})
	misses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "querycache_misses_total",
		Help: "Reads that required a fetch from the backend.",
	}, []string{"resource"})
	invalidations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "querycache_invalidations_total",
		Help: "Cache entries marked stale after a mutation.",
	}, []string{"resource"})
	reg.MustRegister(hits, misses, invalidations)
	return &CacheMetrics{hits: hits, misses: misses, invalidations: invalidations}
}

func (c *CacheMetrics) IncHit(resource string) {
	if c == nil || c.hits == nil {
		return
	}
	c.hits.WithLabelValues(normalizeLabel(resource)).Inc()
}

func (c *CacheMetrics) IncMiss(resource string) {
	if c == nil || c.misses == nil {
		return
	}
	c.misses.WithLabelValues(normalizeLabel(resource)).Inc()
}

func (c *CacheMetrics) IncInvalidation(resource string) {
	if c == nil || c.invalidations == nil {
		return
	}
	c.invalidations.WithLabelValues(normalizeLabel(resource)).Inc()
}
