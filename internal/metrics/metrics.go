// Package metrics records build-cache and render activity via Prometheus.
package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the pipeline's Prometheus metrics. A nil Recorder is valid
// and records nothing.
type Recorder struct {
	cacheHits   prom.Counter
	cacheMisses prom.Counter
	compiles    prom.Counter
	renders     *prom.CounterVec
}

// NewRecorder constructs and registers the pipeline metrics on the given
// registry (a fresh registry when nil).
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		cacheHits: prom.NewCounter(prom.CounterOpts{
			Namespace: "bale",
			Name:      "cache_hits_total",
			Help:      "Build cache hits",
		}),
		cacheMisses: prom.NewCounter(prom.CounterOpts{
			Namespace: "bale",
			Name:      "cache_misses_total",
			Help:      "Build cache misses",
		}),
		compiles: prom.NewCounter(prom.CounterOpts{
			Namespace: "bale",
			Name:      "compiles_total",
			Help:      "Compile+store operations performed",
		}),
		renders: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "bale",
			Name:      "render_calls_total",
			Help:      "Render calls by asset kind",
		}, []string{"kind"}),
	}
	reg.MustRegister(r.cacheHits, r.cacheMisses, r.compiles, r.renders)
	return r
}

// CacheHit counts a build-cache hit.
func (r *Recorder) CacheHit() {
	if r != nil {
		r.cacheHits.Inc()
	}
}

// CacheMiss counts a build-cache miss.
func (r *Recorder) CacheMiss() {
	if r != nil {
		r.cacheMisses.Inc()
	}
}

// Compile counts a compile+store operation.
func (r *Recorder) Compile() {
	if r != nil {
		r.compiles.Inc()
	}
}

// Render counts a render call for the kind.
func (r *Recorder) Render(kind string) {
	if r != nil {
		r.renders.WithLabelValues(kind).Inc()
	}
}
