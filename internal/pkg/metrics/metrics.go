// Package metrics
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pagelens_fetch_duration_seconds",
			Help:    "Duration of metadata fetches in seconds, labeled by fetch method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagelens_fetch_total",
			Help: "Total number of fetches, labeled by fetch method and outcome.",
		},
		[]string{"method", "outcome"},
	)
	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pagelens_cache_hits_total",
			Help: "Total number of cache hits.",
		},
	)
	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pagelens_cache_misses_total",
			Help: "Total number of cache misses.",
		},
	)
	RenderPagesOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pagelens_render_pages_open",
			Help: "Number of currently open browser pages.",
		},
	)
	SingleflightShared = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pagelens_singleflight_shared_total",
			Help: "Total number of fetches that shared an in-flight result.",
		},
	)
)

// FetchTimer tracks the duration and outcome of one fetch
type FetchTimer struct {
	method string
	start  time.Time
}

func NewFetchTimer(method string) *FetchTimer {
	return &FetchTimer{method: method, start: time.Now()}
}

// Done records the elapsed time and increments the outcome counter. A fetch
// that produced warnings counts as "partial" rather than "ok".
func (t *FetchTimer) Done(clean bool) {
	FetchDuration.WithLabelValues(t.method).Observe(time.Since(t.start).Seconds())
	outcome := "ok"
	if !clean {
		outcome = "partial"
	}
	FetchTotal.WithLabelValues(t.method, outcome).Inc()
}

func init() {
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(FetchTotal)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(RenderPagesOpen)
	prometheus.MustRegister(SingleflightShared)
}
