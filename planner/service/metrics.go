package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wricardo/mcp-training/roadroute/pathfind"
)

// Query sources used as metric labels
const (
	sourceStateless = "stateless"
	sourceSession   = "session"
	sourceNearest   = "nearest"
)

var (
	// routeQueryTotal counts route queries by outcome
	routeQueryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadroute_route_queries_total",
		Help: "Total route queries by outcome and source",
	}, []string{"outcome", "source"})

	// routeQueryDuration tracks route query latency
	routeQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roadroute_route_query_duration_seconds",
		Help:    "Route query duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 16), // 10us to ~330ms
	}, []string{"source"})

	// routeCacheLookups counts result cache hits and misses
	routeCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadroute_route_cache_lookups_total",
		Help: "Total result cache lookups by result",
	}, []string{"result"}) // "hit" or "miss"

	// routeSteps tracks the length of found routes
	routeSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "roadroute_route_steps",
		Help:    "Number of steps in found routes",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
	})

	// cacheEntries tracks the size of the result cache
	cacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roadroute_route_cache_entries",
		Help: "Number of paths held by the result cache",
	})

	// searchesStopped counts stop requests that hit a running search
	searchesStopped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roadroute_searches_stopped_total",
		Help: "Total running searches stopped on request",
	})
)

// observeQuery records one resolved query
func observeQuery(source string, result pathfind.Result, duration time.Duration, cache *pathfind.Cache) {
	routeQueryDuration.WithLabelValues(source).Observe(duration.Seconds())
	routeQueryTotal.WithLabelValues(result.Outcome.String(), source).Inc()

	if result.Outcome != pathfind.OutcomeTrivial {
		if result.Cached {
			routeCacheLookups.WithLabelValues("hit").Inc()
		} else {
			routeCacheLookups.WithLabelValues("miss").Inc()
		}
	}
	if len(result.Path) > 0 {
		routeSteps.Observe(float64(len(result.Path) - 1))
	}
	if cache != nil {
		cacheEntries.Set(float64(cache.Len()))
	}
}
