// Package metrics registers the process-wide Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// StoreLoads counts collection loads, by collection name.
	StoreLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_store_loads_total",
		Help: "Number of collection loads.",
	}, []string{"collection"})

	// StoreSaves counts full-collection rewrites.
	StoreSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_store_saves_total",
		Help: "Number of collection saves.",
	}, []string{"collection"})

	// CacheHits counts loads served from the side cache.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_store_cache_hits_total",
		Help: "Number of loads served from the collection cache.",
	}, []string{"collection"})

	// CacheMisses counts loads that decoded the source file.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_store_cache_misses_total",
		Help: "Number of loads that fell through to the source file.",
	}, []string{"collection"})

	// DecodeFailures counts malformed source or cache payloads.
	DecodeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_store_decode_failures_total",
		Help: "Number of undecodable source or cache payloads.",
	}, []string{"collection"})

	// StaleWrites counts saves rejected by revision mismatch.
	StaleWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_store_stale_writes_total",
		Help: "Number of saves rejected because the collection changed underneath.",
	}, []string{"collection"})

	// PrunedOrders counts orders removed by the retention pruner.
	PrunedOrders = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_pruned_orders_total",
		Help: "Number of orders deleted by the retention pruner.",
	})
)

// Handler exposes the default registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
