package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hilamalka1/onboard-api/internal/models"
)

// MetricsService owns the Prometheus registry and keeps running totals for the JSON snapshot.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	cacheLatency       prometheus.Observer
	cacheWrite         prometheus.Observer
	cacheHitRatio      prometheus.Gauge
	cacheLookups       *prometheus.CounterVec
	cacheInvalidations prometheus.Counter
	storeDuration      *prometheus.HistogramVec

	cacheHitCount     uint64
	cacheMissCount    uint64
	invalidationCount uint64
	requestCount      uint64
	requestNanos      uint64
	storeQueryCount   uint64
	storeQueryNanos   uint64
}

// NewMetricsService registers the OnBoard collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "onboard",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "onboard",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "onboard",
		Name:      "cache_lookup_seconds",
		Help:      "Latency of projection cache lookups",
		Buckets:   prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "onboard",
		Name:      "cache_write_seconds",
		Help:      "Latency of projection cache writes",
		Buckets:   prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "onboard",
		Name:      "cache_hit_ratio",
		Help:      "Ratio of cache hits to total cache lookups",
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "onboard",
		Name:      "cache_lookups_total",
		Help:      "Projection cache lookups by result",
	}, []string{"result"})

	cacheInvalidations := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "onboard",
		Name:      "cache_invalidated_keys_total",
		Help:      "Projection keys dropped after mutations",
	})

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "onboard",
		Name:      "store_query_duration_seconds",
		Help:      "Duration of entity store reads used by projections",
		Buckets:   prometheus.DefBuckets,
	}, []string{"query"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "onboard",
		Name:      "goroutines",
		Help:      "Number of live goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheLookups, cacheInvalidations, storeDuration, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		cacheLatency:       cacheLatency,
		cacheWrite:         cacheWrite,
		cacheHitRatio:      cacheHitRatio,
		cacheLookups:       cacheLookups,
		cacheInvalidations: cacheInvalidations,
		storeDuration:      storeDuration,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one handled request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	label := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, label).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, label).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestNanos, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records a cache lookup and refreshes the hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheLookups.WithLabelValues("miss").Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	total := hits + atomic.LoadUint64(&m.cacheMissCount)
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration of a cache write.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordInvalidation counts keys dropped by an invalidation job.
func (m *MetricsService) RecordInvalidation(keys int) {
	if m == nil || keys <= 0 {
		return
	}
	m.cacheInvalidations.Add(float64(keys))
	atomic.AddUint64(&m.invalidationCount, uint64(keys))
}

// ObserveDBQuery records the duration of a store read.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(label).Observe(duration.Seconds())
	atomic.AddUint64(&m.storeQueryCount, 1)
	atomic.AddUint64(&m.storeQueryNanos, uint64(duration.Nanoseconds()))
}

// Snapshot returns aggregated totals for the metrics JSON endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	storeCount := atomic.LoadUint64(&m.storeQueryCount)

	var ratio float64
	if hits+misses > 0 {
		ratio = float64(hits) / float64(hits+misses)
	}

	return models.SystemMetrics{
		CacheHitRatio:               ratio,
		CacheHits:                   hits,
		CacheMisses:                 misses,
		CacheInvalidations:          atomic.LoadUint64(&m.invalidationCount),
		RequestsTotal:               requests,
		AverageRequestDurationMs:    averageMillis(atomic.LoadUint64(&m.requestNanos), requests),
		StoreQueryCount:             storeCount,
		AverageStoreQueryDurationMs: averageMillis(atomic.LoadUint64(&m.storeQueryNanos), storeCount),
		Goroutines:                  runtime.NumGoroutine(),
		GeneratedAt:                 time.Now().UTC(),
	}
}

func averageMillis(totalNanos, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return float64(totalNanos) / float64(count) / float64(time.Millisecond)
}
