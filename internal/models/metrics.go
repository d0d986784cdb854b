package models

import "time"

// SystemMetrics is a point-in-time summary of process instrumentation.
type SystemMetrics struct {
	CacheHitRatio               float64   `json:"cacheHitRatio"`
	CacheHits                   uint64    `json:"cacheHits"`
	CacheMisses                 uint64    `json:"cacheMisses"`
	CacheInvalidations          uint64    `json:"cacheInvalidations"`
	RequestsTotal               uint64    `json:"requestsTotal"`
	AverageRequestDurationMs    float64   `json:"averageRequestDurationMs"`
	StoreQueryCount             uint64    `json:"storeQueryCount"`
	AverageStoreQueryDurationMs float64   `json:"averageStoreQueryDurationMs"`
	Goroutines                  int       `json:"goroutines"`
	GeneratedAt                 time.Time `json:"generatedAt"`
}
