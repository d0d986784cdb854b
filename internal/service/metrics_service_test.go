package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/students", 200, 20*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/students", 200, 40*time.Millisecond)
	m.ObserveDBQuery("courses.all", 5*time.Millisecond)
	m.RecordInvalidation(3)
	m.RecordInvalidation(0)

	snapshot := m.Snapshot()
	assert.Equal(t, uint64(2), snapshot.RequestsTotal)
	assert.InDelta(t, 30.0, snapshot.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(1), snapshot.StoreQueryCount)
	assert.Equal(t, uint64(3), snapshot.CacheInvalidations)
	assert.Positive(t, snapshot.Goroutines)
}

func TestMetricsServiceHandlerExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/courses", 201, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "onboard_http_requests_total"))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest(http.MethodGet, "/", 200, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	assert.Equal(t, uint64(0), m.Snapshot().RequestsTotal)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
