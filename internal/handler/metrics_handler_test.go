package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/hilamalka1/onboard-api/internal/service"
)

func TestMetricsHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.ObserveHTTPRequest(http.MethodGet, "/students", http.StatusOK, 5*time.Millisecond)
	h := NewMetricsHandler(metrics, nil)
	r := newEngine()
	r.GET("/metrics", h.Prometheus)

	rec, _ := perform(t, r, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "onboard_http_requests_total")
}

func TestMetricsHandlerPrometheusUnavailable(t *testing.T) {
	r := newEngine()
	r.GET("/metrics", NewMetricsHandler(nil, nil).Prometheus)

	rec, _ := perform(t, r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// called directly, the status must reach the recorder without gin's deferred flush
	gin.SetMode(gin.TestMode)
	direct := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(direct)
	c.Request = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	NewMetricsHandler(nil, nil).Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, direct.Code)
}

func TestMetricsHandlerReady(t *testing.T) {
	checks := map[string]HealthCheck{
		"store": func(context.Context) error { return nil },
	}
	r := newEngine()
	r.GET("/ready", NewMetricsHandler(nil, checks).Ready)

	rec, _ := perform(t, r, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store":"ok"`)

	checks["cache"] = func(context.Context) error { return errors.New("connection refused") }
	rec, _ = perform(t, r, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, rec.Body.String(), `"status":"unavailable"`)
}

func TestMetricsHandlerSystemSnapshot(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordCacheOperation(true, time.Millisecond)
	metrics.RecordCacheOperation(false, time.Millisecond)
	r := newEngine()
	r.GET("/dashboard/metrics", NewMetricsHandler(metrics, nil).System)

	rec, _ := perform(t, r, http.MethodGet, "/dashboard/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cacheHitRatio":0.5`)
}
