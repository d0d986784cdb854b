package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/hilamalka1/onboard-api/pkg/errors"
	"github.com/hilamalka1/onboard-api/pkg/jobs"
)

var errCacheMiss = appErrors.ErrCacheMiss

func copyInto(value, dest interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func TestCacheServiceDisabledIsAlwaysMiss(t *testing.T) {
	repo := newMockCacheRepo()
	svc := NewCacheService(repo, nil, 0, nil, false)

	require.NoError(t, svc.Set(context.Background(), "onboard:k", "v", 0))
	var out string
	hit, err := svc.Get(context.Background(), "onboard:k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, repo.store)
}

func TestCacheServiceHitMissAndMetrics(t *testing.T) {
	repo := newMockCacheRepo()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, 0, zap.NewNop(), true)

	var out map[string]int
	hit, err := svc.Get(context.Background(), "onboard:k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(context.Background(), "onboard:k", map[string]int{"a": 1}, 0))
	hit, err = svc.Get(context.Background(), "onboard:k", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, out["a"])

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(1), snapshot.CacheMisses)
	assert.InDelta(t, 0.5, snapshot.CacheHitRatio, 0.0001)
}

func TestCacheServiceGetSurfacesBackendErrors(t *testing.T) {
	repo := newMockCacheRepo()
	repo.getErr = errors.New("connection reset")
	svc := NewCacheService(repo, nil, 0, zap.NewNop(), true)

	var out string
	hit, err := svc.Get(context.Background(), "onboard:k", &out)
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestInvalidationServiceEnqueues(t *testing.T) {
	repo := newMockCacheRepo()
	cacheSvc := NewCacheService(repo, nil, 0, zap.NewNop(), true)
	queue := &mockQueue{}
	svc := NewInvalidationService(cacheSvc, zap.NewNop())
	svc.UseQueue(queue)

	svc.ProjectionsChanged(context.Background(), "student created")
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, JobTypeInvalidateProjections, queue.jobs[0].Type)
	assert.Equal(t, "student created", queue.jobs[0].Payload)
	assert.Empty(t, repo.deleted, "the worker does the deleting")

	require.NoError(t, svc.Handle(context.Background(), queue.jobs[0]))
	assert.Equal(t, []string{ProjectionPattern}, repo.deleted)
}

func TestInvalidationServiceDropsProjectionsComputedBeforeWrite(t *testing.T) {
	repo := newMockCacheRepo()
	cacheSvc := NewCacheService(repo, nil, 0, zap.NewNop(), true)
	svc := NewInvalidationService(cacheSvc, zap.NewNop())
	svc.UseQueue(&mockQueue{})

	before := cacheSvc.Generation()
	svc.ProjectionsChanged(context.Background(), "course updated")

	require.NoError(t, cacheSvc.SetIfCurrent(context.Background(), "onboard:progress:s1", "old", 0, before))
	assert.NotContains(t, repo.store, "onboard:progress:s1")

	require.NoError(t, cacheSvc.SetIfCurrent(context.Background(), "onboard:progress:s1", "new", 0, cacheSvc.Generation()))
	assert.Contains(t, repo.store, "onboard:progress:s1")
}

func TestInvalidationServiceFallsBackInlineWhenQueueFull(t *testing.T) {
	repo := newMockCacheRepo()
	cacheSvc := NewCacheService(repo, nil, 0, zap.NewNop(), true)
	svc := NewInvalidationService(cacheSvc, zap.NewNop())
	svc.UseQueue(&mockQueue{err: jobs.ErrQueueFull})

	svc.ProjectionsChanged(context.Background(), "course updated")
	assert.Equal(t, []string{ProjectionPattern}, repo.deleted)
}

func TestInvalidationServiceSkipsWhenCacheDisabled(t *testing.T) {
	repo := newMockCacheRepo()
	queue := &mockQueue{}
	svc := NewInvalidationService(NewCacheService(repo, nil, 0, nil, false), nil)
	svc.UseQueue(queue)

	svc.ProjectionsChanged(context.Background(), "event deleted")
	assert.Empty(t, queue.jobs)
	assert.Empty(t, repo.deleted)
}

func TestInvalidationServiceWithRealQueue(t *testing.T) {
	repo := newMockCacheRepo()
	repo.store["onboard:summary:2026-01-01"] = "x"
	metrics := NewMetricsService()
	cacheSvc := NewCacheService(repo, metrics, 0, zap.NewNop(), true)
	svc := NewInvalidationService(cacheSvc, zap.NewNop())

	done := make(chan struct{})
	queue := jobs.NewQueue("invalidation", func(ctx context.Context, job jobs.Job) error {
		defer close(done)
		return svc.Handle(ctx, job)
	}, jobs.QueueConfig{Workers: 1})
	queue.Start(context.Background())
	defer queue.Stop()
	svc.UseQueue(queue)

	svc.ProjectionsChanged(context.Background(), "grade changed")
	<-done
	assert.Equal(t, uint64(1), metrics.Snapshot().CacheInvalidations)
}
