package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hilamalka1/onboard-api/pkg/cache"
	"github.com/hilamalka1/onboard-api/pkg/jobs"
)

// JobTypeInvalidateProjections drops every cached projection.
const JobTypeInvalidateProjections = "invalidate_projections"

// ProjectionPattern matches every key written by ProgressService.
const ProjectionPattern = cache.KeyPrefix + "*"

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// InvalidationService turns mutations into background cache invalidation jobs.
type InvalidationService struct {
	cache  *CacheService
	queue  jobEnqueuer
	logger *zap.Logger
}

// NewInvalidationService constructs the service. Attach a queue with UseQueue once it exists.
func NewInvalidationService(cacheSvc *CacheService, logger *zap.Logger) *InvalidationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvalidationService{cache: cacheSvc, logger: logger}
}

// UseQueue routes invalidation through queue instead of running it inline.
func (s *InvalidationService) UseQueue(queue jobEnqueuer) {
	s.queue = queue
}

// ProjectionsChanged schedules removal of cached projections. It never fails the caller.
func (s *InvalidationService) ProjectionsChanged(ctx context.Context, reason string) {
	if s == nil || !s.cache.Enabled() {
		return
	}
	// synchronous, so in-flight projections see the write before the drop job runs
	s.cache.MarkStale()
	if s.queue == nil {
		if err := s.Handle(ctx, jobs.Job{Type: JobTypeInvalidateProjections, Payload: reason}); err != nil {
			s.logger.Warn("inline cache invalidation failed", zap.String("reason", reason), zap.Error(err))
		}
		return
	}
	err := s.queue.Enqueue(jobs.Job{Type: JobTypeInvalidateProjections, Payload: reason})
	if err == nil {
		return
	}
	if errors.Is(err, jobs.ErrQueueFull) {
		s.logger.Warn("invalidation queue full, invalidating inline", zap.String("reason", reason))
	} else {
		s.logger.Warn("enqueue invalidation failed, invalidating inline", zap.String("reason", reason), zap.Error(err))
	}
	if err := s.Handle(ctx, jobs.Job{Type: JobTypeInvalidateProjections, Payload: reason}); err != nil {
		s.logger.Warn("inline cache invalidation failed", zap.String("reason", reason), zap.Error(err))
	}
}

// Handle is the jobs.Handler for invalidation jobs.
func (s *InvalidationService) Handle(ctx context.Context, job jobs.Job) error {
	removed, err := s.cache.Invalidate(ctx, ProjectionPattern)
	if err != nil {
		return err
	}
	s.logger.Debug("projections invalidated",
		zap.String("job_id", job.ID),
		zap.Any("reason", job.Payload),
		zap.Int("keys", removed),
	)
	return nil
}
