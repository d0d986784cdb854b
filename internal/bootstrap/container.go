// Package bootstrap wires configuration, stores, cache and services into one container.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/hilamalka1/onboard-api/internal/handler"
	"github.com/hilamalka1/onboard-api/internal/repository"
	"github.com/hilamalka1/onboard-api/internal/repository/filestore"
	"github.com/hilamalka1/onboard-api/internal/repository/mongostore"
	"github.com/hilamalka1/onboard-api/internal/service"
	"github.com/hilamalka1/onboard-api/pkg/cache"
	"github.com/hilamalka1/onboard-api/pkg/config"
	"github.com/hilamalka1/onboard-api/pkg/database"
	"github.com/hilamalka1/onboard-api/pkg/jobs"
	"github.com/hilamalka1/onboard-api/pkg/validation"
)

const invalidationRetries = 3

// Stores groups the entity repositories of one backend.
type Stores struct {
	Students    service.StudentRepository
	Courses     service.CourseRepository
	Assignments service.AssignmentRepository
	Exams       service.ExamRepository
	Events      service.EventRepository
}

// Container holds every long lived dependency of the API and the seed CLI.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Stores       Stores
	Metrics      *service.MetricsService
	Cache        *service.CacheService
	Invalidation *service.InvalidationService

	Auth        *service.AuthService
	Students    *service.StudentService
	Courses     *service.CourseService
	Assignments *service.AssignmentService
	Exams       *service.ExamService
	Events      *service.EventService
	Progress    *service.ProgressService
	Exports     *service.ExportService

	// Checks are probed by the readiness endpoint.
	Checks map[string]handler.HealthCheck

	queue   *jobs.Queue
	closers []func(context.Context) error
}

// New connects the configured store and cache and builds the services on top of them.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: service.NewMetricsService(),
		Checks:  map[string]handler.HealthCheck{},
	}

	stores, err := c.openStores(ctx)
	if err != nil {
		_ = c.Close(context.Background())
		return nil, err
	}
	c.Stores = stores

	c.setupCache(ctx)

	validator := validation.New()
	c.Auth = service.NewAuthService(validator, logger, service.AuthConfig{
		AdminEmail:        cfg.Auth.AdminEmail,
		AdminPasswordHash: cfg.Auth.AdminPasswordHash,
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	c.Students = service.NewStudentService(stores.Students, validator, c.Invalidation, logger)
	c.Courses = service.NewCourseService(stores.Courses, stores.Students, validator, c.Invalidation, logger)
	c.Assignments = service.NewAssignmentService(stores.Assignments, validator, c.Invalidation, logger)
	c.Exams = service.NewExamService(stores.Exams, validator, c.Invalidation, logger)
	c.Events = service.NewEventService(stores.Events, validator, c.Invalidation, logger)
	c.Progress = service.NewProgressService(service.ProgressServiceParams{
		Students:    stores.Students,
		Courses:     stores.Courses,
		Assignments: stores.Assignments,
		Exams:       stores.Exams,
		Events:      stores.Events,
		Cache:       c.Cache,
		Metrics:     c.Metrics,
		Logger:      logger,
		Config:      service.ProgressServiceConfig{CacheTTL: cfg.Cache.TTL},
	})
	c.Exports = service.NewExportService(c.Courses, c.Progress, logger)

	return c, nil
}

func (c *Container) openStores(ctx context.Context) (Stores, error) {
	switch c.Config.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, c.Config.Database)
		if err != nil {
			return Stores{}, err
		}
		c.onClose(func(context.Context) error { return db.Close() })
		c.Checks["store"] = db.PingContext
		return postgresStores(db), nil
	case config.StoreDriverMongo:
		client, db, err := database.NewMongo(ctx, c.Config.Mongo)
		if err != nil {
			return Stores{}, err
		}
		c.onClose(client.Disconnect)
		c.Checks["store"] = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			return Stores{}, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		return mongoStores(db), nil
	case config.StoreDriverFile:
		store, err := filestore.Open(c.Config.FileStore.Dir)
		if err != nil {
			return Stores{}, err
		}
		return fileStores(store), nil
	default:
		return Stores{}, fmt.Errorf("unsupported store driver %q", c.Config.Store.Driver)
	}
}

func postgresStores(db *sqlx.DB) Stores {
	return Stores{
		Students:    repository.NewStudentRepository(db),
		Courses:     repository.NewCourseRepository(db),
		Assignments: repository.NewAssignmentRepository(db),
		Exams:       repository.NewExamRepository(db),
		Events:      repository.NewEventRepository(db),
	}
}

func mongoStores(db *mongo.Database) Stores {
	return Stores{
		Students:    mongostore.NewStudentRepository(db),
		Courses:     mongostore.NewCourseRepository(db),
		Assignments: mongostore.NewAssignmentRepository(db),
		Exams:       mongostore.NewExamRepository(db),
		Events:      mongostore.NewEventRepository(db),
	}
}

func fileStores(store *filestore.Store) Stores {
	return Stores{
		Students:    filestore.NewStudentRepository(store),
		Courses:     filestore.NewCourseRepository(store),
		Assignments: filestore.NewAssignmentRepository(store),
		Exams:       filestore.NewExamRepository(store),
		Events:      filestore.NewEventRepository(store),
	}
}

// setupCache connects Redis when caching is enabled. An unreachable Redis disables caching.
func (c *Container) setupCache(ctx context.Context) {
	var client redis.UniversalClient
	if c.Config.Cache.Enabled {
		rdb, err := cache.NewRedis(ctx, c.Config.Redis)
		if err != nil {
			c.Logger.Warn("redis unavailable, projection cache disabled", zap.Error(err))
		} else {
			client = rdb
			c.onClose(func(context.Context) error { return rdb.Close() })
			c.Checks["cache"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	c.Cache = service.NewCacheService(repository.NewCacheRepository(client), c.Metrics, c.Config.Cache.TTL, c.Logger, client != nil)
	c.Invalidation = service.NewInvalidationService(c.Cache, c.Logger)
	if client == nil {
		return
	}

	c.queue = jobs.NewQueue("cache-invalidation", c.Invalidation.Handle, jobs.QueueConfig{
		Workers:    c.Config.Cache.InvalidationWorkers,
		MaxRetries: invalidationRetries,
		Logger:     c.Logger,
	})
	c.queue.Start(context.Background())
	c.Invalidation.UseQueue(c.queue)
}

func (c *Container) onClose(fn func(context.Context) error) {
	c.closers = append(c.closers, fn)
}

// Close stops background workers and releases connections in reverse order of creation.
func (c *Container) Close(ctx context.Context) error {
	if c.queue != nil {
		c.queue.Stop()
		c.queue = nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
