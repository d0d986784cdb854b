package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hilamalka1/onboard-api/internal/bootstrap"
	"github.com/hilamalka1/onboard-api/internal/models"
	"github.com/hilamalka1/onboard-api/pkg/config"
)

func newContainer(t *testing.T) *bootstrap.Container {
	t.Helper()
	cfg := &config.Config{
		Env:       config.EnvDevelopment,
		Store:     config.StoreConfig{Driver: config.StoreDriverFile},
		FileStore: config.FileStoreConfig{Dir: t.TempDir()},
		Cache:     config.CacheConfig{TTL: time.Minute},
		JWT:       config.JWTConfig{Secret: "seed", Expiration: time.Hour},
	}
	c, err := bootstrap.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c
}

func servicesOf(c *bootstrap.Container) Services {
	return Services{
		Students:    c.Students,
		Courses:     c.Courses,
		Assignments: c.Assignments,
		Exams:       c.Exams,
		Events:      c.Events,
	}
}

func TestSeederRun(t *testing.T) {
	c := newContainer(t)
	ctx := context.Background()

	res, err := New(servicesOf(c), nil).Run(ctx, Options{Students: 12, Courses: 4, Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, Result{Students: 12, Courses: 4, Assignments: 4, Exams: 4, Events: 4}, res)

	students, page, err := c.Students.List(ctx, models.StudentFilter{Page: 1, PageSize: 100})
	require.NoError(t, err)
	assert.Len(t, students, 12)
	assert.Equal(t, 12, page.TotalCount)

	courses, _, err := c.Courses.List(ctx, models.CourseFilter{Page: 1, PageSize: 100})
	require.NoError(t, err)
	require.Len(t, courses, 4)
	for _, course := range courses {
		assert.NotEmpty(t, course.EnrolledStudents)
		for _, entry := range course.EnrolledStudents {
			assert.Equal(t, entry.Grade != nil && *entry.Grade >= 60, entry.Completed)
			assert.NotEmpty(t, entry.FirstName)
		}
	}
}

func TestSeederRunSkipsExistingRecords(t *testing.T) {
	c := newContainer(t)
	ctx := context.Background()
	seeder := New(servicesOf(c), nil)

	_, err := seeder.Run(ctx, Options{Students: 5, Courses: 2, Seed: 1})
	require.NoError(t, err)

	res, err := seeder.Run(ctx, Options{Students: 5, Courses: 2, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Students)
	assert.Equal(t, 0, res.Courses)
	assert.Equal(t, 7, res.Skipped)
	assert.Equal(t, 0, res.Assignments)
	// all, degree and students audiences still resolve against the existing students
	assert.Equal(t, 3, res.Events)
}

func TestSeederRunEmpty(t *testing.T) {
	c := newContainer(t)

	res, err := New(servicesOf(c), zap.NewNop()).Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, Result{Events: 1}, res)
}
