package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hilamalka1/onboard-api/internal/academic"
	"github.com/hilamalka1/onboard-api/internal/models"
	"github.com/hilamalka1/onboard-api/pkg/cache"
	appErrors "github.com/hilamalka1/onboard-api/pkg/errors"
	"github.com/hilamalka1/onboard-api/pkg/validation"
)

// ProgressServiceConfig tunes projection behaviour.
type ProgressServiceConfig struct {
	CacheTTL            time.Duration
	UpcomingHorizonDays int
}

// ProgressServiceParams groups constructor dependencies.
type ProgressServiceParams struct {
	Students    StudentRepository
	Courses     CourseRepository
	Assignments AssignmentRepository
	Exams       ExamRepository
	Events      EventRepository
	Cache       *CacheService
	Metrics     *MetricsService
	Logger      *zap.Logger
	Config      ProgressServiceConfig
}

// ProgressService composes the read-only student and administrator projections.
type ProgressService struct {
	students    StudentRepository
	courses     CourseRepository
	assignments AssignmentRepository
	exams       ExamRepository
	events      EventRepository
	cache       *CacheService
	metrics     *MetricsService
	logger      *zap.Logger
	now         func() time.Time
	cfg         ProgressServiceConfig
}

// NewProgressService constructs a ProgressService with defaults applied.
func NewProgressService(params ProgressServiceParams) *ProgressService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.UpcomingHorizonDays <= 0 {
		cfg.UpcomingHorizonDays = academic.UpcomingHorizonDays
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{
		students:    params.Students,
		courses:     params.Courses,
		assignments: params.Assignments,
		exams:       params.Exams,
		events:      params.Events,
		cache:       params.Cache,
		metrics:     params.Metrics,
		logger:      logger,
		now:         time.Now,
		cfg:         cfg,
	}
}

// Progress returns credits, eligibility and grades of one student, and whether it came from cache.
func (s *ProgressService) Progress(ctx context.Context, id string) (*models.StudentProgress, bool, error) {
	student, err := s.student(ctx, id)
	if err != nil {
		return nil, false, err
	}
	key := cache.Key("progress", student.ID)
	var cached models.StudentProgress
	hit, gen := s.tryCache(ctx, key, &cached)
	if hit {
		return &cached, true, nil
	}

	courses, err := s.allCourses(ctx)
	if err != nil {
		return nil, false, err
	}
	progress := academic.Progress(*student, courses)
	s.persistCache(ctx, key, progress, gen)
	return &progress, false, nil
}

// Feed returns the home screen of a student for semester. Empty or "All Year" spans every semester.
func (s *ProgressService) Feed(ctx context.Context, id, semester string) (*models.StudentFeed, bool, error) {
	semester = strings.TrimSpace(semester)
	if semester == "" {
		semester = models.SemesterAllYear
	}
	if semester != models.SemesterAllYear && !models.IsSemester(semester) {
		return nil, false, appErrors.Validation(map[string]string{"semester": "must be Semester A, Semester B, Summer or All Year"})
	}
	student, err := s.student(ctx, id)
	if err != nil {
		return nil, false, err
	}
	key := cache.Key("feed", student.ID, semester)
	var cached models.StudentFeed
	hit, gen := s.tryCache(ctx, key, &cached)
	if hit {
		return &cached, true, nil
	}

	courses, err := s.allCourses(ctx)
	if err != nil {
		return nil, false, err
	}
	events, err := timed(s, "events.all", func() ([]models.Event, error) { return s.events.All(ctx) })
	if err != nil {
		return nil, false, storeError(err, "events", "load")
	}
	exams, err := timed(s, "exams.all", func() ([]models.Exam, error) { return s.exams.All(ctx) })
	if err != nil {
		return nil, false, storeError(err, "exams", "load")
	}
	assignments, err := timed(s, "assignments.all", func() ([]models.Assignment, error) { return s.assignments.All(ctx) })
	if err != nil {
		return nil, false, storeError(err, "assignments", "load")
	}

	// Audience matching uses every enrolled course; the listing is limited to the semester.
	enrolled := academic.StudentCourses(student.StudentID, courses, "")
	inSemester := academic.StudentCourses(student.StudentID, courses, semester)
	applicable := academic.FilterEvents(events, *student, enrolled)
	courseExams, courseAssignments := academic.CourseworkFor(academic.CourseCodes(inSemester), exams, assignments)

	feed := models.StudentFeed{
		StudentID:   student.StudentID,
		Semester:    semester,
		Courses:     inSemester,
		Events:      applicable,
		Exams:       courseExams,
		Assignments: courseAssignments,
		Calendar:    academic.Calendar(applicable, courseExams, courseAssignments),
	}
	s.persistCache(ctx, key, feed, gen)
	return &feed, false, nil
}

// Summary returns the administrator dashboard.
func (s *ProgressService) Summary(ctx context.Context) (*models.AdminSummary, bool, error) {
	now := s.now()
	key := cache.Key("summary", models.NewDate(now).String())
	var cached models.AdminSummary
	hit, gen := s.tryCache(ctx, key, &cached)
	if hit {
		return &cached, true, nil
	}

	students, err := timed(s, "students.all", func() ([]models.Student, error) { return s.students.All(ctx) })
	if err != nil {
		return nil, false, storeError(err, "students", "load")
	}
	courses, err := s.allCourses(ctx)
	if err != nil {
		return nil, false, err
	}
	events, err := timed(s, "events.all", func() ([]models.Event, error) { return s.events.All(ctx) })
	if err != nil {
		return nil, false, storeError(err, "events", "load")
	}
	exams, err := timed(s, "exams.all", func() ([]models.Exam, error) { return s.exams.All(ctx) })
	if err != nil {
		return nil, false, storeError(err, "exams", "load")
	}
	assignments, err := timed(s, "assignments.all", func() ([]models.Assignment, error) { return s.assignments.All(ctx) })
	if err != nil {
		return nil, false, storeError(err, "assignments", "load")
	}

	summary := models.AdminSummary{
		GeneratedAt:       now.UTC(),
		TotalStudents:     len(students),
		TotalCourses:      len(courses),
		StudentsPerDegree: academic.StudentsPerDegree(students),
		Workload:          academic.Workload(exams, assignments, now),
		UpcomingEvents:    academic.UpcomingEvents(events, now, s.cfg.UpcomingHorizonDays),
	}
	s.persistCache(ctx, key, summary, gen)
	return &summary, false, nil
}

// student resolves a storage id, falling back to the 9 digit business key.
func (s *ProgressService) student(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err == nil {
		return student, nil
	}
	if errors.Is(err, models.ErrNotFound) && validation.IsStudentID(id) {
		student, err = s.students.FindByStudentID(ctx, id)
		if err == nil {
			return student, nil
		}
	}
	return nil, storeError(err, "student", "load")
}

func (s *ProgressService) allCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := timed(s, "courses.all", func() ([]models.Course, error) { return s.courses.All(ctx) })
	if err != nil {
		return nil, storeError(err, "courses", "load")
	}
	return courses, nil
}

// timed runs a store read and records its duration.
func timed[T any](s *ProgressService, label string, fn func() ([]T, error)) ([]T, error) {
	start := time.Now()
	items, err := fn()
	s.metrics.ObserveDBQuery(label, time.Since(start))
	if err != nil {
		s.logger.Error("projection read failed", zap.String("query", label), zap.Error(err))
	}
	return items, err
}

// tryCache reports a hit plus the cache generation observed before the lookup. Lookup failures
// fall through to recomputation.
func (s *ProgressService) tryCache(ctx context.Context, key string, dest interface{}) (bool, uint64) {
	if s.cache == nil {
		return false, 0
	}
	gen := s.cache.Generation()
	hit, err := s.cache.Get(ctx, key, dest)
	return err == nil && hit, gen
}

// persistCache stores value unless a write happened since gen was observed.
func (s *ProgressService) persistCache(ctx context.Context, key string, value interface{}, gen uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetIfCurrent(ctx, key, value, s.cfg.CacheTTL, gen); err != nil {
		s.logger.Warn("projection cache write failed", zap.String("key", key), zap.Error(err))
	}
}
