package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hilamalka1/onboard-api/internal/models"
	appErrors "github.com/hilamalka1/onboard-api/pkg/errors"
)

type progressFixture struct {
	svc         *ProgressService
	students    *mockStudentRepo
	courses     *mockCourseRepo
	exams       *mockExamRepo
	assignments *mockAssignmentRepo
	events      *mockEventRepo
	cacheRepo   *mockCacheRepo
}

func newProgressFixture(now time.Time) *progressFixture {
	day := func(n int) models.Date { return models.NewDate(now.AddDate(0, 0, n)) }
	f := &progressFixture{
		students: newMockStudentRepo(
			models.Student{ID: "s1", StudentID: "111111111", FirstName: "Noa", LastName: "Katz", DegreeProgram: "Computer Science"},
			models.Student{ID: "s2", StudentID: "222222222", FirstName: "Eli", LastName: "Bar", DegreeProgram: "Biology"},
			models.Student{ID: "s3", StudentID: "333333333", FirstName: "Gal", LastName: "Or", DegreeProgram: "Computer Science"},
		),
		courses: newMockCourseRepo(
			models.Course{ID: "c1", CourseCode: "CS100", CourseName: "Intro", CreditPoints: 4, Semester: models.SemesterA,
				EnrolledStudents: models.Roster{{StudentID: "111111111", Grade: ptr(75), Completed: true}}},
			models.Course{ID: "c2", CourseCode: "CS200", CourseName: "Algorithms", CreditPoints: 5, Semester: models.SemesterB,
				EnrolledStudents: models.Roster{{StudentID: "111111111", Grade: ptr(55)}}},
			models.Course{ID: "c3", CourseCode: "BIO1", CourseName: "Cells", CreditPoints: 3, Semester: models.SemesterA,
				EnrolledStudents: models.Roster{{StudentID: "222222222"}}},
		),
		exams: newMockExamRepo(
			models.Exam{ID: "x1", ExamName: "Intro midterm", ExamDate: day(3), CourseCode: "CS100"},
			models.Exam{ID: "x2", ExamName: "Algo final", ExamDate: day(9), CourseCode: "CS200"},
			models.Exam{ID: "x3", ExamName: "Cells quiz", ExamDate: day(30), CourseCode: "BIO1"},
		),
		assignments: newMockAssignmentRepo(
			models.Assignment{ID: "a1", Title: "HW1", DueDate: day(1), CourseCode: "CS100"},
			models.Assignment{ID: "a2", Title: "Lab", DueDate: day(-2), CourseCode: "BIO1"},
		),
		events: newMockEventRepo(
			models.Event{ID: "e1", EventName: "Welcome", EventDate: day(0), StartTime: "10:00", AudienceType: models.AudienceAll},
			models.Event{ID: "e2", EventName: "CS200 review", EventDate: day(5), AudienceType: models.AudienceCourse, AudienceValue: models.AudienceText("CS200")},
			models.Event{ID: "e3", EventName: "Bio fair", EventDate: day(8), AudienceType: models.AudienceDegree, AudienceValue: models.AudienceText("Biology")},
		),
		cacheRepo: newMockCacheRepo(),
	}
	f.svc = NewProgressService(ProgressServiceParams{
		Students:    f.students,
		Courses:     f.courses,
		Assignments: f.assignments,
		Exams:       f.exams,
		Events:      f.events,
		Cache:       NewCacheService(f.cacheRepo, NewMetricsService(), time.Minute, zap.NewNop(), true),
		Metrics:     NewMetricsService(),
		Logger:      zap.NewNop(),
	})
	f.svc.now = func() time.Time { return now }
	return f
}

func TestProgressServiceProgress(t *testing.T) {
	f := newProgressFixture(time.Now())

	progress, hit, err := f.svc.Progress(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 4, progress.EarnedCredits)
	assert.False(t, progress.Eligible)
	assert.Len(t, progress.Grades, 2)
	assert.InDelta(t, 65.0, progress.AverageGrade, 0.001)
	assert.True(t, progress.HasGrades)
	assert.Equal(t, models.Completion{Completed: 4, Remaining: 116}, progress.Completion)

	cached, hit, err := f.svc.Progress(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, progress.EarnedCredits, cached.EarnedCredits)
}

func TestProgressServiceProgressByBusinessKeyAndNoGrades(t *testing.T) {
	f := newProgressFixture(time.Now())

	progress, _, err := f.svc.Progress(context.Background(), "222222222")
	require.NoError(t, err)
	assert.Equal(t, "Eli Bar", progress.FullName)
	assert.False(t, progress.HasGrades)
	assert.Zero(t, progress.AverageGrade)

	_, _, err = f.svc.Progress(context.Background(), "nobody")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestProgressServiceFeed(t *testing.T) {
	f := newProgressFixture(time.Now())

	feed, _, err := f.svc.Feed(context.Background(), "s1", "")
	require.NoError(t, err)
	assert.Equal(t, models.SemesterAllYear, feed.Semester)
	assert.Len(t, feed.Courses, 2)
	assert.ElementsMatch(t, []string{"e1", "e2"}, eventIDs(feed.Events))
	assert.Len(t, feed.Exams, 2)
	assert.Len(t, feed.Assignments, 1)
	require.Len(t, feed.Calendar, 5)
	assert.Equal(t, "e1", feed.Calendar[0].ID)
	for i := 1; i < len(feed.Calendar); i++ {
		assert.False(t, feed.Calendar[i].Date.Before(feed.Calendar[i-1].Date.Time))
	}

	semesterA, _, err := f.svc.Feed(context.Background(), "s1", models.SemesterA)
	require.NoError(t, err)
	require.Len(t, semesterA.Courses, 1)
	assert.Equal(t, "CS100", semesterA.Courses[0].CourseCode)
	assert.ElementsMatch(t, []string{"e1", "e2"}, eventIDs(semesterA.Events), "audience uses every enrolled course")
	assert.Len(t, semesterA.Exams, 1)
}

func TestProgressServiceFeedRejectsUnknownSemester(t *testing.T) {
	f := newProgressFixture(time.Now())

	_, _, err := f.svc.Feed(context.Background(), "s1", "Winter")
	appErr := asAppError(t, err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Contains(t, appErr.Details, "semester")
}

func TestProgressServiceSummary(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.Local)
	f := newProgressFixture(now)

	summary, hit, err := f.svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, summary.TotalStudents)
	assert.Equal(t, 3, summary.TotalCourses)
	assert.Equal(t, []models.DegreeCount{
		{DegreeProgram: "Computer Science", Students: 2},
		{DegreeProgram: "Biology", Students: 1},
	}, summary.StudentsPerDegree)
	assert.Equal(t, []models.WeeklyWorkload{
		{Week: 1, Exams: 1, Assignments: 1},
		{Week: 2, Exams: 1, Assignments: 0},
		{Week: 3},
		{Week: 4},
	}, summary.Workload)
	assert.Equal(t, []string{"e1", "e2"}, eventIDs(summary.UpcomingEvents))

	_, hit, err = f.svc.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestProgressServiceRecomputesAfterInvalidation(t *testing.T) {
	f := newProgressFixture(time.Now())
	inv := NewInvalidationService(f.svc.cache, zap.NewNop())
	courses := NewCourseService(f.courses, f.students, nil, inv, zap.NewNop())

	_, _, err := f.svc.Progress(context.Background(), "s1")
	require.NoError(t, err)

	_, err = courses.SetGrade(context.Background(), "c2", "111111111", GradeRequest{Grade: ptr(90)})
	require.NoError(t, err)
	assert.Equal(t, []string{ProjectionPattern}, f.cacheRepo.deleted)

	progress, hit, err := f.svc.Progress(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 9, progress.EarnedCredits)
}

func TestProgressServiceStoreFailure(t *testing.T) {
	f := newProgressFixture(time.Now())
	f.courses.err = errors.New("timeout")

	_, _, err := f.svc.Progress(context.Background(), "s1")
	appErr := asAppError(t, err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
}

func eventIDs(events []models.Event) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids
}
