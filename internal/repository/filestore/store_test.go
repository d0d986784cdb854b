package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hilamalka1/onboard-api/internal/models"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	return s
}

func TestStudentRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	repo := NewStudentRepository(store)

	student := &models.Student{StudentID: "123456789", FirstName: "Noa", LastName: "Levi", Email: "noa@example.com", AcademicYear: 1, DegreeProgram: "Biology"}
	require.NoError(t, repo.Create(ctx, student))
	require.NotEmpty(t, student.ID)

	_, err := os.Stat(filepath.Join(store.Dir(), "students.json"))
	require.NoError(t, err)

	reopened := NewStudentRepository(store)
	got, err := reopened.FindByStudentID(ctx, "123456789")
	require.NoError(t, err)
	assert.Equal(t, student.ID, got.ID)

	got.Email = "noa.levi@example.com"
	require.NoError(t, repo.Update(ctx, got))
	taken, err := repo.ExistsByEmail(ctx, "NOA.LEVI@example.com", "")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.ExistsByEmail(ctx, "noa.levi@example.com", student.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	require.NoError(t, repo.Delete(ctx, student.ID))
	_, err = repo.FindByID(ctx, student.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, student.ID), models.ErrNotFound)
}

func TestStudentRepositoryRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(newStore(t))

	require.NoError(t, repo.Create(ctx, &models.Student{StudentID: "123456789", Email: "a@b.co"}))

	err := repo.Create(ctx, &models.Student{StudentID: "123456789", Email: "other@b.co"})
	var dup *models.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "studentId", dup.Field)

	err = repo.Create(ctx, &models.Student{StudentID: "987654321", Email: "A@B.CO"})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
}

func TestConcurrentCreatesKeepUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(newStore(t))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Create(ctx, &models.Student{StudentID: "111111111", Email: "same@uni.ac"})
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, models.ErrDuplicate))
	}
	assert.Equal(t, 1, succeeded)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStudentRepositoryListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(newStore(t))
	for i, name := range []string{"Cohen", "Avraham", "Barak"} {
		require.NoError(t, repo.Create(ctx, &models.Student{
			StudentID: []string{"100000001", "100000002", "100000003"}[i], LastName: name,
			Email: name + "@uni.ac", DegreeProgram: "Biology",
		}))
	}
	require.NoError(t, repo.Create(ctx, &models.Student{StudentID: "200000001", LastName: "Dov", Email: "d@uni.ac", DegreeProgram: "Economics"}))

	page, total, err := repo.List(ctx, models.StudentFilter{DegreeProgram: "Biology", PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "Avraham", page[0].LastName)
	assert.Equal(t, "Barak", page[1].LastName)

	page, _, err = repo.List(ctx, models.StudentFilter{DegreeProgram: "Biology", PageSize: 2, Page: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Cohen", page[0].LastName)

	page, total, err = repo.List(ctx, models.StudentFilter{Search: "200000"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Dov", page[0].LastName)
}

func TestCourseRepositoryKeepsRosterAndEnforcesLecturerEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository(newStore(t))

	g := 75.0
	course := &models.Course{CourseCode: "CS100", LecturerEmail: "who@uni.ac", EnrolledStudents: models.Roster{{StudentID: "111111111", Grade: &g, Completed: true}}}
	require.NoError(t, repo.Create(ctx, course))

	got, err := repo.FindByCode(ctx, "CS100")
	require.NoError(t, err)
	require.Len(t, got.EnrolledStudents, 1)
	assert.Equal(t, 75.0, *got.EnrolledStudents[0].Grade)

	second := &models.Course{CourseCode: "CS200", LecturerEmail: "who@uni.ac"}
	err = repo.Create(ctx, second)
	var dup *models.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "lecturerEmail", dup.Field)

	other := &models.Course{CourseCode: "CS200", LecturerEmail: "other@uni.ac"}
	require.NoError(t, repo.Create(ctx, other))
	other.CourseCode = "CS100"
	err = repo.Update(ctx, other)
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "courseCode", dup.Field)
}

func TestEventRepositoryPersistsAudience(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(newStore(t))

	day, err := models.ParseDate("2030-05-01")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &models.Event{EventName: "Late", EventDate: day, StartTime: "18:00", AudienceType: models.AudienceAll}))
	require.NoError(t, repo.Create(ctx, &models.Event{EventName: "Early", EventDate: day, StartTime: "08:00",
		AudienceType: models.AudienceStudents, AudienceValue: models.AudienceStudentIDs("111111111")}))

	events, total, err := repo.List(ctx, models.EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Early", events[0].EventName)
	assert.Equal(t, []string{"111111111"}, events[0].AudienceValue.Students)

	events, _, err = repo.List(ctx, models.EventFilter{AudienceType: models.AudienceAll})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].AudienceValue.IsZero())
}

func TestUpdateMissingReturnsNotFound(t *testing.T) {
	repo := NewExamRepository(newStore(t))
	err := repo.Update(context.Background(), &models.Exam{ID: "nope"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCorruptFileSurfacesError(t *testing.T) {
	store := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "assignments.json"), []byte("{not json"), 0o644))
	_, err := NewAssignmentRepository(store).All(context.Background())
	assert.Error(t, err)
}
