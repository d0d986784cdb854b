package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hilamalka1/onboard-api/internal/models"
	"github.com/hilamalka1/onboard-api/internal/service"
	appErrors "github.com/hilamalka1/onboard-api/pkg/errors"
)

type fakeAssignmentSrv struct {
	lastFilter models.CourseworkFilter
	created    *service.AssignmentRequest
	err        error
}

func (f *fakeAssignmentSrv) List(_ context.Context, filter models.CourseworkFilter) ([]models.Assignment, *models.Pagination, error) {
	f.lastFilter = filter
	return []models.Assignment{{ID: "asg-1"}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

func (f *fakeAssignmentSrv) Get(_ context.Context, id string) (*models.Assignment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Assignment{ID: id}, nil
}

func (f *fakeAssignmentSrv) Create(_ context.Context, req service.AssignmentRequest) (*models.Assignment, error) {
	f.created = &req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Assignment{ID: "asg-1", Title: req.Title}, nil
}

func (f *fakeAssignmentSrv) Update(_ context.Context, id string, req service.AssignmentRequest) (*models.Assignment, error) {
	return &models.Assignment{ID: id, Title: req.Title}, f.err
}

func (f *fakeAssignmentSrv) Delete(context.Context, string) error { return f.err }

type fakeExamSrv struct {
	lastFilter models.CourseworkFilter
	err        error
}

func (f *fakeExamSrv) List(_ context.Context, filter models.CourseworkFilter) ([]models.Exam, *models.Pagination, error) {
	f.lastFilter = filter
	return []models.Exam{}, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (f *fakeExamSrv) Get(_ context.Context, id string) (*models.Exam, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Exam{ID: id}, nil
}

func (f *fakeExamSrv) Create(_ context.Context, req service.ExamRequest) (*models.Exam, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Exam{ID: "exm-1", ExamName: req.ExamName}, nil
}

func (f *fakeExamSrv) Update(_ context.Context, id string, req service.ExamRequest) (*models.Exam, error) {
	return &models.Exam{ID: id, ExamName: req.ExamName}, f.err
}

func (f *fakeExamSrv) Delete(context.Context, string) error { return f.err }

func TestAssignmentHandlerFiltersByCourseCode(t *testing.T) {
	assignments := &fakeAssignmentSrv{}
	h := NewAssignmentHandler(assignments)
	r := newEngine()
	r.GET("/assignments", h.List)

	rec, envelope := perform(t, r, http.MethodGet, "/assignments?courseCode=%20cs100%20&order=desc", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CS100", assignments.lastFilter.CourseCode)
	assert.Equal(t, "desc", assignments.lastFilter.SortOrder)
	require.NotNil(t, envelope.Pagination)
}

func TestAssignmentHandlerCreateValidationError(t *testing.T) {
	assignments := &fakeAssignmentSrv{err: appErrors.Validation(map[string]string{"dueDate": "dueDate must not be in the past"})}
	h := NewAssignmentHandler(assignments)
	r := newEngine()
	r.POST("/assignments", h.Create)

	rec, envelope := perform(t, r, http.MethodPost, "/assignments", `{"title":"Essay","dueDate":"2020-01-01","courseCode":"CS100"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, assignments.created)
	assert.Equal(t, "2020-01-01", assignments.created.DueDate.String())
	details := envelope.Error["details"].(map[string]interface{})
	assert.Equal(t, "dueDate must not be in the past", details["dueDate"])
}

func TestExamHandlerRoutes(t *testing.T) {
	exams := &fakeExamSrv{}
	h := NewExamHandler(exams)
	r := newEngine()
	r.GET("/exams", h.List)
	r.GET("/exams/:id", h.Get)
	r.POST("/exams", h.Create)
	r.PUT("/exams/:id", h.Update)
	r.DELETE("/exams/:id", h.Delete)

	rec, _ := perform(t, r, http.MethodGet, "/exams?page=2&pageSize=10", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, exams.lastFilter.Page)
	assert.Equal(t, 10, exams.lastFilter.PageSize)

	rec, _ = perform(t, r, http.MethodPost, "/exams", `{"examName":"Final","examDate":"2030-06-01","courseCode":"CS100"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = perform(t, r, http.MethodPut, "/exams/exm-1", `{"examName":"Midterm"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = perform(t, r, http.MethodDelete, "/exams/exm-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	exams.err = appErrors.Clone(appErrors.ErrNotFound, "exam not found")
	rec, _ = perform(t, r, http.MethodGet, "/exams/exm-2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
