package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hilamalka1/onboard-api/internal/service"
	appErrors "github.com/hilamalka1/onboard-api/pkg/errors"
)

func courseRoutes(courses *fakeCourseSrv, exports *fakeExportSrv) http.Handler {
	h := NewCourseHandler(courses, exports)
	r := newEngine()
	r.GET("/courses", h.List)
	r.POST("/courses", h.Create)
	r.GET("/courses/code/:code", h.GetByCode)
	r.GET("/courses/:id", h.Get)
	r.PUT("/courses/:id", h.Update)
	r.DELETE("/courses/:id", h.Delete)
	r.POST("/courses/:id/roster", h.Enroll)
	r.GET("/courses/:id/roster/export", h.ExportRoster)
	r.PUT("/courses/:id/roster/:studentId", h.SetGrade)
	r.DELETE("/courses/:id/roster/:studentId", h.Unenroll)
	return r
}

func TestCourseHandlerListFilter(t *testing.T) {
	courses := &fakeCourseSrv{}
	r := courseRoutes(courses, &fakeExportSrv{})

	rec, _ := perform(t, r, http.MethodGet, "/courses?semester=Summer&degreeProgram=Biology&search=bio", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Summer", courses.lastFilter.Semester)
	assert.Equal(t, "Biology", courses.lastFilter.DegreeProgram)
	assert.Equal(t, "bio", courses.lastFilter.Search)
	assert.Equal(t, 20, courses.lastFilter.PageSize)
}

func TestCourseHandlerCodeRouteDoesNotShadowID(t *testing.T) {
	courses := &fakeCourseSrv{}
	r := courseRoutes(courses, &fakeExportSrv{})

	rec, _ := perform(t, r, http.MethodGet, "/courses/code/CS100", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CS100", courses.lastCode)
	assert.Empty(t, courses.lastID)

	rec, _ = perform(t, r, http.MethodGet, "/courses/crs-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "crs-1", courses.lastID)
}

func TestCourseHandlerCreateWithRoster(t *testing.T) {
	courses := &fakeCourseSrv{}
	r := courseRoutes(courses, &fakeExportSrv{})

	rec, _ := perform(t, r, http.MethodPost, "/courses", `{"courseName":"Intro","creditPoints":4,"enrolledStudents":[{"studentId":"111111111","grade":75},{"studentId":"222222222"}]}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, courses.created)
	require.Len(t, courses.created.EnrolledStudents, 2)
	require.NotNil(t, courses.created.EnrolledStudents[0].Grade)
	assert.Equal(t, 75.0, *courses.created.EnrolledStudents[0].Grade)
	assert.Nil(t, courses.created.EnrolledStudents[1].Grade)
}

func TestCourseHandlerRosterRoutes(t *testing.T) {
	courses := &fakeCourseSrv{}
	r := courseRoutes(courses, &fakeExportSrv{})

	rec, _ := perform(t, r, http.MethodPost, "/courses/crs-1/roster", `{"studentId":"111111111"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "111111111", courses.enrolled.StudentID)

	rec, _ = perform(t, r, http.MethodPut, "/courses/crs-1/roster/111111111", `{"grade":60}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "111111111", courses.lastStudent)
	require.NotNil(t, courses.graded.Grade)
	assert.Equal(t, 60.0, *courses.graded.Grade)

	rec, _ = perform(t, r, http.MethodPut, "/courses/crs-1/roster/111111111", `{"grade":null}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, courses.graded.Grade)

	rec, _ = perform(t, r, http.MethodDelete, "/courses/crs-1/roster/111111111", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, courses.unenrolled)
}

func TestCourseHandlerEnrollConflict(t *testing.T) {
	courses := &fakeCourseSrv{err: appErrors.Duplicate("studentId", "student is already enrolled")}
	r := courseRoutes(courses, &fakeExportSrv{})

	rec, envelope := perform(t, r, http.MethodPost, "/courses/crs-1/roster", `{"studentId":"111111111"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, appErrors.ErrConflict.Code, envelope.Error["code"])
}

func TestCourseHandlerDeleteAndExport(t *testing.T) {
	courses := &fakeCourseSrv{}
	exports := &fakeExportSrv{file: &service.ExportFile{Filename: "roster-CS100.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}}
	r := courseRoutes(courses, exports)

	rec, _ := perform(t, r, http.MethodDelete, "/courses/crs-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "crs-1", courses.deleted)

	rec, _ = perform(t, r, http.MethodGet, "/courses/crs-1/roster/export?format=pdf", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "crs-1", exports.lastID)
	assert.Equal(t, "pdf", exports.lastFormat)
}

func TestCourseHandlerStoreFailureIsGeneric(t *testing.T) {
	courses := &fakeCourseSrv{err: appErrors.Wrap(assert.AnError, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")}
	r := courseRoutes(courses, &fakeExportSrv{})

	rec, envelope := perform(t, r, http.MethodPut, "/courses/crs-1", `{"courseName":"Intro"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to update course", envelope.Error["message"])
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}
