package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/hilamalka1/onboard-api/internal/middleware"
	"github.com/hilamalka1/onboard-api/internal/models"
	"github.com/hilamalka1/onboard-api/internal/service"
)

type responseEnvelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      map[string]interface{} `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	return r
}

func perform(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, responseEnvelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var envelope responseEnvelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

type fakeStudentSrv struct {
	students   []models.Student
	err        error
	lastFilter models.StudentFilter
	lastID     string
	created    *service.CreateStudentRequest
	updated    *service.UpdateStudentRequest
	deleted    string
}

func (f *fakeStudentSrv) List(_ context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.students, &models.Pagination{Page: 1, PageSize: 20, TotalCount: len(f.students)}, nil
}

func (f *fakeStudentSrv) Get(_ context.Context, id string) (*models.Student, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &models.Student{ID: id, StudentID: "111111111"}, nil
}

func (f *fakeStudentSrv) Create(_ context.Context, req service.CreateStudentRequest) (*models.Student, error) {
	f.created = &req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Student{ID: "stu-1", StudentID: req.StudentID}, nil
}

func (f *fakeStudentSrv) Update(_ context.Context, id string, req service.UpdateStudentRequest) (*models.Student, error) {
	f.lastID = id
	f.updated = &req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Student{ID: id, FirstName: req.FirstName}, nil
}

func (f *fakeStudentSrv) Delete(_ context.Context, id string) error {
	f.deleted = id
	return f.err
}

type fakeProgressSrv struct {
	progress     *models.StudentProgress
	feed         *models.StudentFeed
	summary      *models.AdminSummary
	hit          bool
	err          error
	lastID       string
	lastSemester string
}

func (f *fakeProgressSrv) Progress(_ context.Context, id string) (*models.StudentProgress, bool, error) {
	f.lastID = id
	return f.progress, f.hit, f.err
}

func (f *fakeProgressSrv) Feed(_ context.Context, id, semester string) (*models.StudentFeed, bool, error) {
	f.lastID = id
	f.lastSemester = semester
	return f.feed, f.hit, f.err
}

func (f *fakeProgressSrv) Summary(context.Context) (*models.AdminSummary, bool, error) {
	return f.summary, f.hit, f.err
}

type fakeExportSrv struct {
	file       *service.ExportFile
	err        error
	lastID     string
	lastFormat string
}

func (f *fakeExportSrv) Roster(_ context.Context, courseID, format string) (*service.ExportFile, error) {
	f.lastID, f.lastFormat = courseID, format
	return f.file, f.err
}

func (f *fakeExportSrv) Transcript(_ context.Context, studentID, format string) (*service.ExportFile, error) {
	f.lastID, f.lastFormat = studentID, format
	return f.file, f.err
}

type fakeCourseSrv struct {
	err         error
	lastFilter  models.CourseFilter
	lastID      string
	lastCode    string
	lastStudent string
	created     *service.CreateCourseRequest
	enrolled    *service.RosterInput
	graded      *service.GradeRequest
	unenrolled  bool
	deleted     string
	updatedName string
}

func (f *fakeCourseSrv) course() (*models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Course{ID: "crs-1", CourseCode: "CS100"}, nil
}

func (f *fakeCourseSrv) List(_ context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, nil, f.err
	}
	return []models.Course{{ID: "crs-1"}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

func (f *fakeCourseSrv) Get(_ context.Context, id string) (*models.Course, error) {
	f.lastID = id
	return f.course()
}

func (f *fakeCourseSrv) GetByCode(_ context.Context, code string) (*models.Course, error) {
	f.lastCode = code
	return f.course()
}

func (f *fakeCourseSrv) Create(_ context.Context, req service.CreateCourseRequest) (*models.Course, error) {
	f.created = &req
	return f.course()
}

func (f *fakeCourseSrv) Update(_ context.Context, id string, req service.UpdateCourseRequest) (*models.Course, error) {
	f.lastID = id
	f.updatedName = req.CourseName
	return f.course()
}

func (f *fakeCourseSrv) Delete(_ context.Context, id string) error {
	f.deleted = id
	return f.err
}

func (f *fakeCourseSrv) Enroll(_ context.Context, courseID string, req service.RosterInput) (*models.Course, error) {
	f.lastID = courseID
	f.enrolled = &req
	return f.course()
}

func (f *fakeCourseSrv) Unenroll(_ context.Context, courseID, studentID string) (*models.Course, error) {
	f.lastID, f.lastStudent = courseID, studentID
	f.unenrolled = true
	return f.course()
}

func (f *fakeCourseSrv) SetGrade(_ context.Context, courseID, studentID string, req service.GradeRequest) (*models.Course, error) {
	f.lastID, f.lastStudent = courseID, studentID
	f.graded = &req
	return f.course()
}

type fakeEventSrv struct {
	err        error
	lastFilter models.EventFilter
	created    *service.EventRequest
}

func (f *fakeEventSrv) List(_ context.Context, filter models.EventFilter) ([]models.Event, *models.Pagination, error) {
	f.lastFilter = filter
	return []models.Event{}, &models.Pagination{Page: 1, PageSize: 20}, f.err
}

func (f *fakeEventSrv) Get(_ context.Context, id string) (*models.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Event{ID: id}, nil
}

func (f *fakeEventSrv) Create(_ context.Context, req service.EventRequest) (*models.Event, error) {
	f.created = &req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Event{ID: "evt-1", EventName: req.EventName}, nil
}

func (f *fakeEventSrv) Update(_ context.Context, id string, req service.EventRequest) (*models.Event, error) {
	return &models.Event{ID: id, EventName: req.EventName}, f.err
}

func (f *fakeEventSrv) Delete(context.Context, string) error { return f.err }
