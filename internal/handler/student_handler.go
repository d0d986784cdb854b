package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hilamalka1/onboard-api/internal/models"
	"github.com/hilamalka1/onboard-api/internal/service"
	"github.com/hilamalka1/onboard-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, req service.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, id string, req service.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id string) error
}

type progressService interface {
	Progress(ctx context.Context, id string) (*models.StudentProgress, bool, error)
	Feed(ctx context.Context, id, semester string) (*models.StudentFeed, bool, error)
	Summary(ctx context.Context) (*models.AdminSummary, bool, error)
}

type exportService interface {
	Roster(ctx context.Context, courseID, format string) (*service.ExportFile, error)
	Transcript(ctx context.Context, studentID, format string) (*service.ExportFile, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students studentService
	progress progressService
	exports  exportService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, progress progressService, exports exportService) *StudentHandler {
	return &StudentHandler{students: students, progress: progress, exports: exports}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param search query string false "Search by name, email or student ID"
// @Param degreeProgram query string false "Filter by degree program"
// @Param academicYear query int false "Filter by academic year"
// @Param sort query string false "Sort column"
// @Param order query string false "asc or desc"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	var filter models.StudentFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.DegreeProgram = c.Query("degreeProgram")
	if year, err := strconv.Atoi(c.Query("academicYear")); err == nil {
		filter.AcademicYear = year
	}
	filter.Page, filter.PageSize = pageParams(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param id path string true "Student storage ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student storage ID"
// @Param payload body service.UpdateStudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req service.UpdateStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.students.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Produce json
// @Param id path string true "Student storage ID"
// @Success 204
// @Security BearerAuth
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Progress godoc
// @Summary Student academic progress
// @Description Earned credits, graduation eligibility, grade rows and completion
// @Tags Students
// @Produce json
// @Param id path string true "Storage ID or 9-digit student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/progress [get]
func (h *StudentHandler) Progress(c *gin.Context) {
	start := time.Now()
	progress, cacheHit, err := h.progress.Progress(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	projection(c, progress, cacheHit, start)
}

// Feed godoc
// @Summary Student home feed
// @Description Courses, applicable events, exams and assignments for a semester
// @Tags Students
// @Produce json
// @Param id path string true "Storage ID or 9-digit student ID"
// @Param semester query string false "Semester A, Semester B, Summer or All Year"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/feed [get]
func (h *StudentHandler) Feed(c *gin.Context) {
	start := time.Now()
	feed, cacheHit, err := h.progress.Feed(c.Request.Context(), c.Param("id"), strings.TrimSpace(c.Query("semester")))
	if err != nil {
		response.Error(c, err)
		return
	}
	projection(c, feed, cacheHit, start)
}

// Transcript godoc
// @Summary Export student transcript
// @Tags Students
// @Produce octet-stream
// @Param id path string true "Storage ID or 9-digit student ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /students/{id}/transcript/export [get]
func (h *StudentHandler) Transcript(c *gin.Context) {
	file, err := h.exports.Transcript(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
