package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hilamalka1/onboard-api/internal/models"
	"github.com/hilamalka1/onboard-api/internal/service"
	"github.com/hilamalka1/onboard-api/pkg/response"
)

type courseService interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	Create(ctx context.Context, req service.CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, id string, req service.UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, id string) error
	Enroll(ctx context.Context, courseID string, req service.RosterInput) (*models.Course, error)
	Unenroll(ctx context.Context, courseID, studentID string) (*models.Course, error)
	SetGrade(ctx context.Context, courseID, studentID string, req service.GradeRequest) (*models.Course, error)
}

// CourseHandler exposes course and roster endpoints.
type CourseHandler struct {
	courses courseService
	exports exportService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses courseService, exports exportService) *CourseHandler {
	return &CourseHandler{courses: courses, exports: exports}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param search query string false "Search by code, name or lecturer"
// @Param semester query string false "Filter by semester"
// @Param degreeProgram query string false "Filter by degree program"
// @Param sort query string false "Sort column"
// @Param order query string false "asc or desc"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	filter := models.CourseFilter{
		Search:        strings.TrimSpace(c.Query("search")),
		Semester:      c.Query("semester"),
		DegreeProgram: c.Query("degreeProgram"),
		SortBy:        c.Query("sort"),
		SortOrder:     c.Query("order"),
	}
	filter.Page, filter.PageSize = pageParams(c)

	courses, pagination, err := h.courses.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, pagination)
}

// Get godoc
// @Summary Get course detail
// @Tags Courses
// @Produce json
// @Param id path string true "Course storage ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// GetByCode godoc
// @Summary Get course by course code
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /courses/code/{code} [get]
func (h *CourseHandler) GetByCode(c *gin.Context) {
	course, err := h.courses.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Create godoc
// @Summary Create course
// @Description An omitted courseCode is generated as CRS- followed by six characters
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Update course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course storage ID"
// @Param payload body service.UpdateCourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	var req service.UpdateCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.courses.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Param id path string true "Course storage ID"
// @Success 204
// @Security BearerAuth
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Enroll godoc
// @Summary Enroll a student
// @Tags Roster
// @Accept json
// @Produce json
// @Param id path string true "Course storage ID"
// @Param payload body service.RosterInput true "Roster entry"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id}/roster [post]
func (h *CourseHandler) Enroll(c *gin.Context) {
	var req service.RosterInput
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.courses.Enroll(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// SetGrade godoc
// @Summary Set or clear a roster grade
// @Description A null grade clears the grade; completed is recomputed
// @Tags Roster
// @Accept json
// @Produce json
// @Param id path string true "Course storage ID"
// @Param studentId path string true "9-digit student ID"
// @Param payload body service.GradeRequest true "Grade"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id}/roster/{studentId} [put]
func (h *CourseHandler) SetGrade(c *gin.Context) {
	var req service.GradeRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.courses.SetGrade(c.Request.Context(), c.Param("id"), c.Param("studentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Unenroll godoc
// @Summary Remove a student from the roster
// @Tags Roster
// @Produce json
// @Param id path string true "Course storage ID"
// @Param studentId path string true "9-digit student ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id}/roster/{studentId} [delete]
func (h *CourseHandler) Unenroll(c *gin.Context) {
	course, err := h.courses.Unenroll(c.Request.Context(), c.Param("id"), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// ExportRoster godoc
// @Summary Export course roster
// @Tags Roster
// @Produce octet-stream
// @Param id path string true "Course storage ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /courses/{id}/roster/export [get]
func (h *CourseHandler) ExportRoster(c *gin.Context) {
	file, err := h.exports.Roster(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
