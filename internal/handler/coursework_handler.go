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

type assignmentService interface {
	List(ctx context.Context, filter models.CourseworkFilter) ([]models.Assignment, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Assignment, error)
	Create(ctx context.Context, req service.AssignmentRequest) (*models.Assignment, error)
	Update(ctx context.Context, id string, req service.AssignmentRequest) (*models.Assignment, error)
	Delete(ctx context.Context, id string) error
}

type examService interface {
	List(ctx context.Context, filter models.CourseworkFilter) ([]models.Exam, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Exam, error)
	Create(ctx context.Context, req service.ExamRequest) (*models.Exam, error)
	Update(ctx context.Context, id string, req service.ExamRequest) (*models.Exam, error)
	Delete(ctx context.Context, id string) error
}

func courseworkFilter(c *gin.Context) models.CourseworkFilter {
	filter := models.CourseworkFilter{
		CourseCode: strings.ToUpper(strings.TrimSpace(c.Query("courseCode"))),
		SortOrder:  c.Query("order"),
	}
	filter.Page, filter.PageSize = pageParams(c)
	return filter
}

// AssignmentHandler exposes assignment endpoints.
type AssignmentHandler struct {
	assignments assignmentService
}

// NewAssignmentHandler constructs AssignmentHandler.
func NewAssignmentHandler(assignments assignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// List godoc
// @Summary List assignments
// @Tags Assignments
// @Produce json
// @Param courseCode query string false "Filter by course code"
// @Param order query string false "Due date order, asc or desc"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	items, pagination, err := h.assignments.List(c.Request.Context(), courseworkFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	item, err := h.assignments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.AssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req service.AssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.assignments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body service.AssignmentRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments/{id} [put]
func (h *AssignmentHandler) Update(c *gin.Context) {
	var req service.AssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.assignments.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete assignment
// @Tags Assignments
// @Param id path string true "Assignment ID"
// @Success 204
// @Security BearerAuth
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	if err := h.assignments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExamHandler exposes exam endpoints.
type ExamHandler struct {
	exams examService
}

// NewExamHandler constructs ExamHandler.
func NewExamHandler(exams examService) *ExamHandler {
	return &ExamHandler{exams: exams}
}

// List godoc
// @Summary List exams
// @Tags Exams
// @Produce json
// @Param courseCode query string false "Filter by course code"
// @Param order query string false "Exam date order, asc or desc"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /exams [get]
func (h *ExamHandler) List(c *gin.Context) {
	items, pagination, err := h.exams.List(c.Request.Context(), courseworkFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get exam
// @Tags Exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} response.Envelope
// @Router /exams/{id} [get]
func (h *ExamHandler) Get(c *gin.Context) {
	item, err := h.exams.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create exam
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body service.ExamRequest true "Exam payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /exams [post]
func (h *ExamHandler) Create(c *gin.Context) {
	var req service.ExamRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.exams.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update exam
// @Tags Exams
// @Accept json
// @Produce json
// @Param id path string true "Exam ID"
// @Param payload body service.ExamRequest true "Exam payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /exams/{id} [put]
func (h *ExamHandler) Update(c *gin.Context) {
	var req service.ExamRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.exams.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete exam
// @Tags Exams
// @Param id path string true "Exam ID"
// @Success 204
// @Security BearerAuth
// @Router /exams/{id} [delete]
func (h *ExamHandler) Delete(c *gin.Context) {
	if err := h.exams.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
