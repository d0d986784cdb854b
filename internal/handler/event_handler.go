package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hilamalka1/onboard-api/internal/models"
	"github.com/hilamalka1/onboard-api/internal/service"
	appErrors "github.com/hilamalka1/onboard-api/pkg/errors"
	"github.com/hilamalka1/onboard-api/pkg/response"
)

type eventService interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, req service.EventRequest) (*models.Event, error)
	Update(ctx context.Context, id string, req service.EventRequest) (*models.Event, error)
	Delete(ctx context.Context, id string) error
}

// EventHandler exposes event endpoints.
type EventHandler struct {
	events eventService
}

// NewEventHandler constructs EventHandler.
func NewEventHandler(events eventService) *EventHandler {
	return &EventHandler{events: events}
}

// List godoc
// @Summary List events
// @Tags Events
// @Produce json
// @Param audienceType query string false "all, degree, course or students"
// @Param from query string false "Earliest event date (YYYY-MM-DD)"
// @Param to query string false "Latest event date (YYYY-MM-DD)"
// @Param order query string false "Event date order, asc or desc"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	filter := models.EventFilter{
		AudienceType: strings.TrimSpace(c.Query("audienceType")),
		SortOrder:    c.Query("order"),
	}
	filter.Page, filter.PageSize = pageParams(c)
	details := map[string]string{}
	for param, target := range map[string]**models.Date{"from": &filter.From, "to": &filter.To} {
		raw := strings.TrimSpace(c.Query(param))
		if raw == "" {
			continue
		}
		date, err := models.ParseDate(raw)
		if err != nil {
			details[param] = "invalid date format, expected YYYY-MM-DD"
			continue
		}
		*target = &date
	}
	if len(details) > 0 {
		response.Error(c, appErrors.Validation(details))
		return
	}

	events, pagination, err := h.events.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, pagination)
}

// Get godoc
// @Summary Get event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Create godoc
// @Summary Create event
// @Description audienceValue is a string for degree and course, a list of student IDs for students
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body service.EventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req service.EventRequest
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.events.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Update godoc
// @Summary Update event
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body service.EventRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	var req service.EventRequest
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.events.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Delete godoc
// @Summary Delete event
// @Tags Events
// @Param id path string true "Event ID"
// @Success 204
// @Security BearerAuth
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
