package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/hilamalka1/onboard-api/pkg/errors"
	"github.com/hilamalka1/onboard-api/pkg/response"
)

// DashboardHandler wires the administrator summary to HTTP.
type DashboardHandler struct {
	service progressService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service progressService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary godoc
// @Summary Administrator summary
// @Description Students per degree, weekly workload for weeks 1-4 and upcoming events
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	summary, cacheHit, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	projection(c, summary, cacheHit, start)
}
