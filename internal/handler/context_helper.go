package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hilamalka1/onboard-api/internal/middleware"
	appErrors "github.com/hilamalka1/onboard-api/pkg/errors"
	"github.com/hilamalka1/onboard-api/pkg/response"
)

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	return page, size
}

// projection renders a cached read model with cache_hit and processing time in meta.
func projection(c *gin.Context, data interface{}, cacheHit bool, start time.Time) {
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetProcessingTime(c, start)
	response.JSON(c, http.StatusOK, data, nil, middleware.ExtractMeta(c))
}
