package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/hilamalka1/onboard-api/internal/models"
	appErrors "github.com/hilamalka1/onboard-api/pkg/errors"
	"github.com/hilamalka1/onboard-api/pkg/middleware/requestid"
)

var duplicateMessages = map[string]string{
	"studentId":     "student ID already exists",
	"email":         "email is already registered",
	"courseCode":    "course code already exists",
	"lecturerEmail": "lecturer email is already assigned to another course",
}

func duplicate(field string) *appErrors.Error {
	msg, ok := duplicateMessages[field]
	if !ok {
		msg = field + " already exists"
	}
	return appErrors.Duplicate(field, msg)
}

// storeError maps repository failures onto the API taxonomy.
func storeError(err error, entity, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrNotFound) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	var dup *models.DuplicateKeyError
	if errors.As(err, &dup) {
		return duplicate(dup.Field)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to "+action+" "+entity)
}

// withRequest tags logger with the request ID carried by ctx.
func withRequest(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if id := requestid.FromContext(ctx); id != "" {
		return logger.With(zap.String("request_id", id))
	}
	return logger
}

func invalid(details map[string]string) error {
	if len(details) == 0 {
		return nil
	}
	return appErrors.Validation(details)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func pagination(page, size, total int) *models.Pagination {
	page, size = models.NormalizePage(page, size)
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}

func merge(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		if _, exists := dst[k]; !exists {
			dst[k] = v
		}
	}
	return dst
}
