package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/hilamalka1/onboard-api/internal/models"
	appErrors "github.com/hilamalka1/onboard-api/pkg/errors"
	"github.com/hilamalka1/onboard-api/pkg/response"
)

// RequireRoles lets the request through only when the JWT carries one of roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// AdminOnly chains JWT and the admin role check. When enabled is false writes are open.
func AdminOnly(validator TokenValidator, enabled bool) []gin.HandlerFunc {
	if !enabled {
		return nil
	}
	return []gin.HandlerFunc{JWT(validator), RequireRoles(models.RoleAdmin)}
}
