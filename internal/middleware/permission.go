package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/admin-panel-api/internal/service"
)

// RequirePermission returns a middleware that enforces one permission string
// on the wrapped routes, e.g. RequirePermission(perms, "system:user:add").
// Superusers bypass the check here, at the guard, so the underlying resolver
// stays a pure graph query.  Matching is exact equality; there are no
// wildcard semantics.  It assumes JWTAuth ran earlier in the chain.
func RequirePermission(perms *service.PermissionService, required string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if user.IsSuperuser {
				return next(c)
			}
			err := perms.Check(c.Request().Context(), user.ID, required)
			if err != nil {
				if errors.Is(err, service.ErrPermissionDenied) {
					return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "permission check failed"})
			}
			return next(c)
		}
	}
}
