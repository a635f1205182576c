package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/admin-panel-api/internal/model"
	"github.com/iliyamo/admin-panel-api/internal/service"
)

// ContextUserKey is where JWTAuth stores the loaded model.User.
const ContextUserKey = "user"

// UserLoader fetches the authenticated principal.  Satisfied by
// repository.UserRepo.
type UserLoader interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token,
// loads the referenced user and injects it into the request context.  The
// user row is loaded on every request so a disabled account is locked out
// immediately, not when its access token expires.
func JWTAuth(auth *service.AuthService, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			userID, err := auth.VerifyAccess(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			user, err := users.GetByID(ctx, userID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			if !user.IsActive {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "account is disabled"})
			}

			c.Set(ContextUserKey, user)
			c.Set("user_id", user.ID)
			return next(c)
		}
	}
}

// CurrentUser retrieves the user stored by JWTAuth.  The boolean is false on
// routes that were not wrapped by the middleware.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(ContextUserKey).(model.User)
	return u, ok
}
