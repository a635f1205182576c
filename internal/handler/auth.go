package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/admin-panel-api/internal/middleware"
	"github.com/iliyamo/admin-panel-api/internal/service"
)

// AuthHandler bundles the services behind the auth endpoints.
type AuthHandler struct {
	Auth  *service.AuthService
	Perms *service.PermissionService
	Menus *service.MenuService
}

func NewAuthHandler(auth *service.AuthService, perms *service.PermissionService, menus *service.MenuService) *AuthHandler {
	return &AuthHandler{Auth: auth, Perms: perms, Menus: menus}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

// Login verifies credentials and returns a fresh access/refresh pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	pair, err := h.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, pair)
}

// Refresh exchanges a live refresh token for a new pair.  The presented
// token is consumed; using it again afterwards fails as a reuse event.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	pair, err := h.Auth.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, pair)
}

// Logout invalidates a refresh token.  Always replies 204: whether the
// token existed is not something the response should reveal.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, strings.TrimSpace(req.RefreshToken)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile together with its resolved
// permission set and visible menu tree, everything a front end needs to
// bootstrap after login.
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	permSet, err := h.Perms.UserPermissions(ctx, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load permissions failed"})
	}
	perms := make([]string, 0, len(permSet))
	for p := range permSet {
		perms = append(perms, p)
	}

	tree, err := h.Menus.TreeFor(ctx, user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load menus failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user": echo.Map{
			"id":            user.ID,
			"username":      user.Username,
			"email":         user.Email,
			"is_superuser":  user.IsSuperuser,
			"last_login_at": user.LastLoginAt,
		},
		"permissions": perms,
		"menus":       tree,
	})
}

// authError translates an authentication failure into a response.  Every
// reason maps to the same 401 so callers cannot probe the ledger; the
// distinction lives in server-side logs and the security event queue.
func authError(c echo.Context, err error) error {
	if _, ok := service.AuthReasonOf(err); ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "auth failed"})
}
