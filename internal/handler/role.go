package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/admin-panel-api/internal/cache"
	"github.com/iliyamo/admin-panel-api/internal/model"
	"github.com/iliyamo/admin-panel-api/internal/repository"
)

// RoleHandler implements CRUD over roles and the role→menu assignment.
type RoleHandler struct {
	Roles     *repository.RoleRepo
	PermCache *cache.PermissionCache
}

func NewRoleHandler(roles *repository.RoleRepo, permCache *cache.PermissionCache) *RoleHandler {
	return &RoleHandler{Roles: roles, PermCache: permCache}
}

// List handles GET /v1/system/roles.
func (h *RoleHandler) List(c echo.Context) error {
	page, size := pageParams(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	roles, total, err := h.Roles.List(ctx, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, newPageResp(roles, total, page, size))
}

// Get handles GET /v1/system/roles/:id.
func (h *RoleHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	role, err := h.Roles.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "role not found", "")
	}
	return c.JSON(http.StatusOK, role)
}

type roleReq struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Status      *int   `json:"status"`
}

// Create handles POST /v1/system/roles.
func (h *RoleHandler) Create(c echo.Context) error {
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Code) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/code required"})
	}
	status := model.RoleStatusEnabled
	if req.Status != nil {
		status = *req.Status
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	id, err := h.Roles.Create(ctx, model.Role{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Status:      status,
	})
	if err != nil {
		return repoError(c, err, "", "role name or code already exists")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update handles PUT /v1/system/roles/:id.
func (h *RoleHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	role, err := h.Roles.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "role not found", "")
	}
	if strings.TrimSpace(req.Name) != "" {
		role.Name = req.Name
	}
	if strings.TrimSpace(req.Code) != "" {
		role.Code = req.Code
	}
	role.Description = req.Description
	if req.Status != nil {
		role.Status = *req.Status
	}
	if err := h.Roles.Update(ctx, role); err != nil {
		return repoError(c, err, "role not found", "role name or code already exists")
	}
	// Status changes alter which menus grant permissions.
	h.PermCache.Flush(ctx)
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// Delete handles DELETE /v1/system/roles/:id.
func (h *RoleHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Roles.Delete(ctx, id); err != nil {
		return repoError(c, err, "role not found", "")
	}
	h.PermCache.Flush(ctx)
	return c.NoContent(http.StatusNoContent)
}

// Menus handles GET /v1/system/roles/:id/menus and returns the menu ids
// assigned to a role.
func (h *RoleHandler) Menus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Roles.GetByID(ctx, id); err != nil {
		return repoError(c, err, "role not found", "")
	}
	ids, err := h.Roles.MenuIDsForRole(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"menu_ids": ids})
}

type assignMenusReq struct {
	MenuIDs []uint64 `json:"menu_ids"`
}

// AssignMenus handles PUT /v1/system/roles/:id/menus, replacing the role's
// menu set in one transaction.
func (h *RoleHandler) AssignMenus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req assignMenusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Roles.GetByID(ctx, id); err != nil {
		return repoError(c, err, "role not found", "")
	}
	if err := h.Roles.ReplaceMenus(ctx, id, req.MenuIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign menus failed"})
	}
	h.PermCache.Flush(ctx)
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}
