package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/admin-panel-api/internal/cache"
	"github.com/iliyamo/admin-panel-api/internal/middleware"
	"github.com/iliyamo/admin-panel-api/internal/model"
	"github.com/iliyamo/admin-panel-api/internal/repository"
	"github.com/iliyamo/admin-panel-api/internal/service"
)

// MenuHandler exposes the menu table and the caller-scoped menu tree.
type MenuHandler struct {
	Menus     *repository.MenuRepo
	Tree      *service.MenuService
	PermCache *cache.PermissionCache
}

func NewMenuHandler(menus *repository.MenuRepo, tree *service.MenuService, permCache *cache.PermissionCache) *MenuHandler {
	return &MenuHandler{Menus: menus, Tree: tree, PermCache: permCache}
}

// List handles GET /v1/system/menus (flat, paginated).
func (h *MenuHandler) List(c echo.Context) error {
	page, size := pageParams(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	menus, total, err := h.Menus.List(ctx, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, newPageResp(menus, total, page, size))
}

// GetTree handles GET /v1/system/menus/tree and returns the menu forest
// visible to the calling user: everything for superusers, the role-filtered
// ancestor-closed forest for everyone else.
func (h *MenuHandler) GetTree(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	tree, err := h.Tree.TreeFor(ctx, user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build tree failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"menus": tree})
}

// Get handles GET /v1/system/menus/:id.
func (h *MenuHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	m, err := h.Menus.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "menu not found", "")
	}
	return c.JSON(http.StatusOK, m)
}

type menuReq struct {
	ParentID   uint64 `json:"parent_id"`
	Title      string `json:"title"`
	Name       string `json:"name"`
	Path       string `json:"path"`
	Component  string `json:"component"`
	Icon       string `json:"icon"`
	Sort       int    `json:"sort"`
	MenuType   *int   `json:"menu_type"`
	Permission string `json:"permission"`
	Status     *int   `json:"status"`
	IsVisible  *bool  `json:"is_visible"`
}

func (r menuReq) toModel() model.Menu {
	m := model.Menu{
		ParentID:   r.ParentID,
		Title:      r.Title,
		Name:       r.Name,
		Path:       r.Path,
		Component:  r.Component,
		Icon:       r.Icon,
		Sort:       r.Sort,
		MenuType:   model.MenuTypeMenu,
		Permission: strings.TrimSpace(r.Permission),
		Status:     model.MenuStatusEnabled,
		IsVisible:  true,
	}
	if r.MenuType != nil {
		m.MenuType = *r.MenuType
	}
	if r.Status != nil {
		m.Status = *r.Status
	}
	if r.IsVisible != nil {
		m.IsVisible = *r.IsVisible
	}
	return m
}

// Create handles POST /v1/system/menus.
func (h *MenuHandler) Create(c echo.Context) error {
	var req menuReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/name required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	id, err := h.Menus.Create(ctx, req.toModel())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create menu failed"})
	}
	h.PermCache.Flush(ctx)
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update handles PUT /v1/system/menus/:id.
func (h *MenuHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req menuReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Menus.GetByID(ctx, id); err != nil {
		return repoError(c, err, "menu not found", "")
	}
	m := req.toModel()
	m.ID = id
	if err := h.Menus.Update(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update menu failed"})
	}
	h.PermCache.Flush(ctx)
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// Delete handles DELETE /v1/system/menus/:id.
func (h *MenuHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Menus.Delete(ctx, id); err != nil {
		return repoError(c, err, "menu not found", "")
	}
	h.PermCache.Flush(ctx)
	return c.NoContent(http.StatusNoContent)
}
