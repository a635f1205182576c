package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/admin-panel-api/internal/model"
	"github.com/iliyamo/admin-panel-api/internal/repository"
)

// CategoryHandler implements CRUD over product categories.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
}

func NewCategoryHandler(categories *repository.CategoryRepo) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

// List handles GET /v1/categories.  Categories are few, so the whole set
// is returned ordered by sort for client-side tree rendering.
func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	cats, err := h.Categories.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": cats})
}

// Get handles GET /v1/categories/:id.
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "category not found", "")
	}
	return c.JSON(http.StatusOK, cat)
}

type categoryReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    uint64 `json:"parent_id"`
	Sort        int    `json:"sort"`
}

// Create handles POST /v1/categories.
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	id, err := h.Categories.Create(ctx, model.Category{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		Sort:        req.Sort,
	})
	if err != nil {
		return repoError(c, err, "", "category name already exists")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update handles PUT /v1/categories/:id.
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.ParentID == id {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category cannot be its own parent"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Categories.GetByID(ctx, id); err != nil {
		return repoError(c, err, "category not found", "")
	}
	if err := h.Categories.Update(ctx, model.Category{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		Sort:        req.Sort,
	}); err != nil {
		return repoError(c, err, "", "category name already exists")
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// Delete handles DELETE /v1/categories/:id.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Categories.Delete(ctx, id); err != nil {
		return repoError(c, err, "category not found", "")
	}
	return c.NoContent(http.StatusNoContent)
}
