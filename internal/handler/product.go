package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/admin-panel-api/internal/model"
	"github.com/iliyamo/admin-panel-api/internal/repository"
)

// ProductHandler implements CRUD over the product catalogue.
type ProductHandler struct {
	Products *repository.ProductRepo
}

func NewProductHandler(products *repository.ProductRepo) *ProductHandler {
	return &ProductHandler{Products: products}
}

// List handles GET /v1/products.
func (h *ProductHandler) List(c echo.Context) error {
	page, size := pageParams(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	products, total, err := h.Products.List(ctx, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, newPageResp(products, total, page, size))
}

// Get handles GET /v1/products/:id.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "product not found", "")
	}
	return c.JSON(http.StatusOK, p)
}

type productReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	IsActive    *bool   `json:"is_active"`
	CategoryID  uint64  `json:"category_id"`
}

func (r productReq) toModel() (model.Product, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return model.Product{}, echo.NewHTTPError(http.StatusBadRequest, "name required")
	}
	if r.Price < 0 {
		return model.Product{}, echo.NewHTTPError(http.StatusBadRequest, "price must not be negative")
	}
	if r.Stock < 0 {
		return model.Product{}, echo.NewHTTPError(http.StatusBadRequest, "stock must not be negative")
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return model.Product{
		Name:        name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		IsActive:    active,
		CategoryID:  r.CategoryID,
	}, nil
}

// Create handles POST /v1/products.
func (h *ProductHandler) Create(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p, err := req.toModel()
	if err != nil {
		return err
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	id, err := h.Products.Create(ctx, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update handles PUT /v1/products/:id.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p, err := req.toModel()
	if err != nil {
		return err
	}
	p.ID = id

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Products.GetByID(ctx, id); err != nil {
		return repoError(c, err, "product not found", "")
	}
	if err := h.Products.Update(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// Delete handles DELETE /v1/products/:id.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Products.Delete(ctx, id); err != nil {
		return repoError(c, err, "product not found", "")
	}
	return c.NoContent(http.StatusNoContent)
}
