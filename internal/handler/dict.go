package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/admin-panel-api/internal/model"
	"github.com/iliyamo/admin-panel-api/internal/repository"
)

// DictHandler implements CRUD over dictionaries and their data rows.
type DictHandler struct {
	Dicts *repository.DictRepo
}

func NewDictHandler(dicts *repository.DictRepo) *DictHandler {
	return &DictHandler{Dicts: dicts}
}

// List handles GET /v1/system/dicts.
func (h *DictHandler) List(c echo.Context) error {
	page, size := pageParams(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	dicts, total, err := h.Dicts.List(ctx, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, newPageResp(dicts, total, page, size))
}

// Get handles GET /v1/system/dicts/:id and includes the data rows.
func (h *DictHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	d, err := h.Dicts.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "dict not found", "")
	}
	data, err := h.Dicts.DataForDict(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"dict": d, "data": data})
}

type dictReq struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Create handles POST /v1/system/dicts.
func (h *DictHandler) Create(c echo.Context) error {
	var req dictReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Code) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/code required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	id, err := h.Dicts.Create(ctx, model.Dict{Name: req.Name, Code: req.Code, Description: req.Description})
	if err != nil {
		return repoError(c, err, "", "dict code already exists")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update handles PUT /v1/system/dicts/:id.
func (h *DictHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req dictReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	d, err := h.Dicts.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "dict not found", "")
	}
	if strings.TrimSpace(req.Name) != "" {
		d.Name = req.Name
	}
	if strings.TrimSpace(req.Code) != "" {
		d.Code = req.Code
	}
	d.Description = req.Description
	if err := h.Dicts.Update(ctx, d); err != nil {
		return repoError(c, err, "dict not found", "dict code already exists")
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// Delete handles DELETE /v1/system/dicts/:id.
func (h *DictHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Dicts.Delete(ctx, id); err != nil {
		return repoError(c, err, "dict not found", "")
	}
	return c.NoContent(http.StatusNoContent)
}

type dictDataReq struct {
	Label     string `json:"label"`
	Value     string `json:"value"`
	Sort      int    `json:"sort"`
	IsDefault bool   `json:"is_default"`
}

// CreateData handles POST /v1/system/dicts/:id/data.
func (h *DictHandler) CreateData(c echo.Context) error {
	dictID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req dictDataReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Label) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "label required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Dicts.GetByID(ctx, dictID); err != nil {
		return repoError(c, err, "dict not found", "")
	}
	id, err := h.Dicts.CreateData(ctx, model.DictData{
		DictID:    dictID,
		Label:     req.Label,
		Value:     req.Value,
		Sort:      req.Sort,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create dict data failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// DeleteData handles DELETE /v1/system/dict-data/:id.
func (h *DictHandler) DeleteData(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Dicts.DeleteData(ctx, id); err != nil {
		return repoError(c, err, "dict data not found", "")
	}
	return c.NoContent(http.StatusNoContent)
}
