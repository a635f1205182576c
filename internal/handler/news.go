package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/admin-panel-api/internal/middleware"
	"github.com/iliyamo/admin-panel-api/internal/model"
	"github.com/iliyamo/admin-panel-api/internal/repository"
)

// NewsHandler implements CRUD over news articles.
type NewsHandler struct {
	News *repository.NewsRepo
}

func NewNewsHandler(news *repository.NewsRepo) *NewsHandler {
	return &NewsHandler{News: news}
}

// List handles GET /v1/news.
func (h *NewsHandler) List(c echo.Context) error {
	page, size := pageParams(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	items, total, err := h.News.List(ctx, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, newPageResp(items, total, page, size))
}

// Get handles GET /v1/news/:id and counts the read.
func (h *NewsHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	n, err := h.News.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "news not found", "")
	}
	_ = h.News.IncrementViews(ctx, id) // counter only, failure is not worth a 500
	return c.JSON(http.StatusOK, n)
}

type newsReq struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	IsPublished bool   `json:"is_published"`
}

// Create handles POST /v1/news.  The authenticated user becomes the author.
func (h *NewsHandler) Create(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req newsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	n := model.News{
		Title:       req.Title,
		Content:     req.Content,
		AuthorID:    user.ID,
		IsPublished: req.IsPublished,
	}
	if req.IsPublished {
		now := time.Now().UTC()
		n.PublishedAt = &now
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	id, err := h.News.Create(ctx, n)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create news failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update handles PUT /v1/news/:id.
func (h *NewsHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req newsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	n, err := h.News.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "news not found", "")
	}
	if strings.TrimSpace(req.Title) != "" {
		n.Title = req.Title
	}
	n.Content = req.Content
	if req.IsPublished && !n.IsPublished {
		now := time.Now().UTC()
		n.IsPublished = true
		if n.PublishedAt == nil {
			n.PublishedAt = &now
		}
	} else if !req.IsPublished {
		n.IsPublished = false
	}
	if err := h.News.Update(ctx, n); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update news failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// Publish handles POST /v1/news/:id/publish.
func (h *NewsHandler) Publish(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.News.Publish(ctx, id, time.Now().UTC()); err != nil {
		return repoError(c, err, "news not found", "")
	}
	return c.JSON(http.StatusOK, echo.Map{"published": true})
}

// Delete handles DELETE /v1/news/:id.
func (h *NewsHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.News.Delete(ctx, id); err != nil {
		return repoError(c, err, "news not found", "")
	}
	return c.NoContent(http.StatusNoContent)
}
