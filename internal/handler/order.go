package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/admin-panel-api/internal/model"
	"github.com/iliyamo/admin-panel-api/internal/repository"
)

// OrderHandler implements CRUD and status transitions over orders.
type OrderHandler struct {
	Orders *repository.OrderRepo
}

func NewOrderHandler(orders *repository.OrderRepo) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

// List handles GET /v1/orders.
func (h *OrderHandler) List(c echo.Context) error {
	page, size := pageParams(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	orders, total, err := h.Orders.List(ctx, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, newPageResp(orders, total, page, size))
}

// Get handles GET /v1/orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	o, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "order not found", "")
	}
	return c.JSON(http.StatusOK, o)
}

type orderReq struct {
	OrderNo       string  `json:"order_no"`
	UserID        uint64  `json:"user_id"`
	TotalAmount   float64 `json:"total_amount"`
	PaymentMethod string  `json:"payment_method"`
}

// Create handles POST /v1/orders.
func (h *OrderHandler) Create(c echo.Context) error {
	var req orderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.OrderNo) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_no required"})
	}
	if req.TotalAmount < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_amount must not be negative"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	id, err := h.Orders.Create(ctx, model.Order{
		OrderNo:       strings.TrimSpace(req.OrderNo),
		UserID:        req.UserID,
		TotalAmount:   req.TotalAmount,
		Status:        model.OrderStatusPending,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return repoError(c, err, "", "order number already exists")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

type orderStatusReq struct {
	Status int    `json:"status"`
	Reason string `json:"reason"`
}

// UpdateStatus handles PUT /v1/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req orderStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status < model.OrderStatusPending || req.Status > model.OrderStatusCancelled {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Orders.UpdateStatus(ctx, id, req.Status, req.Reason, time.Now().UTC()); err != nil {
		return repoError(c, err, "order not found", "")
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// Delete handles DELETE /v1/orders/:id.
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Orders.Delete(ctx, id); err != nil {
		return repoError(c, err, "order not found", "")
	}
	return c.NoContent(http.StatusNoContent)
}
