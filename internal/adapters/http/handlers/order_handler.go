package handlers

import (
	"coderr-backend/internal/core/domain"
	"coderr-backend/internal/core/services"
	"coderr-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService *services.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List returns the caller's orders
// @Summary List my orders
// @Description Orders where the caller is customer or business, newest first
// @Tags Orders
// @Produce json
// @Security TokenAuth
// @Success 200 {array} services.OrderView
// @Failure 401 {object} map[string]string
// @Router /orders/ [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	orders, err := h.orderService.List(c.Context(), actor)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, orders)
}

// Create orders an offer detail
// @Summary Create order
// @Description Customers only; the detail's terms are copied into the order
// @Tags Orders
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param body body services.CreateOrderInput true "Offer detail to order"
// @Success 201 {object} services.OrderView
// @Failure 400 {object} map[string][]string
// @Failure 403 {object} map[string]string
// @Router /orders/ [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	var input services.CreateOrderInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	order, err := h.orderService.Create(c.Context(), actor, &input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Created(c, order)
}

// UpdateStatus changes an order's status
// @Summary Update order status
// @Description Only the business user of the order
// @Tags Orders
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path int true "Order ID"
// @Param body body services.UpdateOrderStatusInput true "New status"
// @Success 200 {object} services.OrderView
// @Failure 400 {object} map[string][]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/ [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var input services.UpdateOrderStatusInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	order, err := h.orderService.UpdateStatus(c.Context(), actor, id, &input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, order)
}

// Delete removes an order
// @Summary Delete order
// @Description Staff only
// @Tags Orders
// @Security TokenAuth
// @Param id path int true "Order ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/ [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.orderService.Delete(c.Context(), actor, id); err != nil {
		return respondError(c, err)
	}

	return response.NoContent(c)
}

// InProgressCount returns the number of open orders of a business user
// @Summary Count open orders
// @Tags Orders
// @Produce json
// @Security TokenAuth
// @Param id path int true "Business user ID"
// @Success 200 {object} map[string]int64
// @Failure 404 {object} map[string]string
// @Router /order-count/{id}/ [get]
func (h *OrderHandler) InProgressCount(c *fiber.Ctx) error {
	return h.count(c, domain.OrderStatusInProgress, "order_count")
}

// CompletedCount returns the number of completed orders of a business user
// @Summary Count completed orders
// @Tags Orders
// @Produce json
// @Security TokenAuth
// @Param id path int true "Business user ID"
// @Success 200 {object} map[string]int64
// @Failure 404 {object} map[string]string
// @Router /completed-order-count/{id}/ [get]
func (h *OrderHandler) CompletedCount(c *fiber.Ctx) error {
	return h.count(c, domain.OrderStatusCompleted, "completed_order_count")
}

func (h *OrderHandler) count(c *fiber.Ctx, status domain.OrderStatus, key string) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	n, err := h.orderService.CountForBusiness(c.Context(), id, status)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, fiber.Map{key: n})
}
