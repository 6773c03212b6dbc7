package handlers

import (
	"handmadehub/internal/middleware"
	"handmadehub/internal/models"
	"handmadehub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles checkout, the public lookup resolver and the
// staff-side status advance.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. Checkout and lookup are
// public (guest checkout works by email); advancing status is restricted
// to admins and artisans.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/lookup", h.HandleLookup)
	orderRoutes.Patch("/:orderId/status", requireAuth,
		middleware.RoleRequired(models.RoleAdmin, models.RoleArtisan), h.HandleAdvanceStatus)
}

// OrderItemRequest is one checkout line.
type OrderItemRequest struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Qty       int     `json:"qty" validate:"omitempty,gt=0"`
	Price     float64 `json:"price" validate:"gte=0"`
}

// CreateOrderRequest is the checkout payload. OrderID is optional; the
// server generates one when absent.
type CreateOrderRequest struct {
	OrderID       string              `json:"orderId"`
	Email         string              `json:"email" validate:"required,email"`
	Items         []OrderItemRequest  `json:"items" validate:"required,min=1,dive"`
	Shipping      models.ShippingInfo `json:"shipping"`
	PaymentMethod string              `json:"paymentMethod"`
	ShippingCost  float64             `json:"shippingCost" validate:"gte=0"`
}

// HandleCreateOrder places a new order and returns its ids.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Title:     item.Title,
			Qty:       item.Qty,
			Price:     item.Price,
		})
	}

	order, err := h.service.CreateOrder(services.CreateOrderInput{
		OrderID:       req.OrderID,
		Email:         req.Email,
		Items:         items,
		Shipping:      req.Shipping,
		PaymentMethod: req.PaymentMethod,
		ShippingCost:  req.ShippingCost,
	})
	if err != nil {
		return failFromService(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order created",
		"id":      order.ID,
		"orderId": order.OrderID,
	})
}

// HandleLookup resolves ?query= to a single order view.
func (h *OrderHandler) HandleLookup(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return fail(c, fiber.StatusBadRequest, "missing_query", "Missing query")
	}
	view, err := h.service.Lookup(query)
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(view)
}

// AdvanceStatusRequest names the next canonical stage.
type AdvanceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleAdvanceStatus moves an order forward one stage.
func (h *OrderHandler) HandleAdvanceStatus(c *fiber.Ctx) error {
	var req AdvanceStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	order, err := h.service.AdvanceStatus(c.Params("orderId"), req.Status)
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Order status updated",
		"order":   order,
	})
}
