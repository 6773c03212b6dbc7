package handlers

import (
	"handmadehub/internal/middleware"
	"handmadehub/internal/models"
	"handmadehub/internal/repositories"
	"handmadehub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ArtisanHandler handles the artisan portal: managing own products and
// watching incoming orders.
type ArtisanHandler struct {
	productService *services.ProductService
	orderService   *services.OrderService
	validate       *validator.Validate
}

// NewArtisanHandler creates a new ArtisanHandler.
func NewArtisanHandler(productService *services.ProductService, orderService *services.OrderService) *ArtisanHandler {
	return &ArtisanHandler{
		productService: productService,
		orderService:   orderService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the portal routes behind token verification and
// an artisan-or-admin role check.
func (h *ArtisanHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	artisanRoutes := router.Group("/artisan", requireAuth,
		middleware.RoleRequired(models.RoleArtisan, models.RoleAdmin))
	artisanRoutes.Get("/products", h.HandleListProducts)
	artisanRoutes.Post("/products", h.HandleCreateProduct)
	artisanRoutes.Put("/products/:id", h.HandleUpdateProduct)
	artisanRoutes.Delete("/products/:id", h.HandleDeleteProduct)
	artisanRoutes.Get("/orders", h.HandleListOrders)
	artisanRoutes.Get("/summary", h.HandleSummary)
}

// HandleListProducts returns the caller's own products, newest first.
func (h *ArtisanHandler) HandleListProducts(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "unauthenticated", "Not authorized")
	}
	products, err := h.productService.List(repositories.ProductFilter{ArtisanID: user.ID})
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(products)
}

// ProductRequest is the create/update payload. Image holds a previously
// uploaded path or an absolute URL; file transport itself is handled by an
// external upload service.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Category    string  `json:"category" validate:"omitempty,max=100"`
	Image       string  `json:"image" validate:"omitempty,max=500"`
	Featured    bool    `json:"featured"`
}

// HandleCreateProduct creates a product owned by the caller.
func (h *ArtisanHandler) HandleCreateProduct(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "unauthenticated", "Not authorized")
	}

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	product := &models.Product{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
		ArtisanID:   user.ID,
		Featured:    req.Featured,
	}
	if err := h.productService.Create(product); err != nil {
		return failFromService(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created successfully",
		"product": product,
	})
}

// HandleUpdateProduct replaces the editable fields of an owned product.
func (h *ArtisanHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "unauthenticated", "Not authorized")
	}

	product, err := h.productService.GetByID(c.Params("id"))
	if err != nil {
		return failFromService(c, err)
	}
	role, _ := middleware.CurrentRole(c)
	if role != models.RoleAdmin && product.ArtisanID != user.ID {
		return fail(c, fiber.StatusForbidden, "forbidden", "You do not own this product")
	}

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	product.Name = req.Name
	product.Price = req.Price
	product.Description = req.Description
	product.Category = req.Category
	product.Image = req.Image
	product.Featured = req.Featured
	if err := h.productService.Update(product); err != nil {
		return failFromService(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes an owned product.
func (h *ArtisanHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "unauthenticated", "Not authorized")
	}

	product, err := h.productService.GetByID(c.Params("id"))
	if err != nil {
		return failFromService(c, err)
	}
	role, _ := middleware.CurrentRole(c)
	if role != models.RoleAdmin && product.ArtisanID != user.ID {
		return fail(c, fiber.StatusForbidden, "forbidden", "You do not own this product")
	}

	if err := h.productService.Delete(product.ID); err != nil {
		return failFromService(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// HandleListOrders returns recent orders for fulfillment.
func (h *ArtisanHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.ListRecent(50)
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(orders)
}

// HandleSummary returns the portal counters: the caller's product count
// and the overall order count.
func (h *ArtisanHandler) HandleSummary(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "unauthenticated", "Not authorized")
	}
	productsCount, err := h.productService.CountByArtisan(user.ID)
	if err != nil {
		return failFromService(c, err)
	}
	ordersCount, err := h.orderService.Count()
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(fiber.Map{
		"productsCount": productsCount,
		"ordersCount":   ordersCount,
	})
}
