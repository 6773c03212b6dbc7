package handlers

import (
	"handmadehub/internal/middleware"
	"handmadehub/internal/models"
	"handmadehub/internal/repositories"
	"handmadehub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles the public catalog surface plus the
// owner-or-admin promotional and delete actions.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes registers the catalog routes. Reads are public; the
// feature toggle and delete require an artisan or admin token.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleList)
	productRoutes.Get("/featured", h.HandleFeatured)
	productRoutes.Get("/:id", h.HandleGetByID)

	staffOnly := middleware.RoleRequired(models.RoleArtisan, models.RoleAdmin)
	productRoutes.Patch("/:id/feature", requireAuth, staffOnly, h.HandleToggleFeature)
	productRoutes.Delete("/:id", requireAuth, staffOnly, h.HandleDelete)
}

// HandleList returns the catalog, optionally filtered with ?featured=true
// and ?category=.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{Category: c.Query("category")}
	if c.Query("featured") == "true" {
		featured := true
		filter.Featured = &featured
	}
	products, err := h.service.List(filter)
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(products)
}

// HandleFeatured is the explicit featured-slider endpoint.
func (h *ProductHandler) HandleFeatured(c *fiber.Ctx) error {
	featured := true
	products, err := h.service.List(repositories.ProductFilter{Featured: &featured})
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(products)
}

// HandleGetByID returns one product.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	product, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(product)
}

// FeatureRequest optionally sets the flag explicitly; absent means toggle.
type FeatureRequest struct {
	Featured *bool `json:"featured"`
}

// HandleToggleFeature sets or toggles the promotional flag. Artisans may
// only feature their own products; admins may feature any.
func (h *ProductHandler) HandleToggleFeature(c *fiber.Ctx) error {
	if err := h.ensureOwnership(c); err != nil {
		return err
	}
	var req FeatureRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return fail(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	product, err := h.service.SetFeatured(c.Params("id"), req.Featured)
	if err != nil {
		return failFromService(c, err)
	}
	message := "Product unfeatured successfully"
	if product.Featured {
		message = "Product featured successfully"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"product": product,
	})
}

// HandleDelete removes a product (and, best-effort, its uploaded image).
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.ensureOwnership(c); err != nil {
		return err
	}
	if err := h.service.Delete(c.Params("id")); err != nil {
		return failFromService(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted",
	})
}

// ensureOwnership rejects artisans acting on products they don't own.
// Admins pass unconditionally. Returns nil when the caller may proceed;
// otherwise the response has already been written.
func (h *ProductHandler) ensureOwnership(c *fiber.Ctx) error {
	role, _ := middleware.CurrentRole(c)
	if role == models.RoleAdmin {
		return nil
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "unauthenticated", "Not authorized")
	}
	product, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		return failFromService(c, err)
	}
	if product.ArtisanID != user.ID {
		return fail(c, fiber.StatusForbidden, "forbidden", "You do not own this product")
	}
	return nil
}
