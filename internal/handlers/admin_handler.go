package handlers

import (
	"errors"
	"time"

	"handmadehub/internal/middleware"
	"handmadehub/internal/models"
	"handmadehub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the admin console: login, artisan approval and the
// dashboard summary.
type AdminHandler struct {
	authService  *services.AuthService
	adminService *services.AdminService
	validate     *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(authService *services.AuthService, adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		authService:  authService,
		adminService: adminService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the admin routes. Everything except login sits
// behind token verification plus an admin-role check.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	adminRoutes := router.Group("/admin")
	adminRoutes.Post("/login", h.HandleLogin)

	protected := adminRoutes.Group("", requireAuth, middleware.RoleRequired(models.RoleAdmin))
	protected.Get("/summary", h.HandleSummary)
	protected.Get("/artisans", h.HandleListArtisans)
	protected.Put("/artisan/:id/approve", h.HandleApproveArtisan)
	protected.Delete("/artisan/:id/delete", h.HandleDeleteArtisan)
	// Alias kept for frontend compatibility.
	protected.Delete("/artisan/:id", h.HandleDeleteArtisan)
}

// HandleLogin authenticates against the admin lane. On success the token is
// returned in the body and also set as an httpOnly cookie for the console.
// Unlike the customer lane, invalid credentials answer 401 here.
func (h *AdminHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	token, user, err := h.authService.Login(services.AdminLane, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return fail(c, fiber.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		}
		return failFromService(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{
		"message": "Logged in",
		"token":   token,
		"user":    user.Public(),
	})
}

// HandleSummary returns the dashboard counters.
func (h *AdminHandler) HandleSummary(c *fiber.Ctx) error {
	summary, err := h.adminService.GetSummary()
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(summary)
}

// HandleListArtisans returns all artisan accounts.
func (h *AdminHandler) HandleListArtisans(c *fiber.Ctx) error {
	artisans, err := h.adminService.ListArtisans()
	if err != nil {
		return failFromService(c, err)
	}
	public := make([]models.User, 0, len(artisans))
	for _, artisan := range artisans {
		public = append(public, artisan.Public())
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"artisans": public,
	})
}

// HandleApproveArtisan flips the approval and verification flags.
func (h *AdminHandler) HandleApproveArtisan(c *fiber.Ctx) error {
	if _, err := h.adminService.ApproveArtisan(c.Params("id")); err != nil {
		return failFromService(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Artisan approved",
	})
}

// HandleDeleteArtisan removes a non-admin account; admin targets are
// rejected.
func (h *AdminHandler) HandleDeleteArtisan(c *fiber.Ctx) error {
	if err := h.adminService.DeleteArtisan(c.Params("id")); err != nil {
		return failFromService(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Artisan deleted",
	})
}
