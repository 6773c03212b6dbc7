package handlers

import (
	"handmadehub/internal/middleware"
	"handmadehub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles self-service profile endpoints for any authenticated
// role.
type UserHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the profile routes behind token verification.
// GET /auth/me is an alias the storefront still calls.
func (h *UserHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	router.Get("/auth/me", requireAuth, h.HandleMe)

	userRoutes := router.Group("/users", requireAuth)
	userRoutes.Get("/me", h.HandleMe)
	userRoutes.Put("/me", h.HandleUpdateMe)
	userRoutes.Post("/change-password", h.HandleChangePassword)
}

// HandleMe returns the authenticated user's own record.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "unauthenticated", "Not authorized")
	}
	return c.JSON(fiber.Map{"user": user.Public()})
}

// UpdateProfileRequest carries optional profile fields; absent fields are
// left untouched.
type UpdateProfileRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=100"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Address *string `json:"address" validate:"omitempty,max=255"`
}

// HandleUpdateMe updates name/phone/address on the caller's own record.
func (h *UserHandler) HandleUpdateMe(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "unauthenticated", "Not authorized")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	updated, err := h.authService.UpdateProfile(user.ID, services.ProfileUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated",
		"user":    updated.Public(),
	})
}

// ChangePasswordRequest accepts the legacy oldPassword alias some frontend
// builds still send.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// HandleChangePassword verifies the current password before persisting the
// new hash.
func (h *UserHandler) HandleChangePassword(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "unauthenticated", "Not authorized")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	current := req.CurrentPassword
	if current == "" {
		current = req.OldPassword
	}
	if current == "" || req.NewPassword == "" {
		return fail(c, fiber.StatusBadRequest, "missing_fields",
			"Both currentPassword and newPassword are required")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	if err := h.authService.ChangePassword(user.ID, current, req.NewPassword); err != nil {
		return failFromService(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}
