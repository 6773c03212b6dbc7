package handlers

import (
	"handmadehub/internal/models"
	"handmadehub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles the three login lanes' public endpoints: customer
// registration/login and artisan registration/login. Admin login lives on
// the admin router.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/artisan/register", h.HandleArtisanRegister)
	authRoutes.Post("/artisan/login", h.HandleArtisanLogin)
}

// RegisterRequest is the body for both registration endpoints. Name is
// optional for artisans, who get a placeholder until they fill a profile.
type RegisterRequest struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the body for all three login lanes.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleRegister creates a customer account, immediately usable, and
// returns a session token alongside the public user projection.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	user, err := h.authService.Register(services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}, models.RoleCustomer)
	if err != nil {
		return failFromService(c, err)
	}

	token, err := h.authService.TokenForUser(user)
	if err != nil {
		return failFromService(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user.Public(),
	})
}

// HandleLogin authenticates against the customer lane.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	token, user, err := h.authService.Login(services.CustomerLane, req.Email, req.Password)
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(fiber.Map{
		"token": token,
		"user":  user.Public(),
	})
}

// HandleArtisanRegister creates an artisan account that stays unusable for
// the artisan portal until an admin approves it.
func (h *AuthHandler) HandleArtisanRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}
	if req.Name == "" {
		req.Name = "Artisan"
	}

	user, err := h.authService.Register(services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}, models.RoleArtisan)
	if err != nil {
		return failFromService(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Artisan registered",
		"user":    fiber.Map{"id": user.ID, "email": user.Email},
	})
}

// HandleArtisanLogin authenticates against the artisan lane. A customer
// credential fails here with a wrong-account-type rejection even when the
// password is correct; unapproved artisans are turned away after the
// password check.
func (h *AuthHandler) HandleArtisanLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	token, user, err := h.authService.Login(services.ArtisanLane, req.Email, req.Password)
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(fiber.Map{
		"token": token,
		"user":  user.Public(),
	})
}
