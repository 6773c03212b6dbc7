package handlers

import (
	"handmadehub/internal/middleware"
	"handmadehub/internal/models"
	"handmadehub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ContentHandler handles the simple public collections: blog posts,
// shipping states and the contact form, plus admin triage of the inbox.
type ContentHandler struct {
	service  *services.ContentService
	validate *validator.Validate
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(service *services.ContentService) *ContentHandler {
	return &ContentHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the content routes. The contact inbox read and
// triage endpoints are admin only.
func (h *ContentHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	router.Get("/blogs", h.HandleListBlogs)
	router.Get("/blogs/:slug", h.HandleGetBlog)
	router.Get("/states", h.HandleListStates)

	contactRoutes := router.Group("/contact")
	contactRoutes.Post("/", h.HandleSubmitContact)

	adminOnly := middleware.RoleRequired(models.RoleAdmin)
	contactRoutes.Get("/", requireAuth, adminOnly, h.HandleListContacts)
	contactRoutes.Patch("/:id/handled", requireAuth, adminOnly, h.HandleMarkHandled)
}

// HandleListBlogs returns all posts, newest first.
func (h *ContentHandler) HandleListBlogs(c *fiber.Ctx) error {
	posts, err := h.service.ListBlogs()
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(posts)
}

// HandleGetBlog returns one post by slug.
func (h *ContentHandler) HandleGetBlog(c *fiber.Ctx) error {
	post, err := h.service.GetBlogBySlug(c.Params("slug"))
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(post)
}

// HandleListStates returns the shipping states sorted by name.
func (h *ContentHandler) HandleListStates(c *fiber.Ctx) error {
	states, err := h.service.ListStates()
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(states)
}

// ContactRequest is the public contact-form payload.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required"`
}

// HandleSubmitContact stores a support message.
func (h *ContentHandler) HandleSubmitContact(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	contact := &models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}
	if err := h.service.SubmitContact(contact); err != nil {
		return failFromService(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Message received",
		"data":    contact,
	})
}

// HandleListContacts returns the most recent inbox messages.
func (h *ContentHandler) HandleListContacts(c *fiber.Ctx) error {
	messages, err := h.service.ListContacts(100)
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(messages)
}

// MarkHandledRequest optionally sets the flag; absent defaults to true.
type MarkHandledRequest struct {
	Handled *bool `json:"handled"`
}

// HandleMarkHandled flips the triage flag on one message.
func (h *ContentHandler) HandleMarkHandled(c *fiber.Ctx) error {
	var req MarkHandledRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return fail(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	handled := true
	if req.Handled != nil {
		handled = *req.Handled
	}
	contact, err := h.service.MarkContactHandled(c.Params("id"), handled)
	if err != nil {
		return failFromService(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Contact updated",
		"data":    contact,
	})
}
