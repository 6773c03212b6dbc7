package handlers

import (
	"errors"
	"log"

	"handmadehub/internal/repositories"
	"handmadehub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// fail writes the standard error body: a human-readable message plus a
// stable machine code so clients never have to match on message text.
func fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"code":    code,
	})
}

// failValidation flattens validator errors into a field->reason map.
func failValidation(c *fiber.Ctx, err error) error {
	fieldErrors := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			fieldErrors[e.Field()] = "failed on the '" + e.Tag() + "' rule"
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"code":    "validation_failed",
		"errors":  fieldErrors,
	})
}

// failFromService maps the service error taxonomy onto HTTP statuses.
// Handlers with route-specific status conventions (admin login's 401)
// handle those cases before falling through to this.
func failFromService(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrMissingFields):
		return fail(c, fiber.StatusBadRequest, "missing_fields", "Missing required fields")
	case errors.Is(err, services.ErrEmailTaken):
		return fail(c, fiber.StatusBadRequest, "duplicate_account", "Email already in use")
	case errors.Is(err, services.ErrInvalidCredentials):
		return fail(c, fiber.StatusBadRequest, "invalid_credentials", "Invalid credentials")
	case errors.Is(err, services.ErrWrongAccountType):
		return fail(c, fiber.StatusForbidden, "wrong_account_type", "This account cannot use this login")
	case errors.Is(err, services.ErrNotApproved):
		return fail(c, fiber.StatusForbidden, "not_approved", "Account not approved yet")
	case errors.Is(err, services.ErrIncorrectPassword):
		return fail(c, fiber.StatusUnauthorized, "incorrect_password", "Current password is incorrect")
	case errors.Is(err, services.ErrNothingToUpdate):
		return fail(c, fiber.StatusBadRequest, "nothing_to_update", "Nothing to update")
	case errors.Is(err, services.ErrUnknownStage):
		return fail(c, fiber.StatusBadRequest, "unknown_stage", err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		return fail(c, fiber.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, services.ErrCannotDeleteAdmin):
		return fail(c, fiber.StatusForbidden, "cannot_delete_admin", "Cannot delete admin")
	case errors.Is(err, repositories.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "not_found", "Not found")
	case errors.Is(err, repositories.ErrDuplicateOrderID):
		return fail(c, fiber.StatusConflict, "duplicate_order_id", "Order id already exists")
	}
	log.Printf("Internal error: %v", err)
	return fail(c, fiber.StatusInternalServerError, "internal_error", "Server error")
}
