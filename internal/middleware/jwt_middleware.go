package middleware

import (
	"strings"

	"handmadehub/internal/models"
	"handmadehub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Context keys set by AuthRequired for downstream handlers.
const (
	LocalUser   = "user"
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// AuthRequired verifies a bearer token and resolves it to a live user. The
// Authorization header is the primary transport; the httpOnly "token"
// cookie set at admin login is accepted as a fallback.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c.Get("Authorization"))
		if tokenString == "" {
			tokenString = c.Cookies("token")
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized. No token.",
				"code":    "unauthenticated",
			})
		}

		user, role, err := authService.Authenticate(tokenString)
		if err != nil {
			// Expired and tampered tokens are indistinguishable here,
			// as is a subject deleted after issuance.
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token.",
				"code":    "invalid_token",
			})
		}

		c.Locals(LocalUser, user)
		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RoleRequired permits the request only when the authenticated role claim
// is in the allowed set. Must run after AuthRequired; the role comes from
// the token claim, so role changes apply on next login.
func RoleRequired(allowedRoles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(models.Role)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Role missing. Access denied.",
				"code":    "forbidden",
			})
		}
		if !role.In(allowedRoles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Access denied. Role '" + role.String() + "' not allowed.",
				"code":    "forbidden",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by AuthRequired.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(LocalUser).(*models.User)
	return user, ok
}

// CurrentRole returns the authenticated role claim stored by AuthRequired.
func CurrentRole(c *fiber.Ctx) (models.Role, bool) {
	role, ok := c.Locals(LocalRole).(models.Role)
	return role, ok
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
