package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// StaffRole is carried in staff tokens.
type StaffRole string

const (
	StaffRoleAgent StaffRole = "agent"
	StaffRoleAdmin StaffRole = "admin"
)

// RequireStaffRole ensures the staff principal has one of the allowed roles.
// With no roles given any authenticated staff member passes.
func RequireStaffRole(allowed ...StaffRole) fiber.Handler {
	allowedSet := make(map[StaffRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusForbidden, "staff role required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}
