package middleware

import (
	"fmt"
	"slices"

	"learnhub/apperror"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
)

// Authorize returns a middleware that lets only the given roles through.
// It must run after Protect.
func Authorize(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(models.Role)
		if !slices.Contains(roles, role) {
			return apperror.Forbidden(fmt.Sprintf("Role %s is not authorized to access this route", role))
		}
		return c.Next()
	}
}
