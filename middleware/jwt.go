package middleware

import (
	"context"
	"strings"

	"learnhub/models"
	"learnhub/services"

	"github.com/gofiber/fiber/v2"
)

// Authenticator resolves a bearer token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Auth guards routes with the JWT issued at login
type Auth struct {
	auth Authenticator
}

func NewAuth(a Authenticator) *Auth {
	return &Auth{auth: a}
}

// TokenFrom reads the token from the Authorization header, falling back to
// the token cookie
func TokenFrom(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	if token := c.Cookies("token"); token != "" && token != "none" {
		return token
	}
	return ""
}

func setUser(c *fiber.Ctx, u *models.User, token string) {
	c.Locals("user", u)
	c.Locals("userId", u.ID)
	c.Locals("role", u.Role)
	c.Locals("token", token)
}

// Protect rejects the request unless it carries a valid, non-revoked token
func (a *Auth) Protect(c *fiber.Ctx) error {
	token := TokenFrom(c)
	u, err := a.auth.Authenticate(c.UserContext(), token)
	if err != nil {
		return err
	}
	setUser(c, u, token)
	return c.Next()
}

// Optional attaches the user when a valid token is present and lets
// anonymous requests through otherwise
func (a *Auth) Optional(c *fiber.Ctx) error {
	if token := TokenFrom(c); token != "" {
		if u, err := a.auth.Authenticate(c.UserContext(), token); err == nil {
			setUser(c, u, token)
		}
	}
	return c.Next()
}

// UserID is the authenticated user's id, empty for anonymous requests
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("userId").(string)
	return id
}

// Token is the raw token the request was authenticated with
func Token(c *fiber.Ctx) string {
	token, _ := c.Locals("token").(string)
	return token
}

// Actor is the authenticated caller as seen by the services
func Actor(c *fiber.Ctx) services.Actor {
	role, _ := c.Locals("role").(models.Role)
	return services.Actor{ID: UserID(c), Role: role}
}
