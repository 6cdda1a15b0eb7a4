package authValidator

import (
	"learnhub/models"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Name     string      `json:"name" validate:"required,max=50"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=user instructor"`
}

// LoginRequest is checked by the auth service so a missing field answers 400
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateDetailsRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=50"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

type SetRoleRequest struct {
	Role models.Role `json:"role" validate:"required,oneof=user instructor admin"`
}

// Register validator middleware
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedRegister", reqData)
		return c.Next()
	}
}

func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

func UpdateDetails() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateDetailsRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedDetails", reqData)
		return c.Next()
	}
}

func UpdatePassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdatePasswordRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedPassword", reqData)
		return c.Next()
	}
}

func ForgotPassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ForgotPasswordRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedForgot", reqData)
		return c.Next()
	}
}

func ResetPassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Params("resettoken") == "" {
			return validators.Reject(c, map[string]string{"resettoken": "Reset token is required!"})
		}
		reqData := new(ResetPasswordRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedReset", reqData)
		return c.Next()
	}
}

func SetRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SetRoleRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedRole", reqData)
		return c.Next()
	}
}
