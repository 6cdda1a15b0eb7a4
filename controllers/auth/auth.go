package authController

import (
	"time"

	"learnhub/config"
	"learnhub/middleware"
	"learnhub/services"
	authValidator "learnhub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	auth *services.AuthService
	cfg  *config.Config
}

func New(auth *services.AuthService, cfg *config.Config) *Controller {
	return &Controller{auth: auth, cfg: cfg}
}

// sendTokenResponse sets the token cookie and returns the token with the user
func (ctl *Controller) sendTokenResponse(c *fiber.Ctx, status int, session *services.Session) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    session.Token,
		Expires:  time.Now().Add(time.Duration(ctl.cfg.CookieExpireDays) * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   ctl.cfg.IsProduction(),
	})
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"token":   session.Token,
		"data":    session.User,
	})
}

func (ctl *Controller) Register(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRegister").(*authValidator.RegisterRequest)

	session, err := ctl.auth.Register(c.UserContext(), services.RegisterInput{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: reqData.Password,
		Role:     reqData.Role,
	})
	if err != nil {
		return err
	}
	return ctl.sendTokenResponse(c, fiber.StatusOK, session)
}

func (ctl *Controller) Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)

	session, err := ctl.auth.Login(c.UserContext(), reqData.Email, reqData.Password)
	if err != nil {
		return err
	}
	return ctl.sendTokenResponse(c, fiber.StatusOK, session)
}

// Logout revokes the current token and clears the cookie
func (ctl *Controller) Logout(c *fiber.Ctx) error {
	if err := ctl.auth.Logout(c.UserContext(), middleware.UserID(c), middleware.Token(c)); err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "none",
		Expires:  time.Now().Add(10 * time.Second),
		HTTPOnly: true,
	})
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{})
}

func (ctl *Controller) Me(c *fiber.Ctx) error {
	user, err := ctl.auth.Me(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, user)
}

func (ctl *Controller) UpdateDetails(c *fiber.Ctx) error {
	reqData := c.Locals("validatedDetails").(*authValidator.UpdateDetailsRequest)

	user, err := ctl.auth.UpdateDetails(c.UserContext(), middleware.UserID(c), services.UpdateDetailsInput{
		Name:  reqData.Name,
		Email: reqData.Email,
	})
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, user)
}

func (ctl *Controller) UpdatePassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPassword").(*authValidator.UpdatePasswordRequest)

	session, err := ctl.auth.UpdatePassword(c.UserContext(), middleware.UserID(c), reqData.CurrentPassword, reqData.NewPassword)
	if err != nil {
		return err
	}
	return ctl.sendTokenResponse(c, fiber.StatusOK, session)
}

// ForgotPassword issues a reset token. Outside production the token is
// echoed back since no mail transport is wired.
func (ctl *Controller) ForgotPassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedForgot").(*authValidator.ForgotPasswordRequest)

	ticket, err := ctl.auth.ForgotPassword(c.UserContext(), reqData.Email)
	if err != nil {
		return err
	}
	body := fiber.Map{"success": true, "data": "Email sent"}
	if !ctl.cfg.IsProduction() {
		body["resetToken"] = ticket.Token
	}
	return c.Status(fiber.StatusOK).JSON(body)
}

func (ctl *Controller) ResetPassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedReset").(*authValidator.ResetPasswordRequest)

	session, err := ctl.auth.ResetPassword(c.UserContext(), c.Params("resettoken"), reqData.Password)
	if err != nil {
		return err
	}
	return ctl.sendTokenResponse(c, fiber.StatusOK, session)
}

func (ctl *Controller) Wishlist(c *fiber.Ctx) error {
	courses, err := ctl.auth.Wishlist(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"count":   len(courses),
		"data":    courses,
	})
}

func (ctl *Controller) AddToWishlist(c *fiber.Ctx) error {
	ids, err := ctl.auth.AddToWishlist(c.UserContext(), middleware.UserID(c), c.Params("courseId"))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, ids)
}

func (ctl *Controller) RemoveFromWishlist(c *fiber.Ctx) error {
	ids, err := ctl.auth.RemoveFromWishlist(c.UserContext(), middleware.UserID(c), c.Params("courseId"))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, ids)
}

func (ctl *Controller) SetRole(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRole").(*authValidator.SetRoleRequest)

	user, err := ctl.auth.SetRole(c.UserContext(), middleware.Actor(c), c.Params("id"), reqData.Role)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, user)
}
