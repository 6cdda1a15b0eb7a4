package authRoutes

import (
	authController "learnhub/controllers/auth"
	"learnhub/middleware"
	"learnhub/models"
	authValidator "learnhub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(api fiber.Router, ctl *authController.Controller, auth *middleware.Auth) {
	authGroup := api.Group("/auth")

	authGroup.Post("/register", authValidator.Register(), ctl.Register)
	authGroup.Post("/login", authValidator.Login(), ctl.Login)
	authGroup.Get("/logout", auth.Protect, ctl.Logout)
	authGroup.Get("/me", auth.Protect, ctl.Me)
	authGroup.Put("/updatedetails", auth.Protect, authValidator.UpdateDetails(), ctl.UpdateDetails)
	authGroup.Put("/updatepassword", auth.Protect, authValidator.UpdatePassword(), ctl.UpdatePassword)
	authGroup.Post("/forgotpassword", authValidator.ForgotPassword(), ctl.ForgotPassword)
	authGroup.Put("/resetpassword/:resettoken", authValidator.ResetPassword(), ctl.ResetPassword)

	authGroup.Get("/wishlist", auth.Protect, ctl.Wishlist)
	authGroup.Post("/wishlist/:courseId", auth.Protect, ctl.AddToWishlist)
	authGroup.Delete("/wishlist/:courseId", auth.Protect, ctl.RemoveFromWishlist)

	authGroup.Put("/users/:id/role", auth.Protect, middleware.Authorize(models.RoleAdmin), authValidator.SetRole(), ctl.SetRole)
}
