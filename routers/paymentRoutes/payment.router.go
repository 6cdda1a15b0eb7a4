package paymentRoutes

import (
	paymentController "learnhub/controllers/payment"
	"learnhub/middleware"
	paymentValidator "learnhub/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(api fiber.Router, ctl *paymentController.Controller, auth *middleware.Auth) {
	paymentGroup := api.Group("/payments", auth.Protect)

	paymentGroup.Post("/stripe", paymentValidator.Stripe(), ctl.Stripe)
	paymentGroup.Post("/paypal", paymentValidator.PayPal(), ctl.PayPal)
	paymentGroup.Get("/history", ctl.History)
	paymentGroup.Get("/:id", ctl.Details)
}
