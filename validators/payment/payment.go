package paymentValidator

import (
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type StripeRequest struct {
	CourseID        string `json:"courseId" validate:"required"`
	PaymentMethodID string `json:"paymentMethodId" validate:"required"`
}

type PayPalRequest struct {
	CourseID      string `json:"courseId" validate:"required"`
	PayPalOrderID string `json:"paypalOrderId" validate:"required"`
}

func Stripe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(StripeRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedPayment", reqData)
		return c.Next()
	}
}

func PayPal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PayPalRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedPayment", reqData)
		return c.Next()
	}
}
