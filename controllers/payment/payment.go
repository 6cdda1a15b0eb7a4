package paymentController

import (
	"learnhub/middleware"
	"learnhub/services"
	paymentValidator "learnhub/validators/payment"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	payments *services.PaymentService
}

func New(payments *services.PaymentService) *Controller {
	return &Controller{payments: payments}
}

func (ctl *Controller) Stripe(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPayment").(*paymentValidator.StripeRequest)

	receipt, err := ctl.payments.ProcessStripe(c.UserContext(), middleware.UserID(c), reqData.CourseID, reqData.PaymentMethodID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, receipt)
}

func (ctl *Controller) PayPal(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPayment").(*paymentValidator.PayPalRequest)

	receipt, err := ctl.payments.ProcessPayPal(c.UserContext(), middleware.UserID(c), reqData.CourseID, reqData.PayPalOrderID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, receipt)
}

func (ctl *Controller) History(c *fiber.Ctx) error {
	payments, err := ctl.payments.History(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"count":   len(payments),
		"data":    payments,
	})
}

func (ctl *Controller) Details(c *fiber.Ctx) error {
	payment, err := ctl.payments.Details(c.UserContext(), c.Params("id"), middleware.Actor(c))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, payment)
}
