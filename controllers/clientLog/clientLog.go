package clientLogController

import (
	"learnhub/middleware"
	"learnhub/services"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	logs *services.ClientLogService
}

func New(logs *services.ClientLogService) *Controller {
	return &Controller{logs: logs}
}

// Store persists a batch. A batch that was received but could not be saved
// answers 202 so clients do not retry it.
func (ctl *Controller) Store(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogs").(*services.ClientLogInput)

	receipt, err := ctl.logs.Store(c.UserContext(), middleware.UserID(c), *reqData)
	if err != nil {
		return err
	}
	if !receipt.Stored {
		return middleware.ErrorResponse(c, fiber.StatusAccepted, "Logs received but could not be stored")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, receipt)
}

func (ctl *Controller) BySession(c *fiber.Ctx) error {
	logs, err := ctl.logs.BySession(c.UserContext(), c.Params("sessionId"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"count":   len(logs),
		"data":    logs,
	})
}

func (ctl *Controller) ByUser(c *fiber.Ctx) error {
	logs, err := ctl.logs.ByUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"count":   len(logs),
		"data":    logs,
	})
}
