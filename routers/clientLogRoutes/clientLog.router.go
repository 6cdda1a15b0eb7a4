package clientLogRoutes

import (
	"time"

	clientLogController "learnhub/controllers/clientLog"
	"learnhub/middleware"
	"learnhub/models"
	clientLogValidator "learnhub/validators/clientLog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Batches per client address per window
const (
	logBatchLimit  = 60
	logBatchWindow = time.Minute
)

func SetupClientLogRoutes(api fiber.Router, ctl *clientLogController.Controller, auth *middleware.Auth) {
	logGroup := api.Group("/client-logs")

	logGroup.Post("/",
		limiter.New(limiter.Config{
			Max:        logBatchLimit,
			Expiration: logBatchWindow,
			LimitReached: func(c *fiber.Ctx) error {
				return middleware.ErrorResponse(c, fiber.StatusTooManyRequests, "Too many log batches, please slow down")
			},
		}),
		auth.Optional, clientLogValidator.Store(), ctl.Store)

	logGroup.Get("/user/:userId", auth.Protect, middleware.Authorize(models.RoleAdmin), ctl.ByUser)
	logGroup.Get("/:sessionId", auth.Protect, middleware.Authorize(models.RoleAdmin), ctl.BySession)
}
