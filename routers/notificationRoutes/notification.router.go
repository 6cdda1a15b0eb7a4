package notificationRoutes

import (
	notificationController "learnhub/controllers/notification"
	"learnhub/middleware"
	"learnhub/models"
	notificationValidator "learnhub/validators/notification"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(api fiber.Router, ctl *notificationController.Controller, auth *middleware.Auth) {
	notificationGroup := api.Group("/notifications", auth.Protect)

	notificationGroup.Get("/", notificationValidator.List(), ctl.List)
	notificationGroup.Post("/", middleware.Authorize(models.RoleAdmin), notificationValidator.Create(), ctl.Create)
	notificationGroup.Put("/read-all", ctl.MarkAllRead)
	notificationGroup.Put("/:id/read", ctl.MarkRead)
	notificationGroup.Delete("/:id", ctl.Delete)
}
