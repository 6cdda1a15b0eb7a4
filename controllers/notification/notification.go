package notificationController

import (
	"learnhub/middleware"
	"learnhub/services"
	notificationValidator "learnhub/validators/notification"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	notifications *services.NotificationService
}

func New(notifications *services.NotificationService) *Controller {
	return &Controller{notifications: notifications}
}

// List returns one page of the caller's notifications, newest first. count
// is the length of the page.
func (ctl *Controller) List(c *fiber.Ctx) error {
	reqData := c.Locals("validatedList").(*notificationValidator.ListRequest)

	list, err := ctl.notifications.List(c.UserContext(), middleware.UserID(c), reqData.Unread, reqData.Page)
	if err != nil {
		return err
	}
	return middleware.ListResponse(c, fiber.StatusOK, list.Notifications, int64(len(list.Notifications)), list.Pagination)
}

func (ctl *Controller) MarkRead(c *fiber.Ctx) error {
	notification, err := ctl.notifications.MarkRead(c.UserContext(), c.Params("id"), middleware.Actor(c))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, notification)
}

func (ctl *Controller) MarkAllRead(c *fiber.Ctx) error {
	if err := ctl.notifications.MarkAllRead(c.UserContext(), middleware.UserID(c)); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{})
}

func (ctl *Controller) Delete(c *fiber.Ctx) error {
	if err := ctl.notifications.Delete(c.UserContext(), c.Params("id"), middleware.Actor(c)); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{})
}

func (ctl *Controller) Create(c *fiber.Ctx) error {
	reqData := c.Locals("validatedNotification").(*services.NotificationInput)

	notification, err := ctl.notifications.Create(c.UserContext(), middleware.Actor(c), *reqData)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, notification)
}
