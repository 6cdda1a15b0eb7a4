package videoController

import (
	"learnhub/middleware"
	"learnhub/services"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	videos *services.VideoService
}

func New(videos *services.VideoService) *Controller {
	return &Controller{videos: videos}
}

func lessonRef(c *fiber.Ctx) services.LessonRef {
	return c.Locals("lessonRef").(services.LessonRef)
}

func (ctl *Controller) UploadTicket(c *fiber.Ctx) error {
	reqData := c.Locals("validatedTicket").(*services.UploadTicketInput)

	ticket, err := ctl.videos.CreateUploadTicket(c.UserContext(), lessonRef(c), middleware.Actor(c), *reqData)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, ticket)
}

func (ctl *Controller) ConfirmUpload(c *fiber.Ctx) error {
	result, err := ctl.videos.ConfirmUpload(c.UserContext(), lessonRef(c), middleware.Actor(c))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, result)
}

func (ctl *Controller) TogglePreview(c *fiber.Ctx) error {
	isPreview, err := ctl.videos.TogglePreview(c.UserContext(), lessonRef(c), middleware.Actor(c))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"isPreview": isPreview})
}

func (ctl *Controller) Playback(c *fiber.Ctx) error {
	playback, err := ctl.videos.Playback(c.UserContext(), lessonRef(c), middleware.Actor(c))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, playback)
}

func (ctl *Controller) GetProgress(c *fiber.Ctx) error {
	progress, err := ctl.videos.GetProgress(c.UserContext(), middleware.UserID(c), c.Params("videoId"))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, progress)
}

func (ctl *Controller) SaveProgress(c *fiber.Ctx) error {
	reqData := c.Locals("validatedProgress").(*services.SaveProgressInput)

	progress, err := ctl.videos.SaveProgress(c.UserContext(), middleware.UserID(c), c.Params("videoId"), *reqData)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, progress)
}
