package courseController

import (
	"learnhub/middleware"
	"learnhub/services"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func (ctl *Controller) AddSection(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSection").(*courseValidator.SectionRequest)

	section, err := ctl.svc.Content.AddSection(c.UserContext(), c.Params("id"), middleware.Actor(c), reqData.Title)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, section)
}

func (ctl *Controller) UpdateSection(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSection").(*courseValidator.SectionRequest)

	section, err := ctl.svc.Content.UpdateSection(c.UserContext(), c.Params("id"), c.Params("sectionId"), middleware.Actor(c), reqData.Title)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, section)
}

func (ctl *Controller) DeleteSection(c *fiber.Ctx) error {
	if err := ctl.svc.Content.DeleteSection(c.UserContext(), c.Params("id"), c.Params("sectionId"), middleware.Actor(c)); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{})
}

func (ctl *Controller) AddLesson(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLesson").(*courseValidator.LessonRequest)

	lesson, err := ctl.svc.Content.AddLesson(c.UserContext(), c.Params("id"), c.Params("sectionId"), middleware.Actor(c), services.LessonInput{
		Title:       reqData.Title,
		Description: reqData.Description,
		VideoURL:    reqData.VideoURL,
		Duration:    reqData.Duration,
		Resources:   reqData.Resources,
		IsPreview:   reqData.IsPreview,
	})
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, lesson)
}

func (ctl *Controller) UpdateLesson(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLesson").(*services.LessonPatch)

	lesson, err := ctl.svc.Content.UpdateLesson(c.UserContext(), c.Params("id"), c.Params("sectionId"), c.Params("lessonId"), middleware.Actor(c), *reqData)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, lesson)
}

func (ctl *Controller) DeleteLesson(c *fiber.Ctx) error {
	if err := ctl.svc.Content.DeleteLesson(c.UserContext(), c.Params("id"), c.Params("sectionId"), c.Params("lessonId"), middleware.Actor(c)); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{})
}
