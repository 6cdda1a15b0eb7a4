package courseController

import (
	"learnhub/middleware"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func (ctl *Controller) Enroll(c *fiber.Ctx) error {
	enrollment, err := ctl.svc.Enrollment.Enroll(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, enrollment)
}

func (ctl *Controller) UpdateProgress(c *fiber.Ctx) error {
	reqData := c.Locals("validatedProgress").(*courseValidator.ProgressRequest)

	result, err := ctl.svc.Enrollment.UpdateProgress(c.UserContext(), middleware.UserID(c), c.Params("id"), reqData.LessonID, reqData.Completed)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, result)
}

func (ctl *Controller) EnrolledCourses(c *fiber.Ctx) error {
	courses, err := ctl.svc.Enrollment.EnrolledCourses(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"count":   len(courses),
		"data":    courses,
	})
}

func (ctl *Controller) Certificates(c *fiber.Ctx) error {
	certificates, err := ctl.svc.Enrollment.Certificates(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"count":   len(certificates),
		"data":    certificates,
	})
}
