package courseController

import (
	"learnhub/apperror"
	"learnhub/middleware"
	"learnhub/services"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	svc *services.Services
}

func New(svc *services.Services) *Controller {
	return &Controller{svc: svc}
}

// GetCourses lists the catalog. With enrolled=true it returns the caller's
// enrolled courses instead, which requires a token.
func (ctl *Controller) GetCourses(c *fiber.Ctx) error {
	if c.Query("enrolled") == "true" {
		if middleware.UserID(c) == "" {
			return apperror.Unauthorized("Not authorized to access this route")
		}
		return ctl.EnrolledCourses(c)
	}

	params := c.Locals("validatedList").(*services.CourseListParams)
	result, err := ctl.svc.Catalog.List(c.UserContext(), *params)
	if err != nil {
		return err
	}
	return middleware.ListResponse(c, fiber.StatusOK, result.Courses, result.Count, result.Pagination)
}

func (ctl *Controller) GetCourse(c *fiber.Ctx) error {
	course, err := ctl.svc.Content.GetCourse(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, course)
}

func (ctl *Controller) CreateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*services.CourseInput)

	course, err := ctl.svc.Content.CreateCourse(c.UserContext(), middleware.Actor(c), *reqData)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, course)
}

func (ctl *Controller) UpdateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*services.CourseInput)

	course, err := ctl.svc.Content.UpdateCourse(c.UserContext(), c.Params("id"), middleware.Actor(c), *reqData)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, course)
}

func (ctl *Controller) DeleteCourse(c *fiber.Ctx) error {
	if err := ctl.svc.Content.DeleteCourse(c.UserContext(), c.Params("id"), middleware.Actor(c)); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{})
}

func (ctl *Controller) GetReviews(c *fiber.Ctx) error {
	reviews, err := ctl.svc.Reviews.Reviews(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"count":   len(reviews),
		"data":    reviews,
	})
}

func (ctl *Controller) AddReview(c *fiber.Ctx) error {
	reqData := c.Locals("validatedReview").(*courseValidator.ReviewRequest)

	course, err := ctl.svc.Reviews.AddReview(c.UserContext(), c.Params("id"), middleware.Actor(c), reqData.Rating, reqData.Text)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, course)
}
