package videoValidator

import (
	"learnhub/services"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// LessonRef resolves :courseId/:sectionIndex/:lessonIndex
func LessonRef() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)
		sectionIndex, err := c.ParamsInt("sectionIndex")
		if err != nil || sectionIndex < 0 {
			errors["sectionIndex"] = "Section index must be a non-negative number!"
		}
		lessonIndex, err := c.ParamsInt("lessonIndex")
		if err != nil || lessonIndex < 0 {
			errors["lessonIndex"] = "Lesson index must be a non-negative number!"
		}
		if len(errors) > 0 {
			return validators.Reject(c, errors)
		}
		c.Locals("lessonRef", services.LessonRef{
			CourseID:     c.Params("courseId"),
			SectionIndex: sectionIndex,
			LessonIndex:  lessonIndex,
		})
		return c.Next()
	}
}

func UploadTicket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(services.UploadTicketInput)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return validators.BadBody(c)
			}
		}
		if reqData.FileSize < 0 {
			return validators.Reject(c, map[string]string{"fileSize": "File size cannot be negative!"})
		}
		c.Locals("validatedTicket", reqData)
		return c.Next()
	}
}

// Progress only decodes; the video service answers 400 when currentTime or
// duration is missing
func Progress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(services.SaveProgressInput)
		if err := c.BodyParser(reqData); err != nil {
			return validators.BadBody(c)
		}
		errors := make(map[string]string)
		if reqData.CurrentTime != nil && *reqData.CurrentTime < 0 {
			errors["currentTime"] = "Current time cannot be negative!"
		}
		if reqData.Duration != nil && *reqData.Duration < 0 {
			errors["duration"] = "Duration cannot be negative!"
		}
		if len(errors) > 0 {
			return validators.Reject(c, errors)
		}
		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}
