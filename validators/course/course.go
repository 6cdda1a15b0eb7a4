package courseValidator

import (
	"slices"
	"strings"

	"learnhub/models"
	"learnhub/services"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type SectionRequest struct {
	Title string `json:"title" validate:"required,max=100"`
}

type LessonRequest struct {
	Title       string            `json:"title" validate:"required,max=100"`
	Description string            `json:"description" validate:"max=1000"`
	VideoURL    string            `json:"videoUrl" validate:"omitempty,url"`
	Duration    string            `json:"duration"`
	Resources   []models.Resource `json:"resources"`
	IsPreview   bool              `json:"isPreview"`
}

type ProgressRequest struct {
	LessonID  string `json:"lessonId"`
	Completed bool   `json:"completed"`
}

type ReviewRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Text   string `json:"text" validate:"max=500"`
}

// CourseList parses the listing query into typed filters
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		params, err := services.ParseCourseQuery(c.Queries())
		if err != nil {
			return err
		}
		c.Locals("validatedList", &params)
		return c.Next()
	}
}

func checkCourse(in *services.CourseInput, creating bool) map[string]string {
	errors := make(map[string]string)

	if creating || in.Title != nil {
		if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
			errors["title"] = "Please add a course title"
		} else if len(*in.Title) > 100 {
			errors["title"] = "Title cannot be more than 100 characters"
		}
	}
	if creating || in.Description != nil {
		if in.Description == nil || strings.TrimSpace(*in.Description) == "" {
			errors["description"] = "Please add a description"
		}
	}
	if in.ShortDescription != nil && len(*in.ShortDescription) > 200 {
		errors["shortDescription"] = "Short description cannot be more than 200 characters"
	}
	if creating && in.Price == nil {
		errors["price"] = "Please add a price"
	}
	if in.Price != nil && *in.Price < 0 {
		errors["price"] = "Price cannot be negative"
	}
	if in.DiscountPrice != nil && *in.DiscountPrice < 0 {
		errors["discountPrice"] = "Discount price cannot be negative"
	}
	if in.Level != nil && !slices.Contains(models.CourseLevels, *in.Level) {
		errors["level"] = "Level must be one of " + strings.Join(models.CourseLevels, ", ")
	}
	if creating && (in.Category == nil || strings.TrimSpace(*in.Category) == "") {
		errors["category"] = "Please add a category"
	}
	return errors
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(services.CourseInput)
		if err := c.BodyParser(reqData); err != nil {
			return validators.BadBody(c)
		}
		if errors := checkCourse(reqData, true); len(errors) > 0 {
			return validators.Reject(c, errors)
		}
		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(services.CourseInput)
		if err := c.BodyParser(reqData); err != nil {
			return validators.BadBody(c)
		}
		if errors := checkCourse(reqData, false); len(errors) > 0 {
			return validators.Reject(c, errors)
		}
		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func Section() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SectionRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedSection", reqData)
		return c.Next()
	}
}

func Lesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LessonRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// LessonUpdate accepts any subset of lesson fields, video fields included
func LessonUpdate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(services.LessonPatch)
		if err := c.BodyParser(reqData); err != nil {
			return validators.BadBody(c)
		}

		errors := make(map[string]string)
		if reqData.Title != nil && strings.TrimSpace(*reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if p := reqData.VideoProvider; p != nil {
			switch *p {
			case models.VideoProviderNone, models.VideoProviderVimeo, models.VideoProviderYouTube, models.VideoProviderS3:
			default:
				errors["videoProvider"] = "Invalid video provider"
			}
		}
		if s := reqData.VideoStatus; s != nil {
			switch *s {
			case models.VideoStatusNone, models.VideoStatusUploading, models.VideoStatusProcessing,
				models.VideoStatusReady, models.VideoStatusError:
			default:
				errors["videoStatus"] = "Invalid video status"
			}
		}
		if len(errors) > 0 {
			return validators.Reject(c, errors)
		}
		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// Progress leaves the lesson id check to the enrollment service, which
// answers 400 when it is missing
func Progress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ProgressRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}

func Review() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReviewRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}
