package courseRoutes

import (
	courseController "learnhub/controllers/course"
	"learnhub/middleware"
	"learnhub/models"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the catalog, authoring and learner course routes
func SetupCourseRoutes(api fiber.Router, ctl *courseController.Controller, auth *middleware.Auth) {
	courseGroup := api.Group("/courses")
	authors := middleware.Authorize(models.RoleInstructor, models.RoleAdmin)

	// Catalog
	courseGroup.Get("/", auth.Optional, courseValidator.CourseList(), ctl.GetCourses)
	courseGroup.Get("/enrolled", auth.Protect, ctl.EnrolledCourses)
	courseGroup.Get("/certificates", auth.Protect, ctl.Certificates)
	courseGroup.Get("/:id", ctl.GetCourse)

	courseGroup.Post("/", auth.Protect, authors, courseValidator.CreateCourse(), ctl.CreateCourse)
	courseGroup.Put("/:id", auth.Protect, authors, courseValidator.UpdateCourse(), ctl.UpdateCourse)
	courseGroup.Delete("/:id", auth.Protect, authors, ctl.DeleteCourse)

	// Learner
	courseGroup.Post("/:id/enroll", auth.Protect, ctl.Enroll)
	courseGroup.Put("/:id/progress", auth.Protect, courseValidator.Progress(), ctl.UpdateProgress)
	courseGroup.Get("/:id/reviews", ctl.GetReviews)
	courseGroup.Post("/:id/reviews", auth.Protect, courseValidator.Review(), ctl.AddReview)

	// Sections and lessons
	courseGroup.Post("/:id/sections", auth.Protect, authors, courseValidator.Section(), ctl.AddSection)
	courseGroup.Put("/:id/sections/:sectionId", auth.Protect, authors, courseValidator.Section(), ctl.UpdateSection)
	courseGroup.Delete("/:id/sections/:sectionId", auth.Protect, authors, ctl.DeleteSection)
	courseGroup.Post("/:id/sections/:sectionId/lessons", auth.Protect, authors, courseValidator.Lesson(), ctl.AddLesson)
	courseGroup.Put("/:id/sections/:sectionId/lessons/:lessonId", auth.Protect, authors, courseValidator.LessonUpdate(), ctl.UpdateLesson)
	courseGroup.Delete("/:id/sections/:sectionId/lessons/:lessonId", auth.Protect, authors, ctl.DeleteLesson)
}
