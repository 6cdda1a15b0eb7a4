package videoRoutes

import (
	videoController "learnhub/controllers/video"
	"learnhub/middleware"
	"learnhub/models"
	videoValidator "learnhub/validators/video"

	"github.com/gofiber/fiber/v2"
)

const lessonPath = "/:courseId/:sectionIndex/:lessonIndex"

func SetupVideoRoutes(api fiber.Router, ctl *videoController.Controller, auth *middleware.Auth) {
	videoGroup := api.Group("/videos", auth.Protect)
	authors := middleware.Authorize(models.RoleInstructor, models.RoleAdmin)

	videoGroup.Post("/upload-ticket"+lessonPath, authors, videoValidator.LessonRef(), videoValidator.UploadTicket(), ctl.UploadTicket)
	videoGroup.Put("/confirm-upload"+lessonPath, authors, videoValidator.LessonRef(), ctl.ConfirmUpload)
	videoGroup.Put("/toggle-preview"+lessonPath, authors, videoValidator.LessonRef(), ctl.TogglePreview)
	videoGroup.Get("/playback"+lessonPath, videoValidator.LessonRef(), ctl.Playback)

	videoGroup.Get("/:videoId/progress", ctl.GetProgress)
	videoGroup.Post("/:videoId/progress", videoValidator.Progress(), ctl.SaveProgress)
}
