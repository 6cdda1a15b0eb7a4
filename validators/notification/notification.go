package notificationValidator

import (
	"strconv"

	"learnhub/services"
	"learnhub/utils"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type ListRequest struct {
	Unread *bool
	Page   utils.Page
}

// List reads the unread filter and page from the query string
func List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &ListRequest{Page: utils.ParsePage(c.Query("page"), c.Query("limit"))}
		if raw := c.Query("unread"); raw != "" {
			unread, err := strconv.ParseBool(raw)
			if err != nil {
				return validators.Reject(c, map[string]string{"unread": "Unread must be true or false!"})
			}
			reqData.Unread = &unread
		}
		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

// Create only decodes the body; the notification service reports missing
// fields and unknown types with 400
func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(services.NotificationInput)
		if err := c.BodyParser(reqData); err != nil {
			return validators.BadBody(c)
		}
		c.Locals("validatedNotification", reqData)
		return c.Next()
	}
}
