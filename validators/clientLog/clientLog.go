package clientLogValidator

import (
	"learnhub/services"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

var logLevels = map[string]bool{"info": true, "warning": true, "error": true, "debug": true}

// Store decodes a batch. Presence of sessionId, deviceInfo and logs is
// checked by the client log service.
func Store() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(services.ClientLogInput)
		if err := c.BodyParser(reqData); err != nil {
			return validators.BadBody(c)
		}
		for _, entry := range reqData.Logs {
			if entry.Level != "" && !logLevels[entry.Level] {
				return validators.Reject(c, map[string]string{"logs": "Log level must be one of info, warning, error, debug!"})
			}
		}
		c.Locals("validatedLogs", reqData)
		return c.Next()
	}
}
