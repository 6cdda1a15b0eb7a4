package middleware

import (
	"time"

	"learnhub/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const sessionCookieTTL = 30 * 24 * time.Hour

// Tracking tags every request with a request id and a session id that
// follows the client across requests, and logs request start and completion.
// The request id set by the requestid middleware is reused when present.
func Tracking(log logrus.FieldLogger, secureCookies bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.GetRespHeader(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		sessionID := c.Get("X-Session-ID")
		if sessionID == "" {
			sessionID = c.Cookies("sessionId")
			if sessionID == "" {
				sessionID = uuid.NewString()
				c.Cookie(&fiber.Cookie{
					Name:     "sessionId",
					Value:    sessionID,
					Expires:  start.Add(sessionCookieTTL),
					HTTPOnly: true,
					Secure:   secureCookies,
					SameSite: fiber.CookieSameSiteLaxMode,
				})
			}
		}

		c.Locals("requestId", requestID)
		c.Locals("sessionId", sessionID)
		c.Set("X-Request-ID", requestID)
		c.Set("X-Session-ID", sessionID)

		logger.WithRequest(log, c).WithFields(logrus.Fields{
			"category":     "API",
			"userAgent":    c.Get(fiber.HeaderUserAgent),
			"hasAuthToken": TokenFrom(c) != "",
		}).Infof("Request started: %s %s", c.Method(), c.OriginalURL())

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = StatusOf(err)
		}
		entry := logger.WithRequest(log, c).WithFields(logrus.Fields{
			"category":     "API",
			"status":       status,
			"responseTime": time.Since(start).Milliseconds(),
		})
		if UserID(c) == "" {
			entry = entry.WithField("userId", "unauthenticated")
		}
		msg := "Request completed: " + c.Method() + " " + c.OriginalURL()
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error(msg)
		case status >= fiber.StatusBadRequest:
			entry.Warn(msg)
		default:
			entry.Info(msg)
		}
		return err
	}
}
