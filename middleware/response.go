package middleware

import (
	"errors"

	"learnhub/apperror"
	"learnhub/logger"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func JsonResponse(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// ListResponse adds the item count and page links to the success envelope
func ListResponse(c *fiber.Ctx, statusCode int, data interface{}, count int64, pagination utils.Pagination) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success":    true,
		"count":      count,
		"pagination": pagination,
		"data":       data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed!",
		"errors":  errors,
	})
}

// ErrorHandler renders every error returned by a handler in the failure
// envelope. Unknown errors are logged and reported as 500 Server Error.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := apperror.As(err); ok {
			if e.Kind == apperror.KindValidation {
				return ValidationErrorResponse(c, e.Fields)
			}
			if e.Status >= fiber.StatusInternalServerError {
				logger.WithRequest(log, c).WithError(err).Error(e.Message)
			}
			return ErrorResponse(c, e.Status, e.Message)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ErrorResponse(c, fe.Code, fe.Message)
		}

		logger.WithRequest(log, c).WithError(err).Error("unhandled error")
		return ErrorResponse(c, fiber.StatusInternalServerError, "Server Error")
	}
}

// StatusOf is the status ErrorHandler will answer err with
func StatusOf(err error) int {
	if e, ok := apperror.As(err); ok {
		return e.Status
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
