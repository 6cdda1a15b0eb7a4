// Package validators holds the request validators shared by every route
// group. Each area keeps its fiber.Handler factories in its own subpackage.
package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"learnhub/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Validate is the process-wide validator. Field names come from json tags.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}

// Errors validates s and returns a field -> message map, nil when s is valid
func Errors(s interface{}) map[string]string {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	label := strings.ToUpper(field[:1]) + field[1:]
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return label + " is required!"
	case "email":
		return "Invalid email!"
	case "url":
		return label + " must be a valid URL!"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s!", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if isText {
			return fmt.Sprintf("%s must be at least %s characters long!", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s!", label, fe.Param())
	case "max":
		if isText {
			return fmt.Sprintf("%s cannot be more than %s characters!", label, fe.Param())
		}
		return fmt.Sprintf("%s cannot be more than %s!", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s!", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s!", label, fe.Param())
	}
	return label + " is invalid!"
}

// Body parses the JSON body into dst and validates it. When the request is
// rejected the response has already been written and ok is false; the caller
// returns err as is.
func Body(c *fiber.Ctx, dst interface{}) (ok bool, err error) {
	if err := c.BodyParser(dst); err != nil {
		return false, BadBody(c)
	}
	if errs := Errors(dst); len(errs) > 0 {
		return false, middleware.ValidationErrorResponse(c, errs)
	}
	return true, nil
}

// BadBody answers a body that could not be decoded
func BadBody(c *fiber.Ctx) error {
	return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
}

// Reject writes a 422 for hand-collected field errors
func Reject(c *fiber.Ctx, errs map[string]string) error {
	return middleware.ValidationErrorResponse(c, errs)
}
