package middleware

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateBody parses the request body into dest and validates it. It is
// called inline by handlers and returns a 400 fiber.Error on failure.
func ValidateBody(dest interface{}) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.BodyParser(dest); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		return ValidateStruct(dest)
	}
}

func ValidateStruct(dest interface{}) error {
	err := validate.Struct(dest)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	firstError := validationErrors[0]

	var errorMessage string
	switch firstError.Tag() {
	case "required":
		errorMessage = firstError.Field() + " is required"
	case "email":
		errorMessage = "Invalid email format"
	case "min":
		errorMessage = firstError.Field() + " is too short"
	case "max":
		errorMessage = firstError.Field() + " is too long"
	case "gt", "gte":
		errorMessage = firstError.Field() + " is too small"
	case "oneof":
		errorMessage = firstError.Field() + " must be one of: " + firstError.Param()
	case "url":
		errorMessage = firstError.Field() + " must be a valid URL"
	default:
		errorMessage = "Validation failed for " + firstError.Field()
	}

	return fiber.NewError(fiber.StatusBadRequest, errorMessage)
}
