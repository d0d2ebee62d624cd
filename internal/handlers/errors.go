package handlers

import (
	"errors"
	"fmt"

	"foodexpress/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError writes the JSON error body for err. Validation errors carry
// their per-field messages.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	status, category, message := apperrors.MapToHTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := fiber.Map{
		"code":     status,
		"category": category,
		"message":  message,
	}
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		body["errors"] = verr.Fields
	}
	return c.Status(status).JSON(body)
}

func invalidBody(err error) error {
	return apperrors.NewFieldValidationError("invalid request body", map[string]string{"body": err.Error()})
}

// validateRequest checks req against its validate tags.
func validateRequest(v *validator.Validate, req interface{}) error {
	if err := v.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperrors.NewValidationError(err.Error())
		}
		fields := make(map[string]string, len(verrs))
		for _, e := range verrs {
			fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return apperrors.NewFieldValidationError("invalid request", fields)
	}
	return nil
}
