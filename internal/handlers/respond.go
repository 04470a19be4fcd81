package handlers

import (
	"github.com/gofiber/fiber/v2"

	apperrors "cv-builder/pkg/errors"
)

// respondError converts any error into the structured error body
// {error, kind, details?} with the status mapped from its kind. Errors
// without a kind surface as internal failures; nothing is swallowed.
func respondError(c *fiber.Ctx, err error) error {
	appErr := apperrors.AsAppError(err)
	body := fiber.Map{
		"error": appErr.Message,
		"kind":  string(appErr.Kind),
	}
	if appErr.Detail != "" {
		body["details"] = appErr.Detail
	}
	return c.Status(appErr.StatusCode()).JSON(body)
}
