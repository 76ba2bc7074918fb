package serverutils

import (
	"errors"
	"fmt"

	"collabdesk-be/internal/pkg/logger"
	"collabdesk-be/pkg/collab/session"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps engine outcomes onto HTTP statuses:
// not-found 404, access denied 403, inactive session 409 (with the current
// status in the payload), validation 400. Anything else is the only class
// that counts as a server fault: logged and surfaced as a generic 500.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if errors.Is(err, session.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(err.Error()))
		}
		if errors.Is(err, session.ErrForbidden) {
			return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(err.Error()))
		}
		if inactive, ok := session.AsInactive(err); ok {
			return ctx.Status(fiber.StatusConflict).JSON(ApiResponse{
				Message: inactive.Error(),
				Data:    fiber.Map{"status": inactive.Status},
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": fmt.Sprint(err),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("Internal server error"))
	}
}
