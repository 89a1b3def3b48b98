package middleware

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"izilearn/backend/utils"
)

// ErrorHandler renders every error as the error envelope. Store-layer
// failures are logged with full context but surfaced generically.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			return c.Status(appErr.Status).JSON(utils.ErrorResponse{
				Success: false,
				Error:   appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(utils.ErrorResponse{
				Success: false,
				Error:   utils.CodeInternal,
				Message: fiberErr.Message,
			})
		}

		// A unique-constraint violation that escaped controller handling
		// is a lost check-then-act race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
				Success: false,
				Error:   utils.CodeConflict,
				Message: "Resource already exists",
			})
		}

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(utils.ErrorResponse{
				Success: false,
				Error:   utils.CodeResourceExhausted,
				Message: "Service temporarily unavailable",
			})
		}

		logger.Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("unhandled error")

		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Success: false,
			Error:   utils.CodeInternal,
			Message: "Internal server error",
		})
	}
}
