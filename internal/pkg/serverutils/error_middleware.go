package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps errors returned by handlers into the
// structured {error:{code,message,details?}} body with the taxonomy status.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if fiberErr, ok := err.(*fiber.Error); ok {
			return ctx.Status(fiberErr.Code).JSON(NewErrorBody(&AppError{
				Code:    CodeInternal,
				Status:  fiberErr.Code,
				Message: fiberErr.Message,
			}))
		}

		appErr := AsAppError(err)
		return ctx.Status(appErr.Status).JSON(NewErrorBody(appErr))
	}
}
