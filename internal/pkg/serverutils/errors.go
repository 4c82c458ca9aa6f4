package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Error codes exposed to clients over REST bodies and websocket error
// envelopes.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeGeneration   = "GENERATION_ERROR"
	CodeTransport    = "TRANSPORT_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is the engine's error taxonomy. Status is the HTTP status a REST
// ingress maps it to; websocket ingress uses Code only.
type AppError struct {
	Code    string
	Status  int
	Message string
	Details map[string]interface{}
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(message string, details map[string]interface{}) *AppError {
	return &AppError{Code: CodeValidation, Status: fiber.StatusBadRequest, Message: message, Details: details}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Status: fiber.StatusUnauthorized, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: CodeNotFound, Status: fiber.StatusNotFound, Message: message}
}

func NewGenerationError(message string) *AppError {
	return &AppError{Code: CodeGeneration, Status: fiber.StatusInternalServerError, Message: message}
}

// AsAppError unwraps err into an AppError, falling back to an internal one.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Code: CodeInternal, Status: fiber.StatusInternalServerError, Message: "internal error"}
}
