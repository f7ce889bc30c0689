package models

import (
	"fmt"
	"log/slog"

	"devconnector/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError. Handlers map them to HTTP statuses.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeInternal     = "INTERNAL_ERROR"
)

// FieldError is a single entry of the validation error array returned to clients.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

// AppError represents a custom application error.
//
// Errors carrying Fields serialize as {"errors":[{"msg":...,"param":...}]};
// errors carrying only a Message serialize as {"msg":...}. Internal errors
// keep the underlying cause for server-side logging and send a generic body.
type AppError struct {
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if len(e.Fields) > 0 {
		return e.Fields[0].Msg
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationErrors wraps per-field validation failures.
func NewValidationErrors(fields []FieldError) *AppError {
	return &AppError{
		Code:   CodeValidation,
		Fields: fields,
	}
}

// NewBusinessError wraps a single business rule failure in the validation
// array shape (e.g. duplicate registration, bad credentials).
func NewBusinessError(msg string) *AppError {
	return &AppError{
		Code:   CodeValidation,
		Fields: []FieldError{{Msg: msg}},
	}
}

// NewNotFoundError reports an absent resource with the given client message.
func NewNotFoundError(msg string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: msg,
	}
}

// NewUnauthorizedError reports a missing/invalid token or an ownership violation.
func NewUnauthorizedError(msg string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: msg,
	}
}

// NewInternalError wraps an unexpected failure. The cause is logged
// server-side only; clients receive a generic body.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Server error.",
		Err:     err,
	}
}

// RespondWithError writes the API error envelope for err with the given status.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	appErr, ok := err.(*AppError)
	if !ok {
		appErr = NewInternalError(err)
		status = fiber.StatusInternalServerError
	}

	if appErr.Code == CodeInternal {
		middleware.Logger.ErrorContext(c.UserContext(), "internal error",
			slog.String("path", c.Path()),
			slog.String("error", appErr.Error()),
		)
		// Generic body only; detail stays in the server log.
		return c.Status(status).SendString(appErr.Message)
	}

	if len(appErr.Fields) > 0 {
		return c.Status(status).JSON(fiber.Map{"errors": appErr.Fields})
	}

	return c.Status(status).JSON(fiber.Map{"msg": appErr.Message})
}
