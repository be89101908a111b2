package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
	"github.com/samirrijal/rrlprofile/internal/pkg/logging"
)

// APIError is the body of every error response.
type APIError struct {
	Error     ErrorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

// ErrorBody carries the machine-readable code and a human message.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Transport-level codes that have no domain equivalent.
const (
	codeNotFound    = "NOT_FOUND"
	codeRateLimited = "RATE_LIMITED"
	codeTimeout     = "TIMEOUT"
	codeUnavailable = "UNAVAILABLE"
)

// StatusFor maps a domain error code to an HTTP status.
func StatusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeValidation, domain.CodeCalculation:
		return fiber.StatusBadRequest
	case domain.CodeElevation:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string, details map[string]any) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Error:     ErrorBody{Code: code, Message: message, Details: details},
		RequestID: reqID,
	})
}

// writeError renders err using its domain code. Untyped errors become
// INTERNAL_ERROR without leaking their text.
func writeError(c *fiber.Ctx, err error) error {
	derr, ok := domain.AsError(err)
	if !ok {
		derr = domain.InternalError(err, "internal error")
	}
	status := StatusFor(derr.Code)
	if status >= 500 {
		logging.FromContext(c.UserContext()).Error("request failed",
			"code", derr.Code, "error", err)
	}
	return newError(c, status, string(derr.Code), derr.Message, derr.Details)
}

// errBadRequest returns a 400 validation error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, string(domain.CodeValidation), msg, nil)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, string(domain.CodeInternal), msg, nil)
}

// ErrorHandler is the fiber.Config.ErrorHandler for errors that escape handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if _, ok := domain.AsError(err); ok {
		return writeError(c, err)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := string(domain.CodeInternal)
		switch fe.Code {
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			code = codeNotFound
		case fiber.StatusRequestTimeout:
			code = codeTimeout
		case fiber.StatusTooManyRequests:
			code = codeRateLimited
		case fiber.StatusServiceUnavailable:
			code = codeUnavailable
		default:
			if fe.Code < 500 {
				code = string(domain.CodeValidation)
			}
		}
		return newError(c, fe.Code, code, fe.Message, nil)
	}

	return writeError(c, err)
}
