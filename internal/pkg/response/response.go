package response

import (
	"supplies-backend/internal/domain"
	"supplies-backend/internal/pkg/logging"

	"github.com/gofiber/fiber/v2"
)

// SuccessBody is the standardized success JSON shape.
type SuccessBody struct {
	Status   string      `json:"status"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data"`
	Metadata interface{} `json:"metadata,omitempty"`
}

// ErrorBody is the standardized error JSON shape.
type ErrorBody struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

// ErrorDetail is the nested error object.
type ErrorDetail struct {
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Details    interface{} `json:"details,omitempty"`
}

const statusSuccess = "success"
const statusError = "error"

// Locals set by FromError for the route logger.
const (
	ErrorKindLocal = "error_kind"
	ErrorCodeLocal = "error_code"
)

// Success sends a 200 OK response with the standard success format.
func Success(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return c.Status(fiber.StatusOK).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// SuccessCreated sends a 201 Created response with the standard success format.
func SuccessCreated(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return c.Status(fiber.StatusCreated).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// Error sends a response with the standard error format.
func Error(c *fiber.Ctx, message string, statusCode int, details interface{}) error {
	if details == nil {
		details = map[string]interface{}{}
	}
	return c.Status(statusCode).JSON(ErrorBody{
		Status: statusError,
		Error: ErrorDetail{
			Message:    message,
			StatusCode: statusCode,
			Details:    details,
		},
	})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// FromError sends err in the standard error format. Internal errors are logged and
// their cause is never exposed to the client.
func FromError(c *fiber.Ctx, err error) error {
	de, ok := domain.AsError(err)
	if !ok {
		de = &domain.Error{Kind: domain.KindInternal, Message: "internal error", Err: err}
	}
	status := StatusFor(de.Kind)
	c.Locals(ErrorKindLocal, string(de.Kind))
	if de.Code != "" {
		c.Locals(ErrorCodeLocal, de.Code)
	}
	details := map[string]interface{}{}
	if de.Code != "" {
		details["code"] = de.Code
	}
	if len(de.Violations) > 0 {
		details["violations"] = de.Violations
	}
	message := de.Message
	if de.Kind == domain.KindInternal {
		logging.Request(c).Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		message = "Internal Server Error"
	}
	return Error(c, message, status, details)
}
