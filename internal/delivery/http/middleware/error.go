package middleware

import (
	"errors"
	"log"

	"skill-compass/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// AppError carries an HTTP status and optional payload up to the error
// middleware. Handlers return it instead of writing error responses inline.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware(logger *log.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("[HTTP] Panic recovered | rid=%s path=%s panic=%v", c.Get("X-Request-ID"), c.Path(), r)
				err = response.Error(c, fiber.StatusInternalServerError, "", nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= 500 {
			m.logger.Printf("[HTTP] Request failed | rid=%s path=%s err=%v", c.Get("X-Request-ID"), c.Path(), err)
		}
		return response.Error(c, status, msg, data)
	}
}

// normalizeError maps an error to a client-safe status, message, payload
// triple. Anything 5xx is collapsed to a bare 500 so internals never leak.
// Empty messages are left for the response package to fill with its
// per-status default.
func normalizeError(err error) (int, string, interface{}) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, "", nil
		}
		return status, appErr.Message, appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, "", nil
		}
		return status, fiberErr.Message, nil
	}

	return fiber.StatusInternalServerError, "", nil
}
