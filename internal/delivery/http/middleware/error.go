package middleware

import (
	"errors"
	"log"

	"github.com/Rpoore10/health-hire/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// AppError carries a status and a display message through the handler
// chain. Its message is authoritative: handlers own the display vocabulary,
// so the middleware never rewrites it. Anything that is not an AppError is
// masked as a generic internal error.
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
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if m != nil && m.logger != nil {
					m.logger.Printf("panic recovered: %v", r)
				}
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			status := appErr.StatusCode
			if status <= 0 {
				status = fiber.StatusInternalServerError
			}
			if appErr.Cause != nil && m != nil && m.logger != nil {
				m.logger.Printf("request failed | status=%d cause=%v", status, appErr.Cause)
			}
			return response.Error(c, status, appErr.Message, appErr.Data)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code < 500 && fiberErr.Code > 0 {
			return response.Error(c, fiberErr.Code, fiberErr.Message, nil)
		}

		if m != nil && m.logger != nil {
			m.logger.Printf("unhandled error: %v", err)
		}
		return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
	}
}
