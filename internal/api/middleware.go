package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/finmd/internal/converter"
	"github.com/insightdelivered/finmd/internal/logger"
	"github.com/insightdelivered/finmd/internal/timeseries"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDLocal = "request_id"

// RequestID echoes the caller's X-Request-ID or assigns a new one.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Locals(requestIDLocal, id)
		return c.Next()
	}
}

// RequestLogger logs one line per request and puts a request-scoped logger
// on the user context. Errors are resolved here so the logged status is the
// one sent.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqLog := log
		if id, ok := c.Locals(requestIDLocal).(string); ok {
			reqLog = log.With().Str("request_id", id).Logger()
		}
		c.SetUserContext(logger.WithContext(c.UserContext(), reqLog))

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		event := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			event = reqLog.Error()
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
		return nil
	}
}

// ErrorHandler writes the JSON error body with the status matching err.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return c.Status(StatusFor(err)).JSON(ErrorResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// StatusFor maps a conversion error to an HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, converter.ErrMissingPayload),
		errors.Is(err, converter.ErrUnsupportedFormat),
		errors.Is(err, timeseries.ErrUnsupportedShape):
		return fiber.StatusBadRequest
	case errors.Is(err, converter.ErrUnrecognizedUpload):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, converter.ErrDecode):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
