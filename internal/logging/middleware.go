package logging

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// UserIDFunc resolves the authenticated user for a request, if any.
type UserIDFunc func(c *fiber.Ctx) (int, bool)

// Middleware emits one structured line per request. It replaces the
// printf-based request tracing used during early development.
func Middleware(userID UserIDFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = Error()
		case status >= 400:
			ev = Warn()
		default:
			ev = Info()
		}
		ev = ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start))
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ev = ev.Str("request_id", rid)
		}
		if userID != nil {
			if id, ok := userID(c); ok {
				ev = ev.Int("user_id", id)
			}
		}
		if err != nil {
			ev = ev.Err(err)
		}
		ev.Msg("request")
		return err
	}
}
