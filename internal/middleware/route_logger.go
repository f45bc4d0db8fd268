package middleware

import (
	"time"

	"supplies-backend/internal/pkg/logging"
	"supplies-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RouteLogger logs each request on entry and on exit. The exit line carries the matched
// route, the supply id when the route has one, the status and, for failures, the
// domain error kind and code.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		logger := logging.Request(c)
		start := time.Now()
		logger.Debug().Str("method", c.Method()).Str("path", c.Path()).Msg("Entering request")

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		ev := logger.Info()
		if status >= fiber.StatusInternalServerError {
			ev = logger.Error()
		}
		ev = ev.Str("method", c.Method()).Str("path", c.Path()).Str("route", c.Route().Path).
			Int("status", status).Int64("ms", time.Since(start).Milliseconds())
		if id := c.Params("id"); id != "" {
			ev = ev.Str("supply_id", id)
		}
		if kind, ok := c.Locals(response.ErrorKindLocal).(string); ok {
			ev = ev.Str("error_kind", kind)
		}
		if code, ok := c.Locals(response.ErrorCodeLocal).(string); ok {
			ev = ev.Str("error_code", code)
		}
		ev.Msg("Exiting request")
		return err
	}
}
