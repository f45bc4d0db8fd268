package logging

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const requestLoggerLocal = "request_logger"

// Attach stores l as the logger for the rest of the request.
func Attach(c *fiber.Ctx, l zerolog.Logger) {
	c.Locals(requestLoggerLocal, &l)
}

// Request returns the logger attached to c, or the global logger.
func Request(c *fiber.Ctx) *zerolog.Logger {
	if l, ok := c.Locals(requestLoggerLocal).(*zerolog.Logger); ok {
		return l
	}
	return &log.Logger
}
