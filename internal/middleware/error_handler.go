package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"supplies-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const errorLogSize = 50

// ErrorHandler is the global error handler. Domain errors map to their status; fiber
// errors keep theirs. Server errors are pushed to the Redis error log when rdb is set.
func ErrorHandler(rdb *redis.Client) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			if fe.Code >= 500 {
				recordError(rdb, c, fe.Message)
			}
			return response.Error(c, fe.Message, fe.Code, nil)
		}
		if sendErr := response.FromError(c, err); sendErr != nil {
			return sendErr
		}
		if c.Response().StatusCode() >= 500 {
			recordError(rdb, c, err.Error())
		}
		return nil
	}
}

func recordError(rdb *redis.Client, c *fiber.Ctx, message string) {
	if rdb == nil {
		return
	}
	entry, _ := json.Marshal(map[string]interface{}{
		"time":     time.Now().UTC(),
		"path":     c.OriginalURL(),
		"method":   c.Method(),
		"message":  message,
		"trace_id": GetTraceID(c),
	})
	ctx := context.Background()
	if err := rdb.LPush(ctx, KeyErrorLog, entry).Err(); err != nil {
		log.Warn().Err(err).Msg("push error log")
		return
	}
	rdb.LTrim(ctx, KeyErrorLog, 0, errorLogSize-1)
}
