package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bimal-bp/DPR/pkg/logger"
)

// RequestLogger registra una línea por petición con estado y latencia.
// Las respuestas 5xx se registran como error.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		status := c.Response().StatusCode()
		if chainErr != nil {
			if fe, ok := chainErr.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(chainErr)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("operator_id", GetOperatorID(c)).
			Msg("http request")
		return chainErr
	}
}
