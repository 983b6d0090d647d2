package middleware

import (
	"errors"
	"time"

	"iledu-loan/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request count, status class and latency per route
// template, so path parameters do not explode label cardinality.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.RequestStarted()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		m.RequestFinished(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
