package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"medquest/careers-api/internal/metrics"
)

// Metrics records one observation per request, labelled with the matched
// route pattern rather than the raw path.
func Metrics(m *metrics.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "/" {
			route = r.Path
		} else if c.Path() == "/" {
			route = "/"
		}

		m.HTTPRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
