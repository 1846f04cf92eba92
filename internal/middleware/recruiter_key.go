package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

const (
	RecruiterKeyHeader  = "X-Recruiter-Key"
	RecruiterNameHeader = "X-Recruiter-Name"
)

// RecruiterKey guards recruiter-only routes with a shared key. An unset
// server key denies every request.
func RecruiterKey(key string) fiber.Handler {
	expected := []byte(key)

	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		provided := []byte(c.Get(RecruiterKeyHeader))
		if len(expected) == 0 || subtle.ConstantTimeCompare(provided, expected) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Access Denied: Invalid or missing recruiter credentials.",
			})
		}

		return c.Next()
	}
}
