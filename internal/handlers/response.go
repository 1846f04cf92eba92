package handlers

import (
	"github.com/gofiber/fiber/v2"
)

const (
	msgApplicationNotFound = "Application ID not found."
	msgNoApplicantEmail    = "Applicant email address not found."
)

func errorJSON(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}
