package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"medquest/careers-api/internal/models"
	"medquest/careers-api/internal/repositories"
	"medquest/careers-api/internal/services"
)

// ApplicationHandler serves the public application form endpoints.
type ApplicationHandler struct {
	appService  services.ApplicationService
	maxFileSize int64
}

func NewApplicationHandler(appService services.ApplicationService, maxFileSize int64) *ApplicationHandler {
	return &ApplicationHandler{
		appService:  appService,
		maxFileSize: maxFileSize,
	}
}

// HandleSaveDetails handles POST /api/save_details
func (h *ApplicationHandler) HandleSaveDetails(c *fiber.Ctx) error {
	appID, err := h.appService.Save(c.Body())
	if err != nil {
		if errors.Is(err, services.ErrInvalidApplication) {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid application details: expected a JSON object.")
		}
		log.Printf("❌ Failed to save application details: %v\n", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to save application details.")
	}

	return c.JSON(models.SaveDetailsResponse{
		Status:        "success",
		ApplicationID: appID,
	})
}

// HandleGetApplication handles GET /api/get_application/:id
func (h *ApplicationHandler) HandleGetApplication(c *fiber.Ctx) error {
	data, err := h.appService.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Application ID not found in database.")
		}
		log.Printf("❌ Failed to load application %s: %v\n", c.Params("id"), err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to load application.")
	}

	return c.JSON(fiber.Map{
		"status":           "success",
		"application_data": data,
	})
}

// HandleSubmitApplication handles POST /api/submit_application/:id
func (h *ApplicationHandler) HandleSubmitApplication(c *fiber.Ctx) error {
	appID := c.Params("id")

	file, err := c.FormFile("resume")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "No file part in the request.")
	}
	if file.Filename == "" {
		return errorJSON(c, fiber.StatusBadRequest, "No selected file.")
	}
	if h.maxFileSize > 0 && file.Size > h.maxFileSize {
		return errorJSON(c, fiber.StatusBadRequest, fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize))
	}

	emailSent, err := h.appService.SubmitResume(c.UserContext(), appID, file)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrApplicationNotFound):
			return errorJSON(c, fiber.StatusNotFound, msgApplicationNotFound)
		case errors.Is(err, services.ErrFileTypeNotAllowed):
			return errorJSON(c, fiber.StatusBadRequest, "File type not allowed.")
		}
		log.Printf("❌ Failed to store resume for %s: %v\n", appID, err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to save resume.")
	}

	return c.JSON(models.SubmitApplicationResponse{
		Status:        "complete",
		Message:       "Application and resume saved successfully.",
		EmailSent:     emailSent,
		ApplicationID: appID,
	})
}
