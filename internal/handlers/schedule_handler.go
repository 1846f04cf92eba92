package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"medquest/careers-api/internal/middleware"
	"medquest/careers-api/internal/models"
	"medquest/careers-api/internal/repositories"
	"medquest/careers-api/internal/services"
)

// ScheduleHandler serves interview invitations and the schedule board.
type ScheduleHandler struct {
	scheduleService services.ScheduleService
	validate        *validator.Validate
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		validate:        validator.New(),
	}
}

// HandleInviteApplicant handles POST /api/invite_applicant/:id
func (h *ScheduleHandler) HandleInviteApplicant(c *fiber.Ctx) error {
	recruiter := c.Get(middleware.RecruiterNameHeader)

	name, err := h.scheduleService.InviteApplicant(c.UserContext(), c.Params("id"), recruiter)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrApplicationNotFound):
			return errorJSON(c, fiber.StatusNotFound, msgApplicationNotFound)
		case errors.Is(err, services.ErrNoApplicantEmail):
			return errorJSON(c, fiber.StatusBadRequest, msgNoApplicantEmail)
		case errors.Is(err, services.ErrSendFailed):
			return errorJSON(c, fiber.StatusInternalServerError, "Failed to send email via SMTP.")
		}
		log.Printf("❌ Failed to invite applicant %s: %v\n", c.Params("id"), err)
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Invitation sent to %s", name),
	})
}

// HandleGetSchedule handles GET /api/schedule
func (h *ScheduleHandler) HandleGetSchedule(c *fiber.Ctx) error {
	items, err := h.scheduleService.List(c.UserContext())
	if err != nil {
		log.Printf("❌ Failed to load schedule: %v\n", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to load schedule")
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"schedule": items,
	})
}

// HandleUpdateSchedule handles PATCH /api/schedule/:id
func (h *ScheduleHandler) HandleUpdateSchedule(c *fiber.Ctx) error {
	var req models.ScheduleUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request payload")
	}
	if req.Empty() {
		return errorJSON(c, fiber.StatusBadRequest, "No updatable fields provided")
	}

	if err := h.scheduleService.Update(c.UserContext(), c.Params("id"), req); err != nil {
		switch {
		case errors.Is(err, services.ErrNoUpdatableFields):
			return errorJSON(c, fiber.StatusBadRequest, "No updatable fields provided")
		case errors.Is(err, repositories.ErrApplicationNotFound), errors.Is(err, repositories.ErrInviteNotFound):
			return errorJSON(c, fiber.StatusNotFound, "Invite not found")
		}
		log.Printf("❌ Failed to update schedule for %s: %v\n", c.Params("id"), err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to update schedule")
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// HandleSendStatusEmail handles POST /api/send_status_email/:id
func (h *ScheduleHandler) HandleSendStatusEmail(c *fiber.Ctx) error {
	var req models.StatusEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Missing required fields: interview_date, interview_time, process_status")
	}

	name, err := h.scheduleService.SendStatusEmail(c.UserContext(), c.Params("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrApplicationNotFound):
			return errorJSON(c, fiber.StatusNotFound, msgApplicationNotFound)
		case errors.Is(err, services.ErrNoApplicantEmail):
			return errorJSON(c, fiber.StatusBadRequest, msgNoApplicantEmail)
		case errors.Is(err, services.ErrSendFailed):
			return errorJSON(c, fiber.StatusInternalServerError, "Failed to send status email via SMTP.")
		}
		log.Printf("❌ Failed to send status email for %s: %v\n", c.Params("id"), err)
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"status":         "success",
		"message":        fmt.Sprintf("Status email sent successfully to %s", name),
		"applicant_name": name,
	})
}

// HandleGetApplicantEmail handles GET /api/get_applicant_email/:id
func (h *ScheduleHandler) HandleGetApplicantEmail(c *fiber.Ctx) error {
	email, err := h.scheduleService.ApplicantEmail(c.UserContext(), c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrApplicationNotFound):
			return errorJSON(c, fiber.StatusNotFound, msgApplicationNotFound)
		case errors.Is(err, services.ErrNoApplicantEmail):
			return errorJSON(c, fiber.StatusNotFound, msgNoApplicantEmail)
		}
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"email":  email,
	})
}
