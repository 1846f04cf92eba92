package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"medquest/careers-api/internal/repositories"
	"medquest/careers-api/internal/services"
	"medquest/careers-api/internal/views"
)

type RSVPHandler struct {
	scheduleService services.ScheduleService
}

func NewRSVPHandler(scheduleService services.ScheduleService) *RSVPHandler {
	return &RSVPHandler{
		scheduleService: scheduleService,
	}
}

// HandleRSVP handles GET /rsvp/:token?response=accept|decline
func (h *RSVPHandler) HandleRSVP(c *fiber.Ctx) error {
	appID, status, err := h.scheduleService.RecordRSVP(c.UserContext(), c.Params("token"), c.Query("response"))
	if err != nil {
		if errors.Is(err, repositories.ErrInviteNotFound) {
			return c.Status(fiber.StatusNotFound).Render(views.RSVPMessage, fiber.Map{
				"Message": "Invalid or expired RSVP link.",
			})
		}
		log.Printf("❌ Failed to record RSVP: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).Render(views.RSVPMessage, fiber.Map{
			"Message": "Sorry, we could not record your response at this time.",
		})
	}

	return c.Render(views.RSVPRecorded, fiber.Map{
		"ApplicationID": appID,
		"Status":        status,
	})
}
