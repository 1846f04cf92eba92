package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"medquest/careers-api/internal/middleware"
)

// Router wires every handler onto a Fiber app.
type Router struct {
	Application  *ApplicationHandler
	Recruiter    *RecruiterHandler
	Schedule     *ScheduleHandler
	RSVP         *RSVPHandler
	RecruiterKey string
}

func (r *Router) Register(app *fiber.App) {
	app.Get("/rsvp/:token", r.RSVP.HandleRSVP)

	api := app.Group("/api")

	// Public applicant endpoints
	api.Post("/save_details", r.Application.HandleSaveDetails)
	api.Get("/get_application/:id", r.Application.HandleGetApplication)
	api.Post("/submit_application/:id", r.Application.HandleSubmitApplication)

	// Recruiter endpoints
	guard := middleware.RecruiterKey(r.RecruiterKey)
	api.Get("/score_details/:id", guard, r.Recruiter.HandleScoreDetails)
	api.Get("/list_resume_files", guard, r.Recruiter.HandleListResumeFiles)
	api.Get("/view_resume/:id", guard, r.Recruiter.HandleViewResume)
	api.Get("/resume_highlights/:id", guard, r.Recruiter.HandleResumeHighlights)
	api.Get("/view_resume_highlighted/:id", guard, r.Recruiter.HandleViewResumeHighlighted)
	api.Get("/filtered_scores", guard, r.Recruiter.HandleFilteredScores)
	api.Get("/scored_applications", guard, r.Recruiter.HandleScoredApplications)
	api.Get("/export_to_excel", guard, r.Recruiter.HandleExportToExcel)

	api.Post("/invite_applicant/:id", guard, r.Schedule.HandleInviteApplicant)
	api.Get("/schedule", guard, r.Schedule.HandleGetSchedule)
	api.Patch("/schedule/:id", guard, r.Schedule.HandleUpdateSchedule)
	api.Post("/send_status_email/:id", guard, r.Schedule.HandleSendStatusEmail)
	api.Get("/get_applicant_email/:id", guard, r.Schedule.HandleGetApplicantEmail)
}

// ErrorHandler renders errors that escape a handler as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"message": err.Error(),
		"code":    code,
	})
}
