package handlers

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"medquest/careers-api/internal/models"
	"medquest/careers-api/internal/repositories"
	"medquest/careers-api/internal/services"
	"medquest/careers-api/internal/views"
)

const (
	maxListedFiles = 50
	exportFilename = "All_Applications_Export.xlsx"
	xlsxMimeType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// RecruiterHandler serves the scoring, resume and export endpoints of the
// recruiter dashboard.
type RecruiterHandler struct {
	atsService services.ATSService
	storage    services.StorageService
	exporter   services.ExportService
}

func NewRecruiterHandler(
	atsService services.ATSService,
	storage services.StorageService,
	exporter services.ExportService,
) *RecruiterHandler {
	return &RecruiterHandler{
		atsService: atsService,
		storage:    storage,
		exporter:   exporter,
	}
}

// HandleScoreDetails handles GET /api/score_details/:id
func (h *RecruiterHandler) HandleScoreDetails(c *fiber.Ctx) error {
	details, err := h.atsService.ScoreDetails(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return errorJSON(c, fiber.StatusNotFound, msgApplicationNotFound)
		}
		log.Printf("❌ Failed to score application %s: %v\n", c.Params("id"), err)
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"status":        "success",
		"score_details": details,
	})
}

// HandleListResumeFiles handles GET /api/list_resume_files
func (h *RecruiterHandler) HandleListResumeFiles(c *fiber.Ctx) error {
	cwd, _ := os.Getwd()

	files, err := h.storage.ListFiles()
	if err != nil {
		if errors.Is(err, services.ErrUploadDirNotPresent) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":            "error",
				"message":           fmt.Sprintf("Upload folder does not exist: %s", h.storage.UploadPath()),
				"current_directory": cwd,
			})
		}
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	listed := files
	if len(listed) > maxListedFiles {
		listed = listed[:maxListedFiles]
	}

	return c.JSON(models.ResumeFilesResponse{
		Status:              "success",
		UploadFolder:        h.storage.UploadPath(),
		CurrentDirectory:    cwd,
		TotalFiles:          len(files),
		Files:               listed,
		ApplicationIDsFound: services.ApplicationIDsFromFiles(files),
	})
}

// HandleViewResume handles GET /api/view_resume/:id
func (h *RecruiterHandler) HandleViewResume(c *fiber.Ctx) error {
	name, path, err := h.atsService.ResumeFile(c.UserContext(), c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrApplicationNotFound):
			return errorJSON(c, fiber.StatusNotFound, msgApplicationNotFound)
		case errors.Is(err, services.ErrResumeNotFound):
			return errorJSON(c, fiber.StatusNotFound, "Resume file not found for this application.")
		}
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("❌ Failed to read resume %s: %v\n", name, err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to read resume file.")
	}

	c.Set(fiber.HeaderContentType, resumeMimeType(name))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, name))
	return c.Send(data)
}

func resumeMimeType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}
	return fiber.MIMEOctetStream
}

// HandleResumeHighlights handles GET /api/resume_highlights/:id
func (h *RecruiterHandler) HandleResumeHighlights(c *fiber.Ctx) error {
	result, err := h.atsService.Highlights(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.highlightError(c, err,
			"Resume highlighting is only available for PDF files. Image files (JPG) are not supported for text extraction.")
	}

	return c.JSON(fiber.Map{
		"status":                   "success",
		"application_id":           result.ApplicationID,
		"job_title":                result.JobTitle,
		"highlights":               result.Highlights,
		"ats_score":                result.ATSScore,
		"matched_keywords_count":   result.MatchedKeywordsCount,
		"pdf_extraction_available": result.PDFExtractionAvailable,
	})
}

// HandleViewResumeHighlighted handles GET /api/view_resume_highlighted/:id
func (h *RecruiterHandler) HandleViewResumeHighlighted(c *fiber.Ctx) error {
	page, err := h.atsService.HighlightedResume(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.highlightError(c, err, "Highlighted view is only available for PDF files.")
	}

	return c.Render(views.ResumeHighlighted, page)
}

func (h *RecruiterHandler) highlightError(c *fiber.Ctx, err error, unsupportedMessage string) error {
	switch {
	case errors.Is(err, repositories.ErrApplicationNotFound):
		return errorJSON(c, fiber.StatusNotFound, msgApplicationNotFound)
	case errors.Is(err, services.ErrResumeNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Resume file not found")
	case errors.Is(err, services.ErrUnsupportedFormat):
		return errorJSON(c, fiber.StatusBadRequest, unsupportedMessage)
	case errors.Is(err, services.ErrExtractionUnavailable):
		return errorJSON(c, fiber.StatusInternalServerError, "PDF extraction library not available.")
	case errors.Is(err, services.ErrExtractionFailed):
		log.Printf("❌ PDF extraction failed for %s: %v\n", c.Params("id"), err)
		return errorJSON(c, fiber.StatusInternalServerError, fmt.Sprintf("PDF text extraction failed: %v", err))
	case errors.Is(err, services.ErrNoText):
		return errorJSON(c, fiber.StatusInternalServerError,
			"Could not extract text from PDF. The file may be image-based or corrupted.")
	}

	log.Printf("❌ Failed to highlight resume for %s: %v\n", c.Params("id"), err)
	return errorJSON(c, fiber.StatusInternalServerError, err.Error())
}

// HandleFilteredScores handles GET /api/filtered_scores
func (h *RecruiterHandler) HandleFilteredScores(c *fiber.Ctx) error {
	all, err := h.atsService.ScoredApplications(c.UserContext())
	if err != nil {
		log.Printf("❌ Failed to score applications: %v\n", err)
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	if len(all) == 0 {
		return c.JSON(fiber.Map{
			"status":  "info",
			"message": "No applications found.",
		})
	}

	return c.JSON(fiber.Map{
		"status":                "success",
		"filtered_applications": services.Shortlist(all),
	})
}

// HandleScoredApplications handles GET /api/scored_applications
func (h *RecruiterHandler) HandleScoredApplications(c *fiber.Ctx) error {
	all, err := h.atsService.ScoredApplications(c.UserContext())
	if err != nil {
		log.Printf("❌ Failed to score applications: %v\n", err)
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"status":       "success",
		"applications": all,
	})
}

// HandleExportToExcel handles GET /api/export_to_excel
func (h *RecruiterHandler) HandleExportToExcel(c *fiber.Ctx) error {
	path, err := h.exporter.Generate()
	if err != nil {
		log.Printf("❌ Excel export failed: %v\n", err)
		return errorJSON(c, fiber.StatusInternalServerError, fmt.Sprintf("Failed to generate Excel file: %v", err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, fmt.Sprintf("Failed to generate Excel file: %v", err))
	}

	c.Set(fiber.HeaderContentType, xlsxMimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, exportFilename))
	return c.Send(data)
}
