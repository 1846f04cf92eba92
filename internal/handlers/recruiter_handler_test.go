package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"medquest/careers-api/internal/services"
)

const (
	backendApplicant = `{
		"jobTitle": "Senior Backend Engineer",
		"jobDescription": "Node, Docker and AWS",
		"personal": {"firstName": "Asha"},
		"communication": {"email": "asha@example.com"},
		"work": [{"title": "Node Docker AWS developer", "company": "Acme"}]
	}`

	backendResume = `Asha
Senior Backend Engineer

Skills:
Node, Docker, AWS

Experience:
Developer at Acme <R&D>`
)

func TestRecruiterRoutesRequireKey(t *testing.T) {
	s := newTestServer(t)

	paths := []string{
		"/api/score_details/MQ-1",
		"/api/list_resume_files",
		"/api/view_resume/MQ-1",
		"/api/resume_highlights/MQ-1",
		"/api/view_resume_highlighted/MQ-1",
		"/api/filtered_scores",
		"/api/scored_applications",
		"/api/export_to_excel",
		"/api/schedule",
		"/api/get_applicant_email/MQ-1",
	}
	for _, path := range paths {
		req := httptest.NewRequest(fiber.MethodGet, path, nil)
		req.Header.Set("X-Recruiter-Key", "wrong")
		resp := s.do(t, req)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestScoreDetails(t *testing.T) {
	s := newTestServer(t)
	s.createApplication(t, "MQ-1", "Senior Backend Engineer", backendApplicant)
	s.writeResume(t, "MQ-1_cv.pdf", []byte("%PDF"))

	resp := s.recruiter(t, fiber.MethodGet, "/api/score_details/MQ-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	assert.Equal(t, "success", body["status"])
	details := body["score_details"].(map[string]interface{})
	assert.Equal(t, float64(69), details["score"])
	assert.Equal(t, true, details["has_resume"])
	assert.Equal(t, "MQ-1", details["application_id"])
	assert.Equal(t, "Senior Backend Engineer", details["job_title"])
	assert.Contains(t, details, "breakdown")

	resp = s.recruiter(t, fiber.MethodGet, "/api/score_details/MQ-404", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestScoredAndFilteredApplications(t *testing.T) {
	s := newTestServer(t)

	resp := s.recruiter(t, fiber.MethodGet, "/api/filtered_scores", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeJSON(t, resp)
	assert.Equal(t, "info", body["status"])
	assert.Equal(t, "No applications found.", body["message"])

	s.createApplication(t, "MQ-strong", "Senior Backend Engineer", backendApplicant)
	s.createApplication(t, "MQ-weak", "Intern", `{}`)
	s.writeResume(t, "MQ-strong_cv.pdf", []byte("%PDF"))
	s.writeResume(t, "MQ-weak_cv.jpg", []byte("jpg"))

	resp = s.recruiter(t, fiber.MethodGet, "/api/scored_applications", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	apps := decodeJSON(t, resp)["applications"].([]interface{})
	require.Len(t, apps, 2)
	first := apps[0].(map[string]interface{})
	assert.Equal(t, "MQ-strong", first["App_ID"])
	assert.Equal(t, float64(69), first["ATS_Score"])
	assert.Equal(t, "MQ-strong_cv.pdf", first["Resume_File"])
	second := apps[1].(map[string]interface{})
	assert.Equal(t, float64(30), second["ATS_Score"])

	resp = s.recruiter(t, fiber.MethodGet, "/api/filtered_scores", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	filtered := decodeJSON(t, resp)["filtered_applications"].([]interface{})
	require.Len(t, filtered, 1)
	assert.Equal(t, "MQ-strong", filtered[0].(map[string]interface{})["App_ID"])
}

func TestListResumeFiles(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 55; i++ {
		s.writeResume(t, fmt.Sprintf("MQ-%02d_cv.pdf", i), []byte("%PDF"))
	}

	resp := s.recruiter(t, fiber.MethodGet, "/api/list_resume_files", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	assert.Equal(t, float64(55), body["total_files"])
	assert.Len(t, body["files"], 50)
	assert.Len(t, body["application_ids_found"], 55)
	assert.Equal(t, s.uploadDir, body["upload_folder"])
	assert.NotEmpty(t, body["current_directory"])
}

func TestViewResume(t *testing.T) {
	s := newTestServer(t)
	s.createApplication(t, "MQ-1", "Intern", `{}`)
	s.createApplication(t, "MQ-2", "Intern", `{}`)
	s.writeResume(t, "MQ-1_scan.JPG", []byte("jpeg-bytes"))

	resp := s.recruiter(t, fiber.MethodGet, "/api/view_resume/MQ-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, `inline; filename="MQ-1_scan.JPG"`, resp.Header.Get(fiber.HeaderContentDisposition))
	assert.Equal(t, "jpeg-bytes", readBody(t, resp))

	resp = s.recruiter(t, fiber.MethodGet, "/api/view_resume/MQ-2", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Resume file not found for this application.", decodeJSON(t, resp)["message"])

	resp = s.recruiter(t, fiber.MethodGet, "/api/view_resume/MQ-3", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestResumeHighlights(t *testing.T) {
	s := newTestServer(t)
	s.parser.text = backendResume
	s.createApplication(t, "MQ-1", "Senior Backend Engineer", backendApplicant)
	s.writeResume(t, "MQ-1_cv.pdf", []byte("%PDF"))

	resp := s.recruiter(t, fiber.MethodGet, "/api/resume_highlights/MQ-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "MQ-1", body["application_id"])
	assert.Equal(t, float64(69), body["ats_score"])
	assert.Equal(t, float64(3), body["matched_keywords_count"])
	assert.Equal(t, true, body["pdf_extraction_available"])
	highlights := body["highlights"].(map[string]interface{})
	assert.ElementsMatch(t, []interface{}{"aws", "docker", "node"}, highlights["matched_keywords"])
}

func TestResumeHighlights_Errors(t *testing.T) {
	s := newTestServer(t)
	s.createApplication(t, "MQ-jpg", "Intern", `{}`)
	s.writeResume(t, "MQ-jpg_scan.jpg", []byte("jpg"))
	s.createApplication(t, "MQ-none", "Intern", `{}`)
	s.createApplication(t, "MQ-blank", "Intern", `{}`)
	s.writeResume(t, "MQ-blank_cv.pdf", []byte("%PDF"))

	tests := []struct {
		path       string
		wantStatus int
		wantMsg    string
	}{
		{"/api/resume_highlights/MQ-jpg", fiber.StatusBadRequest,
			"Resume highlighting is only available for PDF files. Image files (JPG) are not supported for text extraction."},
		{"/api/view_resume_highlighted/MQ-jpg", fiber.StatusBadRequest, "Highlighted view is only available for PDF files."},
		{"/api/resume_highlights/MQ-none", fiber.StatusNotFound, "Resume file not found"},
		{"/api/resume_highlights/MQ-blank", fiber.StatusInternalServerError,
			"Could not extract text from PDF. The file may be image-based or corrupted."},
		{"/api/view_resume_highlighted/MQ-404", fiber.StatusNotFound, "Application ID not found."},
	}

	for _, tt := range tests {
		resp := s.recruiter(t, fiber.MethodGet, tt.path, nil)
		assert.Equal(t, tt.wantStatus, resp.StatusCode, tt.path)
		assert.Equal(t, tt.wantMsg, decodeJSON(t, resp)["message"], tt.path)
	}
}

func TestResumeHighlights_ReaderFailureIsNotReportedAsEmpty(t *testing.T) {
	s := newTestServer(t)
	s.parser.err = fmt.Errorf("%w: corrupt xref", services.ErrExtractionFailed)
	s.createApplication(t, "MQ-1", "Intern", `{}`)
	s.writeResume(t, "MQ-1_cv.pdf", []byte("%PDF"))

	for _, path := range []string{"/api/resume_highlights/MQ-1", "/api/view_resume_highlighted/MQ-1"} {
		resp := s.recruiter(t, fiber.MethodGet, path, nil)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode, path)
		msg := decodeJSON(t, resp)["message"].(string)
		assert.True(t, strings.HasPrefix(msg, "PDF text extraction failed: "), msg)
		assert.Contains(t, msg, "corrupt xref")
		assert.NotContains(t, msg, "image-based")
	}
}

func TestViewResumeHighlighted(t *testing.T) {
	s := newTestServer(t)
	s.parser.text = backendResume
	s.createApplication(t, "MQ-1", "Senior Backend Engineer", backendApplicant)
	s.writeResume(t, "MQ-1_cv.pdf", []byte("%PDF"))

	resp := s.recruiter(t, fiber.MethodGet, "/api/view_resume_highlighted/MQ-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMETextHTML))

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, "Resume - MQ-1 - Highlighted", doc.Find("title").Text())
	assert.Equal(t, "69%", doc.Find(".score-badge").Text())
	assert.Contains(t, doc.Find(".header-info").Text(), "Senior Backend Engineer")

	content := doc.Find(".resume-content")
	require.Equal(t, 1, content.Length())
	assert.Contains(t, content.Text(), "Developer at Acme <R&D>")
	assert.Equal(t, 0, content.Find("r").Length())

	var highlighted []string
	content.Find("span").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		assert.True(t, strings.HasPrefix(class, "highlight"), class)
		highlighted = append(highlighted, strings.ToLower(sel.Text()))
	})
	assert.Contains(t, highlighted, "docker")
	assert.Contains(t, highlighted, "node")

	assert.Equal(t, 5, doc.Find(".legend .legend-item").Length())
}

func TestExportToExcel(t *testing.T) {
	s := newTestServer(t)

	resp := s.recruiter(t, fiber.MethodGet, "/api/export_to_excel", nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.True(t, strings.HasPrefix(decodeJSON(t, resp)["message"].(string), "Failed to generate Excel file: "))

	s.createApplication(t, "MQ-1", "Senior Backend Engineer", backendApplicant)

	resp = s.recruiter(t, fiber.MethodGet, "/api/export_to_excel", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxMimeType, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "All_Applications_Export.xlsx")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue("All Applications", "A2")
	require.NoError(t, err)
	assert.Equal(t, "MQ-1", value)
}
