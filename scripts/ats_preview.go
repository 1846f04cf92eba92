package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"medquest/careers-api/internal/ats"
	"medquest/careers-api/internal/models"
	"medquest/careers-api/internal/services"
	"medquest/careers-api/internal/views"
)

var rootCmd = &cobra.Command{
	Use:   "ats_preview <resume.pdf>",
	Short: "Score and highlight a local resume against a job posting",
	Long:  "Runs the ATS scorer and section highlighter on a local PDF without the API server, printing the score breakdown as JSON and optionally writing the highlighted HTML page.",
	Args: func(cmd *cobra.Command, args []string) error {
		if previewListKeywords {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runPreview,
}

var (
	previewTitle        string
	previewDescription  string
	previewProfileFile  string
	previewHTMLOut      string
	previewNoJitter     bool
	previewListKeywords bool
)

func init() {
	rootCmd.Flags().StringVarP(&previewTitle, "title", "t", "", "Job title (defaults to the profile's jobTitle)")
	rootCmd.Flags().StringVarP(&previewDescription, "description", "d", "", "Job description text (defaults to the profile's jobDescription)")
	rootCmd.Flags().StringVarP(&previewProfileFile, "profile", "p", "", "Path to the applicant form JSON")
	rootCmd.Flags().StringVarP(&previewHTMLOut, "html", "o", "", "Write the highlighted resume page to this file")
	rootCmd.Flags().BoolVar(&previewNoJitter, "no-jitter", false, "Disable the random score jitter")
	rootCmd.Flags().BoolVar(&previewListKeywords, "list-keywords", false, "Print the skill catalog and exit")
}

type preview struct {
	ScoreDetails ats.ScoreBreakdown  `json:"score_details"`
	Highlights   ats.HighlightReport `json:"highlights"`
	WorkSkipped  bool                `json:"work_skipped"`
}

func buildPreview(scorer *ats.Scorer, job ats.JobPosting, profile models.ApplicantProfile, resumeName, text string) preview {
	return preview{
		ScoreDetails: scorer.Score(job, profile, resumeName),
		Highlights:   ats.Highlight(text, job, profile),
		WorkSkipped:  profile.WorkSkipped(),
	}
}

func listKeywords(w io.Writer) error {
	for _, kw := range ats.CatalogKeywords() {
		if _, err := fmt.Fprintln(w, kw); err != nil {
			return err
		}
	}
	return nil
}

func runPreview(_ *cobra.Command, args []string) error {
	if previewListKeywords {
		return listKeywords(os.Stdout)
	}
	resumePath := args[0]

	profile := models.ParseApplicantProfile([]byte("{}"))
	if previewProfileFile != "" {
		raw, err := os.ReadFile(previewProfileFile)
		if err != nil {
			return fmt.Errorf("failed to read profile: %w", err)
		}
		profile = models.ParseApplicantProfile(raw)
	}

	job := ats.JobPosting{Title: profile.JobTitle, Description: profile.JobDescription}
	if previewTitle != "" {
		job.Title = previewTitle
	}
	if previewDescription != "" {
		job.Description = previewDescription
	}
	if job.Title == "" {
		return fmt.Errorf("a job title is required (use --title or a profile with jobTitle)")
	}

	var opts []ats.ScorerOption
	if previewNoJitter {
		opts = append(opts, ats.WithJitter(func() int { return 0 }))
	}

	text, err := services.NewPDFParserService().ExtractText(resumePath)
	if err != nil {
		return fmt.Errorf("failed to extract resume text: %w", err)
	}

	result := buildPreview(ats.NewScorer(opts...), job, profile, filepath.Base(resumePath), text)
	log.Printf("✅ Scored %s: %d (%d matched keywords)\n",
		filepath.Base(resumePath), result.ScoreDetails.Score, len(result.Highlights.MatchedKeywords))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}

	if previewHTMLOut == "" {
		return nil
	}
	report := result.Highlights
	return writePage(previewHTMLOut, services.HighlightedResume{
		ApplicationID:   filepath.Base(resumePath),
		JobTitle:        job.Title,
		ATSScore:        result.ScoreDetails.Score,
		MatchedKeywords: len(report.MatchedKeywords),
		Content:         template.HTML(ats.Render(text, report.MatchedKeywords, report, job.Title)),
	})
}

func writePage(path string, page services.HighlightedResume) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := views.NewEngine().Render(f, views.ResumeHighlighted, page); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	log.Printf("📄 Highlighted resume written to %s\n", path)
	return nil
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
