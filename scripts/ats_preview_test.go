package main

import (
	"bytes"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medquest/careers-api/internal/ats"
	"medquest/careers-api/internal/models"
)

func TestListKeywords(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, listKeywords(&out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.True(t, sort.StringsAreSorted(lines))
	assert.Contains(t, lines, "docker")
	for _, kw := range lines {
		assert.True(t, ats.IsCatalogKeyword(kw), kw)
	}
}

func TestBuildPreview(t *testing.T) {
	scorer := ats.NewScorer(ats.WithJitter(func() int { return 0 }))
	job := ats.JobPosting{Title: "Backend Engineer", Description: "Node and Docker"}
	text := "Skills:\nNode, Docker\n"

	skipped := models.ParseApplicantProfile([]byte(`{"work": {"status": "Skipped"}}`))
	p := buildPreview(scorer, job, skipped, "cv.pdf", text)
	assert.True(t, p.WorkSkipped)
	assert.Equal(t, 0, p.ScoreDetails.Breakdown.WorkExperienceScore)
	assert.ElementsMatch(t, []string{"docker", "node"}, p.Highlights.MatchedKeywords)

	listed := models.ParseApplicantProfile([]byte(`{"work": [{"title": "Node developer"}]}`))
	p = buildPreview(scorer, job, listed, "cv.pdf", text)
	assert.False(t, p.WorkSkipped)
	assert.Equal(t, 3, p.ScoreDetails.Breakdown.WorkExperienceScore)
}
