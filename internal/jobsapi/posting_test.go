package jobsapi

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-extractor/internal/extraction"
	"github.com/jonathan/job-extractor/internal/fetch"
	"github.com/jonathan/job-extractor/internal/schemas"
	rootschemas "github.com/jonathan/job-extractor/schemas"
)

func sampleResult() extraction.JobExtractionResult {
	return extraction.JobExtractionResult{
		Title:       "Senior Backend Engineer",
		Company:     "Nordic Cloud ApS",
		Location:    "Copenhagen, Capital Region, Denmark",
		Description: "We are looking for a backend engineer to build our Go services and data platform.",
		ApplyURL:    "https://boards.greenhouse.io/nordic/jobs/123",
		PostedDate:  "2026-10-16",
		WorkType:    extraction.WorkTypeHybrid,
		Skills:      []string{"Go", "PostgreSQL"},
	}
}

func TestNewPosting(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	p := NewPosting("https://www.linkedin.com/jobs/view/3912345678/?trk=abc", sampleResult(), now)

	assert.Equal(t, "3912345678", p.ExternalID)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/3912345678", p.SourceURL)
	assert.Equal(t, fetch.PlatformLinkedIn, p.Platform)
	assert.Equal(t, fetch.PlatformGreenhouse, p.ApplyPlatform)
	assert.Equal(t, extraction.WorkTypeHybrid, p.WorkType)
	assert.Equal(t, time.UTC, p.ExtractedAt.Location())
	assert.True(t, now.Equal(p.ExtractedAt))

	require.NoError(t, schemas.ValidateValue(rootschemas.JobPosting, p))
}

func TestNewPosting_NilSkillsBecomeEmptyArray(t *testing.T) {
	r := sampleResult()
	r.Skills = nil
	p := NewPosting("https://www.linkedin.com/jobs/view/1/", r, time.Now())

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"skills":[]`)
}

func TestExternalID(t *testing.T) {
	t.Run("job id from path", func(t *testing.T) {
		assert.Equal(t, "3912345680", ExternalID("https://dk.linkedin.com/jobs/view/platform-engineer-at-nordic-3912345680"))
	})

	t.Run("job id from query", func(t *testing.T) {
		assert.Equal(t, "42", ExternalID("https://www.linkedin.com/jobs/search/?currentJobId=42"))
	})

	t.Run("stable uuid otherwise", func(t *testing.T) {
		a := ExternalID("https://www.jobindex.dk/vis-job/r123?utm=x")
		b := ExternalID("https://www.jobindex.dk/vis-job/r123")
		assert.Equal(t, a, b)
		_, err := uuid.Parse(a)
		assert.NoError(t, err)
	})
}
