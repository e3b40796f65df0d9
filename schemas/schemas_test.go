package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-extractor/internal/schemas"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	schemaFiles, err := filepath.Glob("*.schema.json")
	require.NoError(t, err)
	require.NotEmpty(t, schemaFiles)

	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var v map[string]any
			require.NoError(t, json.Unmarshal(data, &v), "schema file should be valid JSON: %s", schemaFile)
			assert.Contains(t, v, "$schema")
		})
	}
}

func TestJobPosting_EmbeddedMatchesFile(t *testing.T) {
	data, err := os.ReadFile("job_posting.schema.json")
	require.NoError(t, err)
	assert.Equal(t, string(data), JobPosting)
}

func TestJobPosting_AcceptsExtractedPosting(t *testing.T) {
	posting := `{
		"external_id": "3912345678",
		"source_url": "https://www.linkedin.com/jobs/view/3912345678",
		"platform": "linkedin",
		"title": "Senior Backend Developer",
		"company": "Acme ApS",
		"location": "Copenhagen · 3 days ago · 47 applicants",
		"description": "We are looking for a backend developer to build our Golang services.",
		"apply_url": "https://www.linkedin.com/jobs/view/3912345678/apply/",
		"posted_date": "2026-10-16",
		"work_type": "Remote",
		"skills": ["C#", "c#", "Kubernetes"],
		"extracted_at": "2026-10-19T08:30:00Z"
	}`

	assert.NoError(t, schemas.ValidateJSONString(JobPosting, posting))
}

func TestJobPosting_AcceptsEmptyTitle(t *testing.T) {
	posting := `{"external_id":"1","source_url":"https://x/jobs/view/1","platform":"linkedin","title":"","company":"Acme ApS","apply_url":"https://x/jobs/view/1","work_type":"","skills":[],"extracted_at":"2026-10-19T08:30:00Z"}`

	assert.NoError(t, schemas.ValidateJSONString(JobPosting, posting))
}

func TestJobPosting_RejectsInvalidPosting(t *testing.T) {
	tests := []struct {
		name    string
		posting string
		field   string
	}{
		{
			name:    "unknown work type",
			posting: `{"external_id":"1","source_url":"https://x/jobs/view/1","platform":"linkedin","title":"T","apply_url":"https://x/jobs/view/1","work_type":"Office","skills":[],"extracted_at":"2026-10-19T08:30:00Z"}`,
			field:   "work_type",
		},
		{
			name:    "duplicate skills",
			posting: `{"external_id":"1","source_url":"https://x/jobs/view/1","platform":"linkedin","title":"T","apply_url":"https://x/jobs/view/1","work_type":"","skills":["Go","Go"],"extracted_at":"2026-10-19T08:30:00Z"}`,
			field:   "skills",
		},
		{
			name:    "missing title",
			posting: `{"external_id":"1","source_url":"https://x/jobs/view/1","platform":"linkedin","apply_url":"https://x/jobs/view/1","work_type":"","skills":[],"extracted_at":"2026-10-19T08:30:00Z"}`,
			field:   "(root)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schemas.ValidateJSONString(JobPosting, tt.posting)
			require.Error(t, err)

			var validationErr *schemas.ValidationError
			require.ErrorAs(t, err, &validationErr)
			fields := make([]string, 0, len(validationErr.Errors))
			for _, fe := range validationErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}
