package jobsapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-extractor/internal/extraction"
	"github.com/jonathan/job-extractor/internal/fetch"
)

// Posting is one job posting as stored by the jobs API.
type Posting struct {
	ExternalID    string              `json:"external_id"`
	SourceURL     string              `json:"source_url"`
	Platform      fetch.Platform      `json:"platform"`
	Title         string              `json:"title"`
	Company       string              `json:"company,omitempty"`
	Location      string              `json:"location,omitempty"`
	Description   string              `json:"description,omitempty"`
	ApplyURL      string              `json:"apply_url"`
	ApplyPlatform fetch.Platform      `json:"apply_platform,omitempty"`
	PostedDate    string              `json:"posted_date,omitempty"`
	WorkType      extraction.WorkType `json:"work_type"`
	Skills        []string            `json:"skills"`
	ExtractedAt   time.Time           `json:"extracted_at"`
}

// NewPosting builds the stored record for a page. The external id is the site's job id
// when the URL carries one, otherwise a stable UUID derived from the normalized URL.
func NewPosting(sourceURL string, result extraction.JobExtractionResult, extractedAt time.Time) Posting {
	normalized, err := extraction.NormalizeJobURL(sourceURL)
	if err != nil {
		normalized = sourceURL
	}

	skills := result.Skills
	if skills == nil {
		skills = []string{}
	}

	return Posting{
		ExternalID:    ExternalID(sourceURL),
		SourceURL:     normalized,
		Platform:      fetch.DetectPlatform(sourceURL),
		Title:         result.Title,
		Company:       result.Company,
		Location:      result.Location,
		Description:   result.Description,
		ApplyURL:      result.ApplyURL,
		ApplyPlatform: fetch.DetectPlatform(result.ApplyURL),
		PostedDate:    result.PostedDate,
		WorkType:      result.WorkType,
		Skills:        skills,
		ExtractedAt:   extractedAt.UTC(),
	}
}

// ExternalID returns the upsert key for a job page URL.
func ExternalID(sourceURL string) string {
	if id, ok := extraction.JobIDFromURL(sourceURL); ok {
		return id
	}
	normalized, err := extraction.NormalizeJobURL(sourceURL)
	if err != nil {
		normalized = sourceURL
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(normalized)).String()
}
