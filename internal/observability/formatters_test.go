package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/job-extractor/internal/extraction"
	"github.com/jonathan/job-extractor/internal/pipeline"
)

func TestPrintJobResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobResult(extraction.JobExtractionResult{
		Title:       "Senior Backend Engineer",
		Company:     "Nordic Cloud ApS",
		Location:    "København, Region Hovedstaden",
		Description: "We build Go services.\nSecond line",
		ApplyURL:    "https://www.linkedin.com/jobs/view/1",
		WorkType:    extraction.WorkTypeHybrid,
		Skills:      []string{"Go", "PostgreSQL", "Kubernetes", "Docker", "AWS", "Terraform", "Kafka"},
	})
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED JOB")
	assert.Contains(t, output, "Senior Backend Engineer")
	assert.Contains(t, output, "Nordic Cloud ApS")
	assert.Contains(t, output, "Hybrid")
	assert.Contains(t, output, "We build Go services.")
	assert.NotContains(t, output, "Second line")
	assert.Contains(t, output, "... and 2 more")
	assert.Contains(t, output, "Posted:    -")
}

func TestPrintJobResult_BoxLinesAligned(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobResult(extraction.JobExtractionResult{
		Title:    strings.Repeat("æ", 100),
		Location: "Århus",
	})

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
}

func TestPrintJobLinks(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobLinks([]string{"https://www.linkedin.com/jobs/view/1", "https://www.linkedin.com/jobs/view/2"})
	output := buf.String()

	assert.Contains(t, output, "HARVESTED JOB LINKS")
	assert.Contains(t, output, "Found 2 job links")
	assert.Contains(t, output, "jobs/view/2")
}

func TestPrintJobLinks_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobLinks(nil)

	assert.Contains(t, buf.String(), "NO JOB LINKS FOUND")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSummary(&pipeline.Summary{
		RunID:     "run-1",
		Harvested: 3,
		Extracted: 1,
		Created:   1,
		Skipped:   1,
		Failed:    1,
		Duration:  1500 * time.Millisecond,
		Jobs: []pipeline.JobResult{
			{URL: "https://www.linkedin.com/jobs/view/1", Outcome: pipeline.OutcomeCreated},
			{URL: "https://www.linkedin.com/jobs/view/2", Outcome: pipeline.OutcomeSkipped, Err: pipeline.ErrEmptyExtraction},
			{URL: "https://www.linkedin.com/jobs/view/3", Outcome: pipeline.OutcomeFailed, Err: errors.New("timeout")},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "CRAWL SUMMARY")
	assert.Contains(t, output, "Harvested: 3")
	assert.Contains(t, output, "Duration:  1.5s")
	assert.Contains(t, output, "⚠ skipped https://www.linkedin.com/jobs/view/2")
	assert.Contains(t, output, "⚠ failed https://www.linkedin.com/jobs/view/3")
	assert.NotContains(t, output, "created https")
}

func TestPrintSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSummary(nil)

	assert.Empty(t, buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ææææ...", truncate(strings.Repeat("æ", 20), 7))
}
