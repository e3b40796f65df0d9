// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/job-extractor/internal/extraction"
	"github.com/jonathan/job-extractor/internal/pipeline"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to max runes, ending in "..." when cut.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// PrintJobResult outputs a human-readable summary of one extraction pass.
func (p *Printer) PrintJobResult(result extraction.JobExtractionResult) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Title:     %s\n", orDash(result.Title)))
	sb.WriteString(fmt.Sprintf("Company:   %s\n", orDash(result.Company)))
	sb.WriteString(fmt.Sprintf("Location:  %s\n", orDash(result.Location)))
	sb.WriteString(fmt.Sprintf("Work type: %s\n", orDash(string(result.WorkType))))
	sb.WriteString(fmt.Sprintf("Posted:    %s\n", orDash(result.PostedDate)))
	sb.WriteString(fmt.Sprintf("Apply:     %s\n", orDash(result.ApplyURL)))

	if result.Description != "" {
		first, _, _ := strings.Cut(result.Description, "\n")
		sb.WriteString(fmt.Sprintf("Description (%d chars):\n", utf8.RuneCountInString(result.Description)))
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(first, 50)))
	}

	if len(result.Skills) > 0 {
		sb.WriteString("\nSkills:\n")
		count := min(len(result.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.Skills[i]))
		}
		if len(result.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Skills)-maxItemsToShow))
		}
	}

	p.printBox("EXTRACTED JOB", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobLinks outputs the links harvested from a search page.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintJobLinks(links []string) {
	if len(links) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO JOB LINKS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d job links:\n\n", len(links)))
	for _, link := range links {
		sb.WriteString(fmt.Sprintf("• %s\n", link))
	}

	p.printBox("HARVESTED JOB LINKS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs crawl totals and the jobs that did not make it.
func (p *Printer) PrintSummary(summary *pipeline.Summary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:       %s\n", summary.RunID))
	sb.WriteString(fmt.Sprintf("Harvested: %d\n", summary.Harvested))
	sb.WriteString(fmt.Sprintf("Extracted: %d\n", summary.Extracted))
	sb.WriteString(fmt.Sprintf("Created:   %d\n", summary.Created))
	sb.WriteString(fmt.Sprintf("Updated:   %d\n", summary.Updated))
	sb.WriteString(fmt.Sprintf("Skipped:   %d\n", summary.Skipped))
	sb.WriteString(fmt.Sprintf("Failed:    %d\n", summary.Failed))
	sb.WriteString(fmt.Sprintf("Duration:  %s\n", summary.Duration.Round(100*time.Millisecond)))

	var problems []pipeline.JobResult
	for _, job := range summary.Jobs {
		if job.Outcome == pipeline.OutcomeFailed || job.Outcome == pipeline.OutcomeSkipped {
			problems = append(problems, job)
		}
	}
	if len(problems) > 0 {
		sb.WriteString("\n")
		count := min(len(problems), maxItemsToShow)
		for i := 0; i < count; i++ {
			job := problems[i]
			sb.WriteString(fmt.Sprintf("⚠ %s %s\n", job.Outcome, job.URL))
			if job.Err != nil {
				sb.WriteString(fmt.Sprintf("  %s\n", truncate(job.Err.Error(), 50)))
			}
		}
		if len(problems) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(problems)-maxItemsToShow))
		}
	}

	p.printBox("CRAWL SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}
