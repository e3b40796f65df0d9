// Package pipeline runs extraction over many job pages: harvest links from search
// result pages, extract each job page and submit the postings to the jobs API.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-extractor/internal/extraction"
	"github.com/jonathan/job-extractor/internal/jobsapi"
	"github.com/jonathan/job-extractor/internal/logging"
)

// Defaults for Options.
const (
	DefaultWorkers     = 2
	DefaultPageTimeout = 45 * time.Second
)

// ErrEmptyExtraction is reported for pages where no identifying field was found.
var ErrEmptyExtraction = errors.New("extraction found no title, company or description")

// Job outcomes.
const (
	OutcomeExtracted = "extracted"
	OutcomeCreated   = "created"
	OutcomeUpdated   = "updated"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// Progress steps.
const (
	StepHarvest = "harvest"
	StepExtract = "extract"
	StepSubmit  = "submit"
)

// ProgressEvent represents a progress update during a crawl
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	URL     string `json:"url,omitempty"`
}

// ProgressCallback is called when crawl progress occurs. Workers call it concurrently.
type ProgressCallback func(event ProgressEvent)

// Submitter stores postings. *jobsapi.Client implements it.
type Submitter interface {
	Submit(ctx context.Context, p jobsapi.Posting) (jobsapi.Outcome, string, error)
}

// Options holds configuration for a Runner
type Options struct {
	Workers     int
	PageTimeout time.Duration
	// MaxJobs caps the number of job pages processed per crawl; zero means no cap.
	MaxJobs    int
	OnProgress ProgressCallback
	// Now is the clock used for extracted_at; defaults to time.Now.
	Now func() time.Time
}

// JobResult is the outcome for one job page.
type JobResult struct {
	URL        string                         `json:"url"`
	ExternalID string                         `json:"external_id,omitempty"`
	Outcome    string                         `json:"outcome"`
	ResourceID string                         `json:"resource_id,omitempty"`
	Result     extraction.JobExtractionResult `json:"result"`
	Err        error                          `json:"-"`
}

// Summary reports a crawl.
type Summary struct {
	RunID     string
	Harvested int
	Extracted int
	Created   int
	Updated   int
	Skipped   int
	Failed    int
	Duration  time.Duration
	Jobs      []JobResult
}

// Runner ties a loader, an extractor and an optional submitter together.
type Runner struct {
	loader    Loader
	extractor *extraction.Extractor
	submitter Submitter
	opts      Options
	logger    *zap.Logger
}

// NewRunner creates a Runner. A nil submitter makes every crawl a dry run.
func NewRunner(loader Loader, extractor *extraction.Extractor, submitter Submitter, opts Options, logger *zap.Logger) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = DefaultPageTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if extractor == nil {
		extractor = extraction.New(extraction.WithLogger(logger))
	}
	return &Runner{
		loader:    loader,
		extractor: extractor,
		submitter: submitter,
		opts:      opts,
		logger:    logging.OrNop(logger),
	}
}

// emitProgress calls the progress callback if configured
func (r *Runner) emitProgress(runID, step, url, message string) {
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(ProgressEvent{Step: step, Message: message, RunID: runID, URL: url})
	}
}

// Harvest loads a search results page and returns its job links.
func (r *Runner) Harvest(ctx context.Context, searchURL string) ([]string, error) {
	pageCtx, cancel := context.WithTimeout(ctx, r.opts.PageTimeout)
	defer cancel()

	page, err := r.loader.Load(pageCtx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load search page %s: %w", searchURL, err)
	}
	defer page.Close()

	return extraction.HarvestJobLinks(page.Doc, r.logger), nil
}

// Extract loads one job page and runs an extraction pass over it.
// A pass that outlives the page timeout is discarded.
func (r *Runner) Extract(ctx context.Context, jobURL string) (extraction.JobExtractionResult, error) {
	pageCtx, cancel := context.WithTimeout(ctx, r.opts.PageTimeout)
	defer cancel()

	page, err := r.loader.Load(pageCtx, jobURL)
	if err != nil {
		return extraction.JobExtractionResult{}, fmt.Errorf("failed to load job page %s: %w", jobURL, err)
	}
	defer page.Close()

	result := r.extractor.Extract(page.Doc)
	if err := pageCtx.Err(); err != nil {
		return extraction.JobExtractionResult{}, fmt.Errorf("extraction of %s exceeded page timeout: %w", jobURL, err)
	}
	if result.Empty() {
		return result, ErrEmptyExtraction
	}
	return result, nil
}

// Crawl harvests every search URL, then extracts and submits each distinct job page
// with a bounded worker pool. Per-job failures are recorded in the summary; the
// returned error is only set when the crawl itself is cut short.
func (r *Runner) Crawl(ctx context.Context, searchURLs []string) (*Summary, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := r.logger.With(zap.String(logging.FieldRunID, runID))
	summary := &Summary{RunID: runID}

	var jobURLs []string
	seen := make(map[string]bool)
	for _, searchURL := range searchURLs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		links, err := r.Harvest(ctx, searchURL)
		if err != nil {
			logger.Warn("harvest failed", zap.String(logging.FieldURL, searchURL), zap.Error(err))
			r.emitProgress(runID, StepHarvest, searchURL, "harvest failed: "+err.Error())
			continue
		}
		for _, link := range links {
			if !seen[link] {
				seen[link] = true
				jobURLs = append(jobURLs, link)
			}
		}
		r.emitProgress(runID, StepHarvest, searchURL, fmt.Sprintf("found %d job links", len(links)))
	}
	if r.opts.MaxJobs > 0 && len(jobURLs) > r.opts.MaxJobs {
		jobURLs = jobURLs[:r.opts.MaxJobs]
	}
	summary.Harvested = len(jobURLs)

	jobs, err := r.ProcessJobs(ctx, runID, jobURLs)
	summary.Jobs = jobs
	for _, job := range jobs {
		switch job.Outcome {
		case OutcomeExtracted:
			summary.Extracted++
		case OutcomeCreated:
			summary.Extracted++
			summary.Created++
		case OutcomeUpdated:
			summary.Extracted++
			summary.Updated++
		case OutcomeSkipped:
			summary.Skipped++
		case OutcomeFailed:
			summary.Failed++
		}
	}
	summary.Duration = time.Since(start)

	logger.Info("crawl complete",
		zap.Int(logging.FieldCount, summary.Harvested),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int64(logging.FieldDurationMS, summary.Duration.Milliseconds()))
	return summary, err
}

// ProcessJobs extracts and submits each job URL. Results keep the input order.
func (r *Runner) ProcessJobs(ctx context.Context, runID string, jobURLs []string) ([]JobResult, error) {
	results := make([]JobResult, len(jobURLs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	for i, jobURL := range jobURLs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				results[i] = JobResult{URL: jobURL, Outcome: OutcomeFailed, Err: err}
				return err
			}
			results[i] = r.processJob(gCtx, runID, jobURL)
			return nil
		})
	}

	// Only cancellation of the parent context is returned from workers.
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Runner) processJob(ctx context.Context, runID, jobURL string) JobResult {
	logger := r.logger.With(zap.String(logging.FieldRunID, runID), zap.String(logging.FieldURL, jobURL))
	job := JobResult{URL: jobURL, ExternalID: jobsapi.ExternalID(jobURL)}

	result, err := r.Extract(ctx, jobURL)
	job.Result = result
	switch {
	case errors.Is(err, ErrEmptyExtraction):
		job.Outcome = OutcomeSkipped
		job.Err = err
		logger.Info("skipping empty extraction")
		r.emitProgress(runID, StepExtract, jobURL, "no job fields found")
		return job
	case err != nil:
		job.Outcome = OutcomeFailed
		job.Err = err
		logger.Warn("extraction failed", zap.Error(err))
		r.emitProgress(runID, StepExtract, jobURL, "extraction failed: "+err.Error())
		return job
	}
	r.emitProgress(runID, StepExtract, jobURL, fmt.Sprintf("extracted %q", result.Title))

	if r.submitter == nil {
		job.Outcome = OutcomeExtracted
		return job
	}

	posting := jobsapi.NewPosting(jobURL, result, r.opts.Now())
	outcome, id, err := r.submitter.Submit(ctx, posting)
	if err != nil {
		job.Outcome = OutcomeFailed
		job.Err = fmt.Errorf("submit failed: %w", err)
		logger.Warn("submit failed", zap.String(logging.FieldJobID, posting.ExternalID), zap.Error(err))
		r.emitProgress(runID, StepSubmit, jobURL, "submit failed: "+err.Error())
		return job
	}
	job.Outcome = string(outcome)
	job.ResourceID = id
	logger.Debug("posting submitted",
		zap.String(logging.FieldJobID, posting.ExternalID),
		zap.String("outcome", job.Outcome))
	r.emitProgress(runID, StepSubmit, jobURL, job.Outcome)
	return job
}
