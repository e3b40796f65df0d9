package extraction

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-extractor/internal/dom"
	"github.com/jonathan/job-extractor/internal/logging"
)

// Extractor runs full extraction passes. It holds no per-page state and may be shared
// between goroutines working on different documents.
type Extractor struct {
	expandDescription bool
	openInsight       bool
	logger            *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithExpandDescription toggles clicking a show-more control before extraction.
func WithExpandDescription(enabled bool) Option {
	return func(e *Extractor) { e.expandDescription = enabled }
}

// WithOpenInsight toggles opening the skills insight modal before extraction.
func WithOpenInsight(enabled bool) Option {
	return func(e *Extractor) { e.openInsight = enabled }
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

// New creates an Extractor. UI actions are disabled unless enabled by options.
func New(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.OrNop(e.logger)
	return e
}

// Extract runs one pass over doc: optional UI actions, then every field extractor.
func (e *Extractor) Extract(doc dom.Document) JobExtractionResult {
	start := time.Now()
	logger := e.logger.With(
		zap.String(logging.FieldPassID, uuid.NewString()),
		zap.String(logging.FieldURL, doc.URL()),
	)

	if e.expandDescription {
		ExpandDescription(doc, logger)
	}
	if e.openInsight {
		if HasInsightModal(doc, logger) {
			logger.Debug("skills insight already open")
		} else {
			OpenSkillsInsight(doc, logger)
		}
	}

	workType := ClassifyWorkType(doc, logger)
	result := JobExtractionResult{
		Title:       ExtractTitle(doc, logger),
		Company:     ExtractCompany(doc, logger),
		Location:    ExtractLocation(doc, logger),
		Description: ExtractDescription(doc, logger),
		ApplyURL:    ExtractApplyURL(doc, logger),
		PostedDate:  ExtractPostedDate(doc, logger),
		WorkType:    workType.Value,
		Skills:      ExtractSkills(doc, logger),
	}

	logger.Info("extraction pass complete",
		zap.Bool("has_title", result.Title != ""),
		zap.String(logging.FieldMode, string(workType.Mode)),
		zap.Int(logging.FieldCount, len(result.Skills)),
		zap.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
	return result
}
