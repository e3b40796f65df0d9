package logging

// Standard field names for structured log events.
// Use these constants instead of raw strings so events stay queryable.
const (
	// Identity
	FieldPassID = "pass_id"
	FieldRunID  = "run_id"
	FieldJobID  = "job_id"

	// Extraction
	FieldField    = "field"
	FieldRule     = "rule"
	FieldSelector = "selector"
	FieldMode     = "mode"
	FieldKeyword  = "keyword"
	FieldTier     = "tier"
	FieldAction   = "action"
	FieldHeur     = "heuristic"

	// Pages and transport
	FieldURL       = "url"
	FieldHost      = "host"
	FieldStatus    = "status"
	FieldMethod    = "method"
	FieldComponent = "component"

	// Errors
	FieldError = "error"

	// Counts and timing
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
)
