// Package schemas holds the JSON Schemas for records the extractor emits.
package schemas

import _ "embed"

// JobPosting is the schema for a posting submitted to the jobs storage API.
//
//go:embed job_posting.schema.json
var JobPosting string
