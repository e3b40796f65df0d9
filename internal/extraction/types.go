// Package extraction pulls job posting fields out of a loaded job page.
//
// Every field is resolved through an ordered chain of candidate rules. A rule that
// fails to query or extract is skipped, never fatal, so the worst outcome of a pass
// is a result with empty fields.
package extraction

// WorkType is the working arrangement of a posting.
type WorkType string

// Work types. WorkTypeUnknown is the zero value.
const (
	WorkTypeRemote  WorkType = "Remote"
	WorkTypeHybrid  WorkType = "Hybrid"
	WorkTypeOnSite  WorkType = "On-site"
	WorkTypeUnknown WorkType = ""
)

// JobExtractionResult is the best-effort snapshot of one job page.
// Each field is independently optional; ApplyURL falls back to the page URL.
type JobExtractionResult struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	ApplyURL    string   `json:"apply_url"`
	PostedDate  string   `json:"posted_date,omitempty"`
	WorkType    WorkType `json:"work_type"`
	Skills      []string `json:"skills"`
}

// Empty reports whether no identifying field was found.
func (r JobExtractionResult) Empty() bool {
	return r.Title == "" && r.Company == "" && r.Description == ""
}
