package models

import "time"

// ResultStatus tracks the outcome of processing one page.
type ResultStatus string

const (
	StatusPending   ResultStatus = "pending"
	StatusCompleted ResultStatus = "completed"
	StatusFailed    ResultStatus = "failed"
)

// Result is the per-page envelope produced by the pipeline. A page whose
// extraction failed entirely carries a nil Record and a non-empty Error.
type Result struct {
	URL            string         `json:"url"`
	Record         *ProductRecord `json:"record"`
	ImageURL       string         `json:"image_url,omitempty"`
	EnrichedFields int            `json:"enriched_fields"`
	Status         ResultStatus   `json:"status"`
	Error          string         `json:"error,omitempty"`
	ExtractedAt    time.Time      `json:"extracted_at"`
}
