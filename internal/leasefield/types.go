package leasefield

import "time"

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

type FieldType string

const (
	TypeString   FieldType = "string"
	TypeCurrency FieldType = "currency"
	TypeDate     FieldType = "date"
	TypeEnum     FieldType = "enum"
)

// Extraction is the raw outcome of running one field definition against a
// document. Found=false is a normal result, not an error.
type Extraction struct {
	FieldName       string `json:"field_name"`
	Found           bool   `json:"found"`
	ValueText       string `json:"value_text,omitempty"`
	MatchIndex      int    `json:"match_index"`
	Context         string `json:"context,omitempty"`
	EstimatedPage   int    `json:"estimated_page"`
	PatternsMatched int    `json:"patterns_matched"`
	PatternsTotal   int    `json:"patterns_total"`
	// Agreement is true when more than one candidate pattern independently
	// produced the same trimmed value as the winner.
	Agreement bool `json:"agreement"`
}

// SourceLocation is the audit-display slice of an extraction.
type SourceLocation struct {
	TextSnippet   string `json:"text_snippet"`
	EstimatedPage int    `json:"estimated_page"`
}

// Assessment is one fully scored field: extraction plus confidence telemetry.
type Assessment struct {
	FieldName       string         `json:"field_name"`
	Priority        Priority       `json:"priority"`
	Type            FieldType      `json:"field_type"`
	Found           bool           `json:"found"`
	ValueText       *string        `json:"value_text"`
	ValueNormalized *string        `json:"value_normalized"`
	FormatValid     bool           `json:"format_valid"`
	Confidence      int            `json:"extraction_confidence"`
	ReasonCodes     []ReasonCode   `json:"reason_codes"`
	Source          SourceLocation `json:"source_location"`
	PatternsMatched int            `json:"patterns_matched"`
	PatternsTotal   int            `json:"patterns_total"`
	Agreement       bool           `json:"agreement"`
}

type ScanMetadata struct {
	StartedAt          time.Time `json:"started_at"`
	CompletedAt        time.Time `json:"completed_at"`
	FieldsTotal        int       `json:"fields_total"`
	FieldsFound        int       `json:"fields_found"`
	DocumentBytes      int       `json:"document_bytes"`
	NeedsReviewReasons []string  `json:"needs_review_reasons"`
}

// ScanResult is the full output of scanning one document against the catalog.
type ScanResult struct {
	LeaseID string       `json:"lease_id"`
	Fields  []Assessment `json:"fields"`
	// OverallConfidence is the arithmetic mean of all field confidences,
	// rounded to the nearest integer. Missing fields score zero and pull
	// the mean down on purpose.
	OverallConfidence int          `json:"overall_confidence"`
	Metadata          ScanMetadata `json:"metadata"`
}
