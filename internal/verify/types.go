package verify

import (
	"time"

	"github.com/stayll/leasecore/internal/leasefield"
)

// Field is a persisted extracted field. ValueText nil means the catalog field
// was not found in the document; such fields always carry confidence zero and
// a pending state.
type Field struct {
	LeaseID         string                    `json:"lease_id" db:"lease_id"`
	FieldName       string                    `json:"field_name" db:"field_name"`
	Priority        leasefield.Priority       `json:"priority" db:"priority"`
	ValueText       *string                   `json:"value_text" db:"value_text"`
	ValueNormalized *string                   `json:"value_normalized" db:"value_normalized"`
	Confidence      int                       `json:"extraction_confidence" db:"confidence"`
	ReasonCodes     []leasefield.ReasonCode   `json:"reason_codes"`
	Source          leasefield.SourceLocation `json:"source_location"`
	State           ValidationState           `json:"validation_state" db:"state"`
	Notes           string                    `json:"validation_notes" db:"notes"`
	LastModifiedBy  string                    `json:"last_modified_by" db:"last_modified_by"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// Lease is the aggregate record. Status and Confidence are derived from the
// field set and recomputed after every transition, never written directly.
type Lease struct {
	ID             string      `json:"id"`
	OrganizationID string      `json:"organization_id"`
	Status         LeaseStatus `json:"verification_status"`
	Confidence     int         `json:"confidence_score"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type AuditAction string

const (
	ActionExtract   AuditAction = "extract"
	ActionReExtract AuditAction = "re_extract"
	ActionApprove   AuditAction = "approve"
	ActionEdit      AuditAction = "edit"
)

// AuditEvent records one field transition. Every human action and every
// overwrite of an existing field emits exactly one event; identity is never
// taken from ambient defaults, the actor travels with the call.
type AuditEvent struct {
	ID        string      `json:"id"`
	LeaseID   string      `json:"lease_id"`
	FieldName string      `json:"field_name"`
	Action    AuditAction `json:"action"`
	PrevState string      `json:"previous_state"`
	NewState  string      `json:"new_state"`
	PrevValue *string     `json:"previous_value"`
	NewValue  *string     `json:"new_value"`
	Actor     string      `json:"actor"`
	Note      string      `json:"note,omitempty"`
	At        time.Time   `json:"at"`
}
