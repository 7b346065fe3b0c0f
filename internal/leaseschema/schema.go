// Package leaseschema defines the structured lease model that downstream
// generators (projections, compliance calendars, rent rolls) consume. It is
// deliberately independent of extraction: a schema can be assembled from
// verified fields or supplied directly by a caller.
package leaseschema

import (
	"fmt"
	"time"
)

type Frequency string

const (
	FreqMonthly   Frequency = "monthly"
	FreqQuarterly Frequency = "quarterly"
	FreqAnnual    Frequency = "annual"
	FreqOneTime   Frequency = "one_time"
)

// PeriodsPerYear returns how many escalation events a frequency produces
// within one year. one_time counts as a single event.
func (f Frequency) PeriodsPerYear() int {
	switch f {
	case FreqMonthly:
		return 12
	case FreqQuarterly:
		return 4
	default:
		return 1
	}
}

// Months returns the recurrence interval in months, zero for one_time.
func (f Frequency) Months() int {
	switch f {
	case FreqMonthly:
		return 1
	case FreqQuarterly:
		return 3
	case FreqAnnual:
		return 12
	default:
		return 0
	}
}

func (f Frequency) Valid() bool {
	switch f {
	case FreqMonthly, FreqQuarterly, FreqAnnual, FreqOneTime:
		return true
	}
	return false
}

// RentScheduleEntry is one contiguous rent period. Amount is the payment per
// Frequency period, not an annual figure.
type RentScheduleEntry struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Amount    float64   `json:"amount"`
	Frequency Frequency `json:"frequency"`
}

type RenewalOption struct {
	TermMonths int `json:"term_months"`
	NoticeDays int `json:"notice_days"`
}

// EscalationTerm holds the clause-level escalation data the schema carries.
// EffectiveDate nil means the term recurs by Frequency from commencement.
type EscalationTerm struct {
	ClauseText    string     `json:"clause_text"`
	Frequency     Frequency  `json:"frequency"`
	EffectiveDate *time.Time `json:"effective_date,omitempty"`
}

// ObligationKind is a closed set; every consumer switches over it
// exhaustively so a new kind is a compile-visible change, not a silent no-op.
type ObligationKind string

const (
	ObligationNotice            ObligationKind = "notice"
	ObligationTerminationNotice ObligationKind = "termination_notice"
	ObligationComplianceCheck   ObligationKind = "compliance_check"
)

type Obligation struct {
	Kind        ObligationKind `json:"kind"`
	Date        time.Time      `json:"date"`
	Description string         `json:"description"`
}

// Lease is the structured schema for one lease. Monetary fields are monthly
// figures. Zero-value dates mean "not known".
type Lease struct {
	ID           string `json:"id"`
	PropertyName string `json:"property_name"`
	TenantName   string `json:"tenant_name"`

	Commencement time.Time  `json:"commencement"`
	Expiration   *time.Time `json:"expiration,omitempty"`

	BaseRentMonthly  float64 `json:"base_rent_monthly"`
	CAMMonthly       float64 `json:"cam_monthly"`
	TaxesMonthly     float64 `json:"taxes_monthly"`
	InsuranceMonthly float64 `json:"insurance_monthly"`

	RentSchedule   []RentScheduleEntry `json:"rent_schedule,omitempty"`
	RenewalOptions []RenewalOption     `json:"renewal_options,omitempty"`
	Escalations    []EscalationTerm    `json:"escalations,omitempty"`
	Obligations    []Obligation        `json:"obligations,omitempty"`
}

// Validate checks internal consistency. A lease without a commencement date
// is allowed (some documents never yield one); what is present must cohere.
func (l *Lease) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("lease id is required")
	}
	if l.Expiration != nil && !l.Commencement.IsZero() && l.Expiration.Before(l.Commencement) {
		return fmt.Errorf("lease %s: expiration %s precedes commencement %s",
			l.ID, l.Expiration.Format("2006-01-02"), l.Commencement.Format("2006-01-02"))
	}
	if l.BaseRentMonthly < 0 {
		return fmt.Errorf("lease %s: negative base rent", l.ID)
	}
	for i, e := range l.RentSchedule {
		if e.End.Before(e.Start) {
			return fmt.Errorf("lease %s: rent schedule entry %d ends before it starts", l.ID, i)
		}
		if !e.Frequency.Valid() {
			return fmt.Errorf("lease %s: rent schedule entry %d has unknown frequency %q", l.ID, i, e.Frequency)
		}
		if e.Amount < 0 {
			return fmt.Errorf("lease %s: rent schedule entry %d has negative amount", l.ID, i)
		}
	}
	for i, t := range l.Escalations {
		if !t.Frequency.Valid() {
			return fmt.Errorf("lease %s: escalation %d has unknown frequency %q", l.ID, i, t.Frequency)
		}
	}
	for i, o := range l.Obligations {
		switch o.Kind {
		case ObligationNotice, ObligationTerminationNotice, ObligationComplianceCheck:
		default:
			return fmt.Errorf("lease %s: obligation %d has unknown kind %q", l.ID, i, o.Kind)
		}
	}
	return nil
}

// RemainingTermYears is the lease term left after the reference date, in
// fractional years. Zero when expired or when no expiration is known.
func (l *Lease) RemainingTermYears(now time.Time) float64 {
	if l.Expiration == nil || !l.Expiration.After(now) {
		return 0
	}
	return l.Expiration.Sub(now).Hours() / 24 / 365.25
}
