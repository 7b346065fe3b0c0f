// Package escalation parses rent-escalation clauses into structured rules and
// projects them into multi-year cashflows. Parsing and projection are
// independent: a rule can come from clause text or be supplied directly.
package escalation

import (
	"errors"
	"time"

	"github.com/stayll/leasecore/internal/leaseschema"
)

// ErrInvalidInput marks caller errors (bad horizon, negative rent, mismatched
// scenario horizons). Check with errors.Is.
var ErrInvalidInput = errors.New("invalid escalation input")

type RuleType string

const (
	RuleNone         RuleType = "none"
	RulePercent      RuleType = "percent"
	RuleFixedAmount  RuleType = "fixed_amount"
	RuleCPILinked    RuleType = "cpi_linked"
	RuleStepSchedule RuleType = "step_schedule"
)

// Step is one row of a step-schedule table. Year is 1-based as written in
// lease documents ("Year 1: $100,000" is the first lease year).
type Step struct {
	Year       int     `json:"year"`
	AnnualRent float64 `json:"annual_rent"`
}

// Rule is a structured escalation. Rate is a per-period fraction (0.03 for
// 3%) for percent rules; Amount is a per-period dollar increase for
// fixed_amount rules; Steps holds the schedule for step_schedule rules. A
// cpi_linked rule carries no rate of its own: the rate is supplied at
// projection time by an economic-data collaborator.
type Rule struct {
	Type          RuleType              `json:"type"`
	Rate          float64               `json:"rate,omitempty"`
	Amount        float64               `json:"amount,omitempty"`
	Steps         []Step                `json:"steps,omitempty"`
	Frequency     leaseschema.Frequency `json:"frequency"`
	EffectiveDate *time.Time            `json:"effective_date,omitempty"`
}

// None is the fail-closed rule: no escalation applied, flag for human review.
func None() Rule {
	return Rule{Type: RuleNone, Frequency: leaseschema.FreqAnnual}
}
