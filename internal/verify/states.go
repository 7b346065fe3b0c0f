package verify

import "github.com/stayll/leasecore/internal/leasefield"

// ValidationState is a field's position in the human-in-the-loop lifecycle.
// candidate exists only transiently: creation immediately resolves it to
// auto_pass, flagged, or rule_fail based on validator outcome and score.
type ValidationState string

const (
	StateCandidate ValidationState = "candidate"
	StateAutoPass  ValidationState = "auto_pass"
	StateFlagged   ValidationState = "flagged"
	StateRuleFail  ValidationState = "rule_fail"
	StateHumanPass ValidationState = "human_pass"
	StateHumanEdit ValidationState = "human_edit"
)

type LeaseStatus string

const (
	LeaseUnverified LeaseStatus = "unverified"
	LeaseInReview   LeaseStatus = "in_review"
	LeaseVerified   LeaseStatus = "verified"
)

// Auto-pass thresholds. A wrong rent figure is materially worse than a wrong
// pets clause, so critical fields need a higher score to skip human review.
const (
	thresholdCritical = 85
	thresholdDefault  = 70
)

// ThresholdFor returns the minimum confidence for auto_pass at a priority.
func ThresholdFor(p leasefield.Priority) int {
	if p == leasefield.PriorityCritical {
		return thresholdCritical
	}
	return thresholdDefault
}

// InitialState resolves a freshly extracted field. Validator rejection always
// wins over score; a missing value can never auto-pass.
func InitialState(found, formatValid bool, score int, priority leasefield.Priority) ValidationState {
	if !found {
		return StateFlagged
	}
	if !formatValid {
		return StateRuleFail
	}
	if score >= ThresholdFor(priority) {
		return StateAutoPass
	}
	return StateFlagged
}

// IsVerified reports whether a state counts toward lease verification.
func (s ValidationState) IsVerified() bool {
	return s == StateAutoPass || s == StateHumanPass || s == StateHumanEdit
}

// IsTerminal reports whether a state is reviewer-asserted. Terminal fields
// are never overwritten by re-extraction without an explicit force decision.
func (s ValidationState) IsTerminal() bool {
	return s == StateHumanPass || s == StateHumanEdit
}

// IsPending reports whether a state still needs attention.
func (s ValidationState) IsPending() bool {
	return s == StateCandidate || s == StateFlagged || s == StateRuleFail
}

// AggregateStatus derives the lease-level status from its fields. Derived,
// never set directly: verified requires a non-empty field set with every
// field verified.
func AggregateStatus(fields []Field) LeaseStatus {
	if len(fields) == 0 {
		return LeaseUnverified
	}
	allVerified := true
	anyPending := false
	for _, f := range fields {
		if !f.State.IsVerified() {
			allVerified = false
		}
		if f.State.IsPending() {
			anyPending = true
		}
	}
	switch {
	case allVerified:
		return LeaseVerified
	case anyPending:
		return LeaseInReview
	default:
		return LeaseUnverified
	}
}

// MeanConfidence is the arithmetic mean of field confidences rounded to the
// nearest integer, zero for an empty field set.
func MeanConfidence(fields []Field) int {
	if len(fields) == 0 {
		return 0
	}
	total := 0
	for _, f := range fields {
		total += f.Confidence
	}
	return (total + len(fields)/2) / len(fields)
}
