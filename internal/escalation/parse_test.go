package escalation

import (
	"testing"
	"time"

	"github.com/stayll/leasecore/internal/leaseschema"
)

func TestParseClausePercent(t *testing.T) {
	cases := []struct {
		clause   string
		wantRate float64
		wantFreq leaseschema.Frequency
	}{
		{"Base Rent shall increase by 3% annually.", 0.03, leaseschema.FreqAnnual},
		{"Rent increases 2.5% per year on each anniversary.", 0.025, leaseschema.FreqAnnual},
		{"A 1% increase shall apply monthly.", 0.01, leaseschema.FreqMonthly},
		{"Rent escalates 1.5 percent quarterly.", 0.015, leaseschema.FreqQuarterly},
		{"Monthly Rent shall increase 3% annually.", 0.03, leaseschema.FreqAnnual},
	}
	for _, tc := range cases {
		rule := ParseClause(tc.clause)
		if rule.Type != RulePercent {
			t.Fatalf("%q: type = %s, want percent", tc.clause, rule.Type)
		}
		if rule.Rate != tc.wantRate {
			t.Fatalf("%q: rate = %f, want %f", tc.clause, rule.Rate, tc.wantRate)
		}
		if rule.Frequency != tc.wantFreq {
			t.Fatalf("%q: frequency = %s, want %s", tc.clause, rule.Frequency, tc.wantFreq)
		}
	}
}

func TestParseClauseFixedAmount(t *testing.T) {
	rule := ParseClause("Rent shall increase by $500 per month.")
	if rule.Type != RuleFixedAmount {
		t.Fatalf("type = %s, want fixed_amount", rule.Type)
	}
	if rule.Amount != 500 {
		t.Fatalf("amount = %f, want 500", rule.Amount)
	}
	if rule.Frequency != leaseschema.FreqMonthly {
		t.Fatalf("frequency = %s, want monthly", rule.Frequency)
	}

	rule = ParseClause("A fixed $1,200 annual increase applies.")
	if rule.Type != RuleFixedAmount {
		t.Fatalf("type = %s, want fixed_amount", rule.Type)
	}
	if rule.Amount != 1200 {
		t.Fatalf("amount = %f, want 1200", rule.Amount)
	}
	if rule.Frequency != leaseschema.FreqAnnual {
		t.Fatalf("frequency = %s, want annual", rule.Frequency)
	}
}

func TestParseClauseCPI(t *testing.T) {
	for _, clause := range []string{
		"Rent adjusted annually per the Consumer Price Index.",
		"Annual adjustment tied to CPI.",
	} {
		rule := ParseClause(clause)
		if rule.Type != RuleCPILinked {
			t.Fatalf("%q: type = %s, want cpi_linked", clause, rule.Type)
		}
		if rule.Rate != 0 {
			t.Fatalf("%q: cpi rule must carry no rate of its own, got %f", clause, rule.Rate)
		}
	}
}

func TestParseClauseStepSchedule(t *testing.T) {
	rule := ParseClause("Year 1: $100,000; Year 2: $105,000; Year 3: $110,250")
	if rule.Type != RuleStepSchedule {
		t.Fatalf("type = %s, want step_schedule", rule.Type)
	}
	if len(rule.Steps) != 3 {
		t.Fatalf("steps = %d, want 3", len(rule.Steps))
	}
	if rule.Steps[0] != (Step{Year: 1, AnnualRent: 100000}) {
		t.Fatalf("step 0 = %+v", rule.Steps[0])
	}
	if rule.Steps[2] != (Step{Year: 3, AnnualRent: 110250}) {
		t.Fatalf("step 2 = %+v", rule.Steps[2])
	}
}

func TestParseClausePriorityOrder(t *testing.T) {
	// Percent outranks CPI when both appear.
	rule := ParseClause("Rent increases 3% annually or CPI, whichever is greater.")
	if rule.Type != RulePercent {
		t.Fatalf("type = %s, want percent to win over cpi", rule.Type)
	}
}

func TestParseClauseFailsClosed(t *testing.T) {
	for _, clause := range []string{
		"",
		"Rent is subject to periodic market review.",
		"As mutually agreed by the parties.",
	} {
		rule := ParseClause(clause)
		if rule.Type != RuleNone {
			t.Fatalf("%q: type = %s, want none", clause, rule.Type)
		}
	}
}

func TestParseClauseEffectiveDate(t *testing.T) {
	rule := ParseClause("5% increase effective January 1, 2026.")
	if rule.Type != RulePercent {
		t.Fatalf("type = %s, want percent", rule.Type)
	}
	if rule.EffectiveDate == nil {
		t.Fatal("effective date not parsed")
	}
	want := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !rule.EffectiveDate.Equal(want) {
		t.Fatalf("effective date = %s, want %s", rule.EffectiveDate, want)
	}
}
