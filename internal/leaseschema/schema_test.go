package leaseschema

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFrequencyPeriodsPerYear(t *testing.T) {
	cases := []struct {
		freq Frequency
		want int
	}{
		{FreqMonthly, 12},
		{FreqQuarterly, 4},
		{FreqAnnual, 1},
		{FreqOneTime, 1},
	}
	for _, tc := range cases {
		if got := tc.freq.PeriodsPerYear(); got != tc.want {
			t.Fatalf("%s periods per year = %d, want %d", tc.freq, got, tc.want)
		}
	}
}

func TestValidate(t *testing.T) {
	exp := date(2030, time.December, 31)
	good := Lease{
		ID:              "lease-1",
		Commencement:    date(2025, time.January, 1),
		Expiration:      &exp,
		BaseRentMonthly: 2500,
		RentSchedule: []RentScheduleEntry{
			{Start: date(2025, time.January, 1), End: date(2026, time.December, 31), Amount: 2500, Frequency: FreqMonthly},
		},
		Escalations: []EscalationTerm{{ClauseText: "3% annually", Frequency: FreqAnnual}},
		Obligations: []Obligation{{Kind: ObligationNotice, Date: date(2030, time.June, 1), Description: "insurance certificate renewal"}},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bad := good
	early := date(2024, time.January, 1)
	bad.Expiration = &early
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for expiration before commencement")
	}

	bad = good
	bad.RentSchedule = []RentScheduleEntry{
		{Start: date(2025, time.June, 1), End: date(2025, time.January, 1), Amount: 2500, Frequency: FreqMonthly},
	}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for inverted schedule entry")
	}

	bad = good
	bad.Obligations = []Obligation{{Kind: "unknown_kind", Date: date(2026, time.January, 1)}}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for unknown obligation kind")
	}
}

func TestRemainingTermYears(t *testing.T) {
	exp := date(2027, time.January, 1)
	l := Lease{ID: "lease-2", Expiration: &exp}

	got := l.RemainingTermYears(date(2025, time.January, 1))
	if got < 1.99 || got > 2.01 {
		t.Fatalf("RemainingTermYears = %f, want ~2", got)
	}
	if got := l.RemainingTermYears(date(2028, time.January, 1)); got != 0 {
		t.Fatalf("expired lease remaining = %f, want 0", got)
	}
	if got := (&Lease{ID: "x"}).RemainingTermYears(date(2025, time.January, 1)); got != 0 {
		t.Fatalf("no expiration remaining = %f, want 0", got)
	}
}

func TestFromNormalized(t *testing.T) {
	l := FromNormalized("lease-3", map[string]string{
		"base_rent":          "2500.00",
		"cam_charges":        "350.00",
		"taxes":              "300.00",
		"insurance":          "150.00",
		"lease_start":        "2025-01-01",
		"lease_end":          "2029-12-31",
		"tenant_name":        "Acme Corp",
		"property_address":   "100 Main St, Springfield",
		"escalation_clause":  "3% annual increase",
		"renewal_option":     "one 5-year option",
		"notice_period_days": "90",
		"lease_term_months":  "60",
	})

	if l.BaseRentMonthly != 2500 {
		t.Fatalf("base rent = %f, want 2500", l.BaseRentMonthly)
	}
	if l.CAMMonthly != 350 {
		t.Fatalf("cam = %f, want 350", l.CAMMonthly)
	}
	if l.TaxesMonthly != 300 {
		t.Fatalf("taxes = %f, want 300", l.TaxesMonthly)
	}
	if l.InsuranceMonthly != 150 {
		t.Fatalf("insurance = %f, want 150", l.InsuranceMonthly)
	}
	if !l.Commencement.Equal(date(2025, time.January, 1)) {
		t.Fatalf("commencement = %s", l.Commencement)
	}
	if l.Expiration == nil || !l.Expiration.Equal(date(2029, time.December, 31)) {
		t.Fatalf("expiration = %v", l.Expiration)
	}
	if len(l.Escalations) != 1 || l.Escalations[0].ClauseText != "3% annual increase" {
		t.Fatalf("escalations = %+v", l.Escalations)
	}
	if len(l.RenewalOptions) != 1 || l.RenewalOptions[0].NoticeDays != 90 || l.RenewalOptions[0].TermMonths != 60 {
		t.Fatalf("renewal options = %+v", l.RenewalOptions)
	}
	if err := l.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	// Garbage values degrade to zero values, never error.
	l = FromNormalized("lease-4", map[string]string{
		"base_rent":   "not-a-number",
		"lease_start": "01/2025",
	})
	if l.BaseRentMonthly != 0 || !l.Commencement.IsZero() {
		t.Fatalf("garbage input should zero out, got rent=%f commencement=%s", l.BaseRentMonthly, l.Commencement)
	}
}
