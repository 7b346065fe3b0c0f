package leaseschema

import (
	"strconv"
	"time"
)

// FromNormalized assembles a schema from normalized field values keyed by
// catalog field name. Unparseable or absent values leave their slot at the
// zero value rather than failing: the schema mirrors what verification
// produced, and downstream generators handle the gaps.
func FromNormalized(leaseID string, values map[string]string) Lease {
	l := Lease{
		ID:           leaseID,
		PropertyName: values["property_address"],
		TenantName:   values["tenant_name"],

		BaseRentMonthly:  parseAmount(values["base_rent"]),
		CAMMonthly:       parseAmount(values["cam_charges"]),
		TaxesMonthly:     parseAmount(values["taxes"]),
		InsuranceMonthly: parseAmount(values["insurance"]),
	}

	if t, ok := parseDate(values["lease_start"]); ok {
		l.Commencement = t
	}
	if t, ok := parseDate(values["lease_end"]); ok {
		l.Expiration = &t
	}

	if clause := values["escalation_clause"]; clause != "" {
		l.Escalations = append(l.Escalations, EscalationTerm{
			ClauseText: clause,
			Frequency:  FreqAnnual,
		})
	}

	if values["renewal_option"] != "" {
		opt := RenewalOption{}
		if n, err := strconv.Atoi(values["notice_period_days"]); err == nil {
			opt.NoticeDays = n
		}
		if n, err := strconv.Atoi(values["lease_term_months"]); err == nil {
			opt.TermMonths = n
		}
		l.RenewalOptions = append(l.RenewalOptions, opt)
	}

	return l
}

func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
