// Package rentroll allocates lease rent schedules into calendar-year
// aggregates: per-lease rent roll entries, portfolio totals, and forward
// exposure buckets.
package rentroll

import (
	"math"
	"time"

	"github.com/stayll/leasecore/internal/leaseschema"
)

// daysPerMonth converts a partial-month day count into fractional months.
const daysPerMonth = 30.44

// Entry is one lease's rent roll for one target year.
//
// ScheduleBased=false marks the base_rent×12 fallback used when the lease
// has no rent schedule: a whole-year approximation with no proration, not
// to be conflated with schedule precision. AddOnsApproximate marks CAM,
// taxes, and insurance, which are modeled as flat monthly add-ons times 12
// and not prorated against the lease term within the year.
type Entry struct {
	LeaseID      string `json:"lease_id"`
	PropertyName string `json:"property_name"`
	TenantName   string `json:"tenant_name"`
	Year         int    `json:"year"`

	AnnualRent  float64 `json:"annual_rent"`
	MonthlyRent float64 `json:"monthly_rent"`
	CAM         float64 `json:"cam"`
	Taxes       float64 `json:"taxes"`
	Insurance   float64 `json:"insurance"`

	TotalAnnual  float64 `json:"total_annual"`
	TotalMonthly float64 `json:"total_monthly"`

	ScheduleBased     bool `json:"schedule_based"`
	AddOnsApproximate bool `json:"add_ons_approximate"`
}

// ForYear computes one lease's rent roll entry for a target year by
// overlapping its rent schedule against the year's [Jan 1, Dec 31] window.
func ForYear(lease leaseschema.Lease, year int) (Entry, error) {
	if err := lease.Validate(); err != nil {
		return Entry{}, err
	}

	entry := Entry{
		LeaseID:      lease.ID,
		PropertyName: lease.PropertyName,
		TenantName:   lease.TenantName,
		Year:         year,
	}

	if len(lease.RentSchedule) == 0 {
		entry.AnnualRent = round2(lease.BaseRentMonthly * 12)
		entry.ScheduleBased = false
	} else {
		entry.ScheduleBased = true
		total := 0.0
		for _, sched := range lease.RentSchedule {
			total += allocate(sched, year)
		}
		entry.AnnualRent = round2(total)
	}

	entry.MonthlyRent = round2(entry.AnnualRent / 12)
	entry.CAM = round2(lease.CAMMonthly * 12)
	entry.Taxes = round2(lease.TaxesMonthly * 12)
	entry.Insurance = round2(lease.InsuranceMonthly * 12)
	entry.AddOnsApproximate = entry.CAM != 0 || entry.Taxes != 0 || entry.Insurance != 0

	entry.TotalAnnual = round2(entry.AnnualRent + entry.CAM + entry.Taxes + entry.Insurance)
	entry.TotalMonthly = round2(entry.TotalAnnual / 12)
	return entry, nil
}

// allocate prorates one schedule entry into the target year and annualizes
// by the entry's own frequency: monthly amounts scale by overlap months,
// quarterly by overlap months over 3, annual by overlap months over 12.
func allocate(sched leaseschema.RentScheduleEntry, year int) float64 {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	start := maxDate(sched.Start, yearStart)
	end := minDate(sched.End, yearEnd)
	if end.Before(start) {
		return 0
	}

	months := overlapMonths(start, end)
	switch sched.Frequency {
	case leaseschema.FreqMonthly:
		return sched.Amount * months
	case leaseschema.FreqQuarterly:
		return sched.Amount * months / 3
	case leaseschema.FreqAnnual:
		return sched.Amount * months / 12
	default:
		// one_time pays out in the period containing its start date.
		if sched.Start.Year() == year {
			return sched.Amount
		}
		return 0
	}
}

// overlapMonths measures an inclusive date range in months. A range that
// starts on the first of a month and ends on the last of a month counts
// whole calendar months exactly, so month-aligned schedules allocate with
// no boundary error; anything else falls back to days/30.44.
func overlapMonths(start, end time.Time) float64 {
	if start.Day() == 1 && end.Day() == lastDayOfMonth(end) {
		return float64((end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1)
	}
	days := end.Sub(start).Hours()/24 + 1
	return days / daysPerMonth
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// LeaseError scopes a batch failure to the single lease that caused it.
type LeaseError struct {
	LeaseID string `json:"lease_id"`
	Err     string `json:"error"`
}

// PortfolioResult is the rent roll for a set of leases in one target year.
// A lease that fails validation lands in Errors; it never aborts the batch.
type PortfolioResult struct {
	Year            int          `json:"year"`
	Entries         []Entry      `json:"entries"`
	TotalAnnualRent float64      `json:"total_annual_rent"`
	TotalAnnual     float64      `json:"total_annual"`
	Errors          []LeaseError `json:"errors,omitempty"`
}

// Portfolio computes the rent roll for every lease in the set.
func Portfolio(leases []leaseschema.Lease, year int) PortfolioResult {
	result := PortfolioResult{Year: year}
	for _, lease := range leases {
		entry, err := ForYear(lease, year)
		if err != nil {
			result.Errors = append(result.Errors, LeaseError{LeaseID: lease.ID, Err: err.Error()})
			continue
		}
		result.Entries = append(result.Entries, entry)
		result.TotalAnnualRent = round2(result.TotalAnnualRent + entry.AnnualRent)
		result.TotalAnnual = round2(result.TotalAnnual + entry.TotalAnnual)
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CurrentYear is the default target year for rent roll generation.
func CurrentYear(now time.Time) int {
	return now.Year()
}
