package rentroll

import (
	"sort"
	"time"

	"github.com/stayll/leasecore/internal/leaseschema"
)

// ExposureHorizonYears is the fixed forward window for concentration
// analysis.
const ExposureHorizonYears = 10

// YearExposure is the committed rent falling in one future calendar year.
type YearExposure struct {
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
}

// PropertyExposure is one property's total committed rent over the horizon.
type PropertyExposure struct {
	Property string  `json:"property"`
	Amount   float64 `json:"amount"`
}

// Exposure is the portfolio's future rent obligation bucketed by calendar
// year and by property. Slices are sorted for deterministic export.
type Exposure struct {
	AsOf           time.Time          `json:"as_of"`
	TotalCommitted float64            `json:"total_committed"`
	ByYear         []YearExposure     `json:"by_year"`
	ByProperty     []PropertyExposure `json:"by_property"`
}

// ComputeExposure buckets each lease's remaining contractual rent (annual
// rent times remaining term) across the ten-year horizon. Leases without an
// expiration date contribute nothing: open-ended exposure is unknowable,
// not infinite.
func ComputeExposure(leases []leaseschema.Lease, now time.Time) Exposure {
	exp := Exposure{AsOf: now}
	byYear := map[int]float64{}
	byProperty := map[string]float64{}

	horizonEnd := now.AddDate(ExposureHorizonYears, 0, 0)
	for _, lease := range leases {
		if lease.Expiration == nil || !lease.Expiration.After(now) {
			continue
		}
		annual := lease.BaseRentMonthly * 12
		if annual <= 0 {
			continue
		}

		end := minDate(*lease.Expiration, horizonEnd)
		committed := 0.0
		for year := now.Year(); year <= end.Year(); year++ {
			frac := yearFraction(now, end, year)
			if frac <= 0 {
				continue
			}
			amount := round2(annual * frac)
			byYear[year] = round2(byYear[year] + amount)
			committed = round2(committed + amount)
		}

		property := lease.PropertyName
		if property == "" {
			property = "unassigned"
		}
		byProperty[property] = round2(byProperty[property] + committed)
		exp.TotalCommitted = round2(exp.TotalCommitted + committed)
	}

	for year, amount := range byYear {
		exp.ByYear = append(exp.ByYear, YearExposure{Year: year, Amount: amount})
	}
	sort.Slice(exp.ByYear, func(i, j int) bool { return exp.ByYear[i].Year < exp.ByYear[j].Year })

	for property, amount := range byProperty {
		exp.ByProperty = append(exp.ByProperty, PropertyExposure{Property: property, Amount: amount})
	}
	sort.Slice(exp.ByProperty, func(i, j int) bool { return exp.ByProperty[i].Property < exp.ByProperty[j].Property })

	return exp
}

// yearFraction is the fraction of one calendar year covered by [from, to].
func yearFraction(from, to time.Time, year int) float64 {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	start := maxDate(from, yearStart)
	end := minDate(to, yearEnd)
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours() / yearEnd.Sub(yearStart).Hours()
}
