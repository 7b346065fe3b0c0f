package escalation

import (
	"fmt"
	"math"
	"sort"

	"github.com/stayll/leasecore/internal/leaseschema"
)

// DefaultDiscountRate is the discount rate used when a caller supplies none.
const DefaultDiscountRate = 0.05

// ProjectionYear is one row of a rent projection. YearIndex 0 is the
// starting year at the unescalated rent.
type ProjectionYear struct {
	YearIndex             int     `json:"year_index"`
	CalendarYear          int     `json:"calendar_year"`
	AnnualRent            float64 `json:"annual_rent"`
	EscalationRateApplied float64 `json:"escalation_rate_applied"`
	EscalationAmount      float64 `json:"escalation_amount"`
	CumulativeRent        float64 `json:"cumulative_rent"`
}

// ProjectionInput drives one projection run. CPIRate is the externally
// supplied annual-equivalent per-period rate for cpi_linked rules; the
// engine never fetches economic data itself.
type ProjectionInput struct {
	Rule               Rule
	StartingAnnualRent float64
	StartYear          int
	HorizonYears       int
	CPIRate            float64
}

// Project expands a rule into one row per year over the horizon.
//
// Rounding policy: each year's annual rent is rounded to cents before the
// next year compounds on it. The projection is therefore reproducible from
// its own output: year i+1 derives from the printed year i, not from an
// unrounded intermediate.
//
// Sub-annual frequencies compound within the year: a monthly percent rule
// applies its per-period rate twelve times before the annual figure is
// reported. A one_time rule applies exactly once, in the first escalated
// year.
func Project(in ProjectionInput) ([]ProjectionYear, error) {
	if in.HorizonYears < 1 {
		return nil, fmt.Errorf("%w: horizon must be at least 1 year, got %d", ErrInvalidInput, in.HorizonYears)
	}
	if in.StartingAnnualRent < 0 {
		return nil, fmt.Errorf("%w: starting rent must not be negative, got %f", ErrInvalidInput, in.StartingAnnualRent)
	}

	years := make([]ProjectionYear, 0, in.HorizonYears)
	rent := round2(startingRent(in))
	cumulative := 0.0

	for i := 0; i < in.HorizonYears; i++ {
		if i > 0 {
			rent = round2(escalate(in, rent, i))
		}
		prev := 0.0
		if i > 0 {
			prev = years[i-1].AnnualRent
		}
		row := ProjectionYear{
			YearIndex:    i,
			CalendarYear: in.StartYear + i,
			AnnualRent:   rent,
		}
		if i > 0 {
			row.EscalationAmount = round2(rent - prev)
			if prev > 0 {
				row.EscalationRateApplied = rent/prev - 1
			}
		}
		cumulative = round2(cumulative + rent)
		row.CumulativeRent = cumulative
		years = append(years, row)
	}
	return years, nil
}

// startingRent is the year-0 rent. Step schedules override the caller's
// starting rent when they define year 1.
func startingRent(in ProjectionInput) float64 {
	if in.Rule.Type == RuleStepSchedule {
		if rent, ok := stepRent(in.Rule.Steps, 1); ok {
			return rent
		}
	}
	return in.StartingAnnualRent
}

// escalate computes year i's rent from the previous year's rounded rent.
func escalate(in ProjectionInput, prev float64, yearIndex int) float64 {
	rule := in.Rule
	switch rule.Type {
	case RulePercent:
		return compound(prev, rule.Rate, rule.Frequency, yearIndex)
	case RuleCPILinked:
		return compound(prev, in.CPIRate, rule.Frequency, yearIndex)
	case RuleFixedAmount:
		if rule.Frequency == leaseschema.FreqOneTime && yearIndex > 1 {
			return prev
		}
		return prev + rule.Amount*float64(rule.Frequency.PeriodsPerYear())
	case RuleStepSchedule:
		if rent, ok := stepRent(rule.Steps, yearIndex+1); ok {
			return rent
		}
		return prev
	default:
		// none: flat. Unparsed clauses never invent a rate.
		return prev
	}
}

func compound(prev, rate float64, freq leaseschema.Frequency, yearIndex int) float64 {
	if rate == 0 {
		return prev
	}
	if freq == leaseschema.FreqOneTime {
		if yearIndex > 1 {
			return prev
		}
		return prev * (1 + rate)
	}
	return prev * math.Pow(1+rate, float64(freq.PeriodsPerYear()))
}

// stepRent looks up the rent for a 1-based lease year, holding the last
// defined step constant beyond the schedule's range.
func stepRent(steps []Step, leaseYear int) (float64, bool) {
	if len(steps) == 0 {
		return 0, false
	}
	sorted := make([]Step, len(steps))
	copy(sorted, steps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	if leaseYear < sorted[0].Year {
		return 0, false
	}
	rent := sorted[0].AnnualRent
	for _, s := range sorted {
		if s.Year > leaseYear {
			break
		}
		rent = s.AnnualRent
	}
	return rent, true
}

// NPV discounts the projected annual rents at the given rate, year 0
// undiscounted.
func NPV(years []ProjectionYear, discountRate float64) float64 {
	npv := 0.0
	for _, y := range years {
		npv += y.AnnualRent / math.Pow(1+discountRate, float64(y.YearIndex))
	}
	return npv
}

// EffectiveRate is the constant annual rate transforming the first year's
// rent into the last year's over the horizon. The second return is false
// when the rate is undefined: a single-year horizon or a non-positive
// first-year rent.
func EffectiveRate(years []ProjectionYear) (float64, bool) {
	if len(years) < 2 {
		return 0, false
	}
	first := years[0].AnnualRent
	last := years[len(years)-1].AnnualRent
	if first <= 0 || last < 0 {
		return 0, false
	}
	n := float64(len(years) - 1)
	return math.Pow(last/first, 1/n) - 1, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
