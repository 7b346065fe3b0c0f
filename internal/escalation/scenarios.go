package escalation

import "fmt"

// Scenario is one named escalation alternative for comparison.
type Scenario struct {
	Name    string  `json:"name"`
	Rule    Rule    `json:"rule"`
	CPIRate float64 `json:"cpi_rate,omitempty"`
	// HorizonYears, when set, must equal the comparison horizon. Differing
	// horizons are a caller error, never silently truncated or padded.
	HorizonYears int `json:"horizon_years,omitempty"`
}

// ScenarioProjection is one scenario's projection aligned by year index with
// its peers. EffectiveRate is nil when undefined (single-year horizon).
type ScenarioProjection struct {
	Name          string           `json:"name"`
	Years         []ProjectionYear `json:"years"`
	TotalRent     float64          `json:"total_rent"`
	NPV           float64          `json:"npv"`
	EffectiveRate *float64         `json:"effective_rate"`
}

// Compare projects every scenario over the same horizon from the same
// starting rent, so callers can diff rows directly by year index.
func Compare(startingAnnualRent float64, startYear, horizonYears int, discountRate float64, scenarios []Scenario) ([]ScenarioProjection, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("%w: no scenarios to compare", ErrInvalidInput)
	}
	seen := map[string]bool{}
	out := make([]ScenarioProjection, 0, len(scenarios))
	for _, sc := range scenarios {
		if sc.Name == "" {
			return nil, fmt.Errorf("%w: scenario name is required", ErrInvalidInput)
		}
		if seen[sc.Name] {
			return nil, fmt.Errorf("%w: duplicate scenario name %q", ErrInvalidInput, sc.Name)
		}
		seen[sc.Name] = true
		if sc.HorizonYears != 0 && sc.HorizonYears != horizonYears {
			return nil, fmt.Errorf("%w: scenario %q horizon %d does not match comparison horizon %d",
				ErrInvalidInput, sc.Name, sc.HorizonYears, horizonYears)
		}

		years, err := Project(ProjectionInput{
			Rule:               sc.Rule,
			StartingAnnualRent: startingAnnualRent,
			StartYear:          startYear,
			HorizonYears:       horizonYears,
			CPIRate:            sc.CPIRate,
		})
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}

		proj := ScenarioProjection{
			Name:  sc.Name,
			Years: years,
			NPV:   NPV(years, discountRate),
		}
		if len(years) > 0 {
			proj.TotalRent = years[len(years)-1].CumulativeRent
		}
		if rate, ok := EffectiveRate(years); ok {
			proj.EffectiveRate = &rate
		}
		out = append(out, proj)
	}
	return out, nil
}
