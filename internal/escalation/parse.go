package escalation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/stayll/leasecore/internal/leaseschema"
)

// Clause patterns, tried in priority order: percent, fixed amount, CPI,
// step schedule. First match wins. Authoring order matters: a clause like
// "3% or CPI, whichever is greater" resolves to percent.
var (
	percentRe   = regexp.MustCompile(`(?i)\b(\d{1,2}(?:\.\d+)?)\s*(?:%|percent\b)`)
	fixedRe     = regexp.MustCompile(`(?i)(?:increase(?:s|d)?\s+(?:of|by)\s+\$\s*([\d,]+(?:\.\d{1,2})?)|\$\s*([\d,]+(?:\.\d{1,2})?)\s+(?:annual\s+|monthly\s+|quarterly\s+|fixed\s+)?increase)`)
	cpiRe       = regexp.MustCompile(`(?i)\bCPI\b|consumer\s+price\s+index`)
	stepRe      = regexp.MustCompile(`(?i)year\s*(\d{1,2})\s*[:\-]?\s*\$\s*([\d,]+(?:\.\d{1,2})?)`)
	effectiveRe = regexp.MustCompile(`(?i)(?:effective|beginning|commencing)\s+(?:on\s+)?([A-Za-z]+\s+\d{1,2},\s*\d{4})`)
)

// ParseClause turns free escalation text into a structured Rule. Unparseable
// text fails closed to a none rule: callers apply no escalation and flag the
// lease for human review rather than guessing a rate.
func ParseClause(text string) Rule {
	text = strings.TrimSpace(text)
	if text == "" {
		return None()
	}

	freq := detectFrequency(text)
	effective := detectEffectiveDate(text)

	if m := percentRe.FindStringSubmatch(text); m != nil {
		rate, err := strconv.ParseFloat(m[1], 64)
		if err == nil && rate > 0 && rate < 100 {
			return Rule{Type: RulePercent, Rate: rate / 100, Frequency: freq, EffectiveDate: effective}
		}
	}

	if m := fixedRe.FindStringSubmatch(text); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		amount, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err == nil && amount > 0 {
			return Rule{Type: RuleFixedAmount, Amount: amount, Frequency: freq, EffectiveDate: effective}
		}
	}

	if cpiRe.MatchString(text) {
		return Rule{Type: RuleCPILinked, Frequency: freq, EffectiveDate: effective}
	}

	if steps := parseSteps(text); len(steps) >= 2 {
		return Rule{Type: RuleStepSchedule, Steps: steps, Frequency: leaseschema.FreqAnnual, EffectiveDate: effective}
	}

	return None()
}

func parseSteps(text string) []Step {
	matches := stepRe.FindAllStringSubmatch(text, -1)
	steps := make([]Step, 0, len(matches))
	for _, m := range matches {
		year, err := strconv.Atoi(m[1])
		if err != nil || year < 1 {
			continue
		}
		rent, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
		if err != nil || rent < 0 {
			continue
		}
		steps = append(steps, Step{Year: year, AnnualRent: rent})
	}
	return steps
}

func detectFrequency(text string) leaseschema.Frequency {
	lower := strings.ToLower(text)
	switch {
	// Annual wording wins: "Monthly Rent shall increase 3% annually" is an
	// annual escalation, not a monthly one.
	case strings.Contains(lower, "annual"), strings.Contains(lower, "per year"),
		strings.Contains(lower, "each year"), strings.Contains(lower, "yearly"),
		strings.Contains(lower, "per annum"):
		return leaseschema.FreqAnnual
	case strings.Contains(lower, "month"):
		return leaseschema.FreqMonthly
	case strings.Contains(lower, "quarter"):
		return leaseschema.FreqQuarterly
	case strings.Contains(lower, "one-time"), strings.Contains(lower, "one time"):
		return leaseschema.FreqOneTime
	default:
		return leaseschema.FreqAnnual
	}
}

func detectEffectiveDate(text string) *time.Time {
	m := effectiveRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	normalized := regexp.MustCompile(`\s+`).ReplaceAllString(m[1], " ")
	t, err := time.Parse("January 2, 2006", normalized)
	if err != nil {
		return nil
	}
	return &t
}
