package leasefield

import "math"

// Scoring weights. They sum to at most 100:
// pattern quality 30 + agreement bonus 20 + completeness 25 + format 15 +
// context 10.
const (
	weightPatternQuality = 30
	weightAgreementBonus = 20
	weightCompleteness   = 25
	weightFormat         = 15
	weightContext        = 10

	shortValueChars = 3
	longValueChars  = 200
)

// ScoreInput is the extraction telemetry the scorer consumes. It is a pure
// value; Score is deterministic over it.
type ScoreInput struct {
	Found           bool
	Value           string
	PatternsMatched int
	PatternsTotal   int
	Agreement       bool
	FormatValid     bool
	KeywordsFound   int
	KeywordsTotal   int
}

// Score converts extraction telemetry into a 0–100 confidence and an ordered
// reason-code list. Codes are appended in factor-evaluation order and the
// list always ends with exactly one confidence band.
func Score(in ScoreInput) (int, []ReasonCode) {
	if !in.Found {
		return 0, []ReasonCode{ReasonFieldNotFound, ReasonLowConfidence}
	}

	var codes []ReasonCode
	score := 0

	// Pattern-match quality, proportional to hits over candidates.
	if in.PatternsTotal > 0 {
		ratio := float64(in.PatternsMatched) / float64(in.PatternsTotal)
		score += int(math.Round(weightPatternQuality * ratio))
		if ratio < 0.5 {
			codes = append(codes, ReasonLowPatternMatch)
		}
	}
	if in.Agreement {
		score += weightAgreementBonus
		codes = append(codes, ReasonMultiplePatternsAgree)
	}

	// Completeness: very short and very long captures are both suspicious.
	switch n := len(in.Value); {
	case n == 0:
		// Unreachable for Found values in practice; scored as empty.
	case n < shortValueChars:
		score += 10
		codes = append(codes, ReasonValueTooShort)
	case n > longValueChars:
		score += 15
		codes = append(codes, ReasonValueTooLong)
	default:
		score += weightCompleteness
	}

	if in.FormatValid {
		score += weightFormat
		codes = append(codes, ReasonFormatValid)
	} else {
		codes = append(codes, ReasonFormatInvalid)
	}

	// Context keywords, proportional to the fraction found in the window.
	if in.KeywordsTotal > 0 {
		frac := float64(in.KeywordsFound) / float64(in.KeywordsTotal)
		score += int(math.Round(weightContext * frac))
		if in.KeywordsFound > 0 {
			codes = append(codes, ReasonContextKeywordsFound)
		} else {
			codes = append(codes, ReasonContextKeywordsMissing)
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	codes = append(codes, bandFor(score))
	return score, codes
}
