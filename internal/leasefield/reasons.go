package leasefield

// ReasonCode is a closed-vocabulary audit tag attached to a confidence score.
// Codes are appended in the order the scoring factors are evaluated, and every
// score ends with exactly one confidence-band code. The ordering is part of
// the audit trail: identical inputs must produce identical code sequences.
type ReasonCode string

const (
	ReasonFieldNotFound          ReasonCode = "FIELD_NOT_FOUND"
	ReasonLowPatternMatch        ReasonCode = "LOW_PATTERN_MATCH"
	ReasonMultiplePatternsAgree  ReasonCode = "MULTIPLE_PATTERNS_AGREE"
	ReasonValueTooShort          ReasonCode = "VALUE_TOO_SHORT"
	ReasonValueTooLong           ReasonCode = "VALUE_TOO_LONG"
	ReasonFormatValid            ReasonCode = "FORMAT_VALID"
	ReasonFormatInvalid          ReasonCode = "FORMAT_INVALID"
	ReasonContextKeywordsFound   ReasonCode = "CONTEXT_KEYWORDS_FOUND"
	ReasonContextKeywordsMissing ReasonCode = "CONTEXT_KEYWORDS_MISSING"
	ReasonHighConfidence         ReasonCode = "HIGH_CONFIDENCE"
	ReasonMediumConfidence       ReasonCode = "MEDIUM_CONFIDENCE"
	ReasonLowConfidence          ReasonCode = "LOW_CONFIDENCE"
)

func bandFor(score int) ReasonCode {
	switch {
	case score >= 90:
		return ReasonHighConfidence
	case score >= 70:
		return ReasonMediumConfidence
	default:
		return ReasonLowConfidence
	}
}
