package leasefield

import (
	"reflect"
	"testing"
)

func TestScoreNotFound(t *testing.T) {
	score, codes := Score(ScoreInput{Found: false})
	if score != 0 {
		t.Fatalf("absent field must score 0, got %d", score)
	}
	want := []ReasonCode{ReasonFieldNotFound, ReasonLowConfidence}
	if !reflect.DeepEqual(codes, want) {
		t.Fatalf("unexpected codes: %v", codes)
	}
}

func TestScoreStrongMatch(t *testing.T) {
	// Two of four patterns agree on a valid currency value with all
	// keywords present: 15 + 20 + 25 + 15 + 10 = 85.
	score, codes := Score(ScoreInput{
		Found:           true,
		Value:           "2,500",
		PatternsMatched: 2,
		PatternsTotal:   4,
		Agreement:       true,
		FormatValid:     true,
		KeywordsFound:   2,
		KeywordsTotal:   2,
	})
	if score != 85 {
		t.Fatalf("got %d want 85", score)
	}
	want := []ReasonCode{ReasonMultiplePatternsAgree, ReasonFormatValid, ReasonContextKeywordsFound, ReasonMediumConfidence}
	if !reflect.DeepEqual(codes, want) {
		t.Fatalf("unexpected codes: %v", codes)
	}
}

func TestScorePerfect(t *testing.T) {
	score, codes := Score(ScoreInput{
		Found:           true,
		Value:           "1,250.00",
		PatternsMatched: 4,
		PatternsTotal:   4,
		Agreement:       true,
		FormatValid:     true,
		KeywordsFound:   2,
		KeywordsTotal:   2,
	})
	if score != 100 {
		t.Fatalf("got %d want 100", score)
	}
	if codes[len(codes)-1] != ReasonHighConfidence {
		t.Fatalf("expected HIGH_CONFIDENCE terminal code, got %v", codes)
	}
}

func TestScoreSuspiciousLengths(t *testing.T) {
	short, codes := Score(ScoreInput{Found: true, Value: "ab", PatternsMatched: 1, PatternsTotal: 1, FormatValid: true})
	if !containsCode(codes, ReasonValueTooShort) {
		t.Fatalf("expected VALUE_TOO_SHORT, got %v", codes)
	}
	long := make([]byte, 250)
	for i := range long {
		long[i] = 'a'
	}
	longScore, longCodes := Score(ScoreInput{Found: true, Value: string(long), PatternsMatched: 1, PatternsTotal: 1, FormatValid: true})
	if !containsCode(longCodes, ReasonValueTooLong) {
		t.Fatalf("expected VALUE_TOO_LONG, got %v", longCodes)
	}
	normal, _ := Score(ScoreInput{Found: true, Value: "normal value", PatternsMatched: 1, PatternsTotal: 1, FormatValid: true})
	if short >= normal || longScore >= normal {
		t.Fatalf("suspicious lengths must score below normal band: short=%d long=%d normal=%d", short, longScore, normal)
	}
}

func TestScoreBounds(t *testing.T) {
	inputs := []ScoreInput{
		{},
		{Found: true, Value: "x", PatternsMatched: 0, PatternsTotal: 0},
		{Found: true, Value: "v", PatternsMatched: 3, PatternsTotal: 3, Agreement: true, FormatValid: true, KeywordsFound: 5, KeywordsTotal: 5},
		{Found: true, Value: "v", PatternsMatched: 1, PatternsTotal: 10, KeywordsTotal: 3},
	}
	for i, in := range inputs {
		score, codes := Score(in)
		if score < 0 || score > 100 {
			t.Fatalf("case %d: score %d out of bounds", i, score)
		}
		bands := 0
		for _, c := range codes {
			if c == ReasonHighConfidence || c == ReasonMediumConfidence || c == ReasonLowConfidence {
				bands++
			}
		}
		if bands != 1 {
			t.Fatalf("case %d: expected exactly one confidence band, got %d in %v", i, bands, codes)
		}
	}
}

func TestScoreLowPatternMatchCode(t *testing.T) {
	_, codes := Score(ScoreInput{Found: true, Value: "value", PatternsMatched: 1, PatternsTotal: 4})
	if !containsCode(codes, ReasonLowPatternMatch) {
		t.Fatalf("expected LOW_PATTERN_MATCH, got %v", codes)
	}
}

func TestScoreDeterministic(t *testing.T) {
	in := ScoreInput{Found: true, Value: "2,500", PatternsMatched: 2, PatternsTotal: 4, Agreement: true, FormatValid: true, KeywordsFound: 1, KeywordsTotal: 2}
	s1, c1 := Score(in)
	s2, c2 := Score(in)
	if s1 != s2 || !reflect.DeepEqual(c1, c2) {
		t.Fatal("identical inputs must yield identical score and code ordering")
	}
}

func containsCode(codes []ReasonCode, want ReasonCode) bool {
	for _, c := range codes {
		if c == want {
			return true
		}
	}
	return false
}
