package leasefield

import "strings"

const (
	contextBefore = 100
	contextAfter  = 200

	// Rough plain-text density of a lease page; used only for the
	// estimated-page hint in source locations.
	charsPerPage = 1800
)

// ExtractField runs every candidate pattern of def against text, in declared
// order. The first pattern whose capture group is non-empty after trimming
// wins; later hits are not re-evaluated for content but are counted toward
// patterns_matched and checked for value agreement. A capture that trims to
// whitespace is a non-hit, not an empty value.
func ExtractField(text string, def FieldDefinition) Extraction {
	ex := Extraction{
		FieldName:     def.Name,
		PatternsTotal: len(def.Patterns),
		MatchIndex:    -1,
	}
	if strings.TrimSpace(text) == "" {
		return ex
	}

	agreeCount := 0
	for _, pat := range def.Patterns {
		loc := pat.FindStringSubmatchIndex(text)
		if loc == nil || len(loc) < 4 || loc[2] < 0 {
			continue
		}
		captured := strings.TrimSpace(text[loc[2]:loc[3]])
		if captured == "" {
			continue
		}
		ex.PatternsMatched++
		if !ex.Found {
			ex.Found = true
			ex.ValueText = captured
			ex.MatchIndex = loc[0]
			ex.Context = contextWindow(text, loc[0])
			ex.EstimatedPage = loc[0]/charsPerPage + 1
			agreeCount = 1
			continue
		}
		if captured == ex.ValueText {
			agreeCount++
		}
	}
	ex.Agreement = agreeCount > 1
	return ex
}

// ExtractAll applies the catalog to the document text, one Extraction per
// definition in catalog order. Absence of a field is a normal outcome.
func ExtractAll(text string, defs []FieldDefinition) []Extraction {
	out := make([]Extraction, 0, len(defs))
	for _, def := range defs {
		out = append(out, ExtractField(text, def))
	}
	return out
}

// contextWindow captures a fixed slice around the match start for audit
// display and keyword checks: 100 chars before, 200 after.
func contextWindow(text string, matchIndex int) string {
	start := matchIndex - contextBefore
	if start < 0 {
		start = 0
	}
	end := matchIndex + contextAfter
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

// countKeywords reports how many of the expected keywords appear in the
// context window, case-insensitively.
func countKeywords(context string, keywords []string) int {
	if context == "" {
		return 0
	}
	lower := strings.ToLower(context)
	found := 0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found++
		}
	}
	return found
}
