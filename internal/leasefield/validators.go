package leasefield

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// A Validator accepts a raw captured value and returns the normalized form.
// ok=false means the value failed format validation; the normalized string is
// then empty and the field is routed to rule_fail at creation.
type Validator func(raw string) (normalized string, ok bool)

var currencyCleaner = regexp.MustCompile(`[$,\s]`)

// ValidateCurrency accepts amounts like "2,500", "$1,250.50", "2500.00" and
// normalizes to a plain two-decimal figure.
func ValidateCurrency(raw string) (string, bool) {
	cleaned := currencyCleaner.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return "", false
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || amount < 0 {
		return "", false
	}
	return fmt.Sprintf("%.2f", amount), true
}

var dateFormats = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"2 January 2006",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006-01-02",
}

// ValidateDate normalizes to ISO 8601 (2006-01-02). US month-first ordering
// is assumed for slash dates; the catalog documents this per field.
func ValidateDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// ValidateText accepts any non-degenerate free-text capture.
func ValidateText(raw string) (string, bool) {
	s := strings.Join(strings.Fields(raw), " ")
	if len(s) < 2 || len(s) > 500 {
		return "", false
	}
	return s, true
}

// ValidateEnum builds a validator accepting only the given lowercase values.
func ValidateEnum(allowed ...string) Validator {
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[strings.ToLower(v)] = struct{}{}
	}
	return func(raw string) (string, bool) {
		s := strings.ToLower(strings.TrimSpace(raw))
		if _, ok := set[s]; !ok {
			return "", false
		}
		return s, true
	}
}

// ValidateIntegerInRange builds a validator for plain integers (day counts,
// month counts) within [lo, hi].
func ValidateIntegerInRange(lo, hi int) Validator {
	return func(raw string) (string, bool) {
		s := strings.TrimSpace(raw)
		n, err := strconv.Atoi(s)
		if err != nil || n < lo || n > hi {
			return "", false
		}
		return strconv.Itoa(n), true
	}
}
