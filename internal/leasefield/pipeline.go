package leasefield

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const maxDocumentChars = 500000

// Scanner runs the whole catalog against a document and scores every field.
// It is stateless; one Scanner may serve any number of concurrent scans.
type Scanner struct {
	catalog []FieldDefinition
	clock   func() time.Time
}

type ScannerOption func(*Scanner)

func WithCatalog(defs []FieldDefinition) ScannerOption {
	return func(s *Scanner) { s.catalog = defs }
}

func WithClock(clock func() time.Time) ScannerOption {
	return func(s *Scanner) { s.clock = clock }
}

func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{
		catalog: Catalog(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan extracts and scores every catalog field. Absent fields come back with
// confidence zero and FIELD_NOT_FOUND; the scan itself fails only on empty
// lease identifiers. Identical text always yields identical scores and
// reason-code ordering.
func (s *Scanner) Scan(ctx context.Context, leaseID, text string) (ScanResult, error) {
	if leaseID == "" {
		return ScanResult{}, fmt.Errorf("lease id is required")
	}
	_, span := otel.Tracer("leasecore/leasefield").Start(ctx, "scan")
	defer span.End()

	if len(text) > maxDocumentChars {
		text = text[:maxDocumentChars]
	}

	res := ScanResult{
		LeaseID: leaseID,
		Metadata: ScanMetadata{
			StartedAt:     s.clock(),
			FieldsTotal:   len(s.catalog),
			DocumentBytes: len(text),
		},
	}

	total := 0
	for _, def := range s.catalog {
		a := s.assess(text, def)
		if a.Found {
			res.Metadata.FieldsFound++
		}
		total += a.Confidence
		res.Fields = append(res.Fields, a)
	}
	if len(res.Fields) > 0 {
		res.OverallConfidence = int(math.Round(float64(total) / float64(len(res.Fields))))
	}
	res.Metadata.NeedsReviewReasons = needsReviewReasons(res.Fields)
	res.Metadata.CompletedAt = s.clock()

	span.SetAttributes(
		attribute.String("lease.id", leaseID),
		attribute.Int("fields.total", res.Metadata.FieldsTotal),
		attribute.Int("fields.found", res.Metadata.FieldsFound),
		attribute.Int("confidence.overall", res.OverallConfidence),
	)
	return res, nil
}

func (s *Scanner) assess(text string, def FieldDefinition) Assessment {
	ex := ExtractField(text, def)

	a := Assessment{
		FieldName:       def.Name,
		Priority:        def.Priority,
		Type:            def.Type,
		Found:           ex.Found,
		PatternsMatched: ex.PatternsMatched,
		PatternsTotal:   ex.PatternsTotal,
		Agreement:       ex.Agreement,
	}
	if ex.Found {
		value := ex.ValueText
		a.ValueText = &value
		a.Source = SourceLocation{TextSnippet: ex.Context, EstimatedPage: ex.EstimatedPage}
		if def.Validate != nil {
			if normalized, ok := def.Validate(ex.ValueText); ok {
				a.ValueNormalized = &normalized
				a.FormatValid = true
			}
		}
	}

	a.Confidence, a.ReasonCodes = Score(ScoreInput{
		Found:           ex.Found,
		Value:           ex.ValueText,
		PatternsMatched: ex.PatternsMatched,
		PatternsTotal:   ex.PatternsTotal,
		Agreement:       ex.Agreement,
		FormatValid:     a.FormatValid,
		KeywordsFound:   countKeywords(ex.Context, def.Keywords),
		KeywordsTotal:   len(def.Keywords),
	})
	return a
}

func needsReviewReasons(fields []Assessment) []string {
	var reasons []string
	for _, f := range fields {
		switch {
		case !f.Found && f.Priority == PriorityCritical:
			reasons = append(reasons, fmt.Sprintf("%s: critical field not found", f.FieldName))
		case f.Found && !f.FormatValid:
			reasons = append(reasons, fmt.Sprintf("%s: captured value failed format validation", f.FieldName))
		case f.Found && f.Confidence < 70:
			reasons = append(reasons, fmt.Sprintf("%s: low confidence (%d)", f.FieldName, f.Confidence))
		}
	}
	return reasons
}
