package leasefield

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildReport renders a scan as a markdown audit report: one table row per
// field with value, confidence, and reason codes, followed by the raw JSON
// appendix. The output is deterministic for a given scan.
func BuildReport(res ScanResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Lease Extraction Report\n\n")
	fmt.Fprintf(&b, "- Lease ID: %s\n", res.LeaseID)
	fmt.Fprintf(&b, "- Scanned: %s\n", res.Metadata.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- Fields found: %d of %d\n", res.Metadata.FieldsFound, res.Metadata.FieldsTotal)
	fmt.Fprintf(&b, "- Overall confidence: **%d / 100**\n\n", res.OverallConfidence)

	fmt.Fprintf(&b, "## Extracted Fields\n\n")
	fmt.Fprintf(&b, "| Field | Value | Confidence | Reason Codes |\n")
	fmt.Fprintf(&b, "|---|---|---|---|\n")
	for _, f := range res.Fields {
		value := "—"
		if f.ValueText != nil {
			value = sanitizeCell(*f.ValueText)
		}
		codes := make([]string, 0, len(f.ReasonCodes))
		for _, c := range f.ReasonCodes {
			codes = append(codes, string(c))
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", f.FieldName, value, f.Confidence, strings.Join(codes, ", "))
	}
	b.WriteString("\n")

	if len(res.Metadata.NeedsReviewReasons) > 0 {
		fmt.Fprintf(&b, "## Needs Review\n\n")
		for _, r := range res.Metadata.NeedsReviewReasons {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Appendix\n\n### Scan Output (JSON)\n\n```json\n%s\n```\n", prettyJSON(res))
	return b.String()
}

func sanitizeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.TrimSpace(s)
	if s == "" {
		return "—"
	}
	if len(s) > 120 {
		s = s[:120] + "…"
	}
	return s
}

func prettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
