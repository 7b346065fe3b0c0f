package leasefield

import "regexp"

// FieldDefinition describes one extractable lease datum. Patterns are tried
// in declared order and the first non-empty capture wins, so authors must put
// the most specific labeled pattern first and generic fallbacks last. Later
// hits are still counted for telemetry and the agreement bonus.
type FieldDefinition struct {
	Name     string
	Priority Priority
	Type     FieldType
	Patterns []*regexp.Regexp
	// Keywords are expected near a genuine match; the scorer checks the
	// context window for them case-insensitively.
	Keywords []string
	Validate Validator
}

var defaultCatalog = []FieldDefinition{
	{
		Name:     "base_rent",
		Priority: PriorityCritical,
		Type:     TypeCurrency,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)monthly\s+(?:base\s+)?rent(?:\s+of)?\s*[:\-]?\s*\$?\s*([\d,]+(?:\.\d{1,2})?)`),
			regexp.MustCompile(`(?i)base\s+rent(?:\s+of)?\s*[:\-]?\s*\$?\s*([\d,]+(?:\.\d{1,2})?)`),
			regexp.MustCompile(`(?i)\$\s*([\d,]+(?:\.\d{1,2})?)\s*(?:per\s+month|/\s*mo(?:nth)?\b)`),
			regexp.MustCompile(`(?i)\brent\b(?:\s+shall\s+be)?\s*[:\-]?\s*\$?\s*([\d,]+(?:\.\d{1,2})?)`),
		},
		Keywords: []string{"rent", "month"},
		Validate: ValidateCurrency,
	},
	{
		Name:     "security_deposit",
		Priority: PriorityHigh,
		Type:     TypeCurrency,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)security\s+deposit(?:\s+of)?\s*[:\-]?\s*\$?\s*([\d,]+(?:\.\d{1,2})?)`),
			regexp.MustCompile(`(?i)deposit(?:\s+in\s+the\s+amount\s+of)?\s*[:\-]?\s*\$?\s*([\d,]+(?:\.\d{1,2})?)`),
		},
		Keywords: []string{"deposit", "security"},
		Validate: ValidateCurrency,
	},
	{
		Name:     "lease_start",
		Priority: PriorityCritical,
		Type:     TypeDate,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)commencement\s+date\s*[:\-]?\s*([A-Za-z]+\s+\d{1,2},?\s+\d{4}|\d{1,2}[/-]\d{1,2}[/-]\d{4}|\d{4}-\d{2}-\d{2})`),
			regexp.MustCompile(`(?i)lease\s+(?:shall\s+)?commenc(?:e|ing)\s+(?:on\s+)?([A-Za-z]+\s+\d{1,2},?\s+\d{4}|\d{1,2}[/-]\d{1,2}[/-]\d{4})`),
			regexp.MustCompile(`(?i)(?:term\s+)?begin(?:s|ning)\s+(?:on\s+)?([A-Za-z]+\s+\d{1,2},?\s+\d{4}|\d{1,2}[/-]\d{1,2}[/-]\d{4})`),
			regexp.MustCompile(`(?i)start\s+date\s*[:\-]?\s*([A-Za-z]+\s+\d{1,2},?\s+\d{4}|\d{1,2}[/-]\d{1,2}[/-]\d{4}|\d{4}-\d{2}-\d{2})`),
		},
		Keywords: []string{"commence", "term", "lease"},
		Validate: ValidateDate,
	},
	{
		Name:     "lease_end",
		Priority: PriorityCritical,
		Type:     TypeDate,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)expiration\s+date\s*[:\-]?\s*([A-Za-z]+\s+\d{1,2},?\s+\d{4}|\d{1,2}[/-]\d{1,2}[/-]\d{4}|\d{4}-\d{2}-\d{2})`),
			regexp.MustCompile(`(?i)lease\s+(?:shall\s+)?expir(?:e|ing)\s+(?:on\s+)?([A-Za-z]+\s+\d{1,2},?\s+\d{4}|\d{1,2}[/-]\d{1,2}[/-]\d{4})`),
			regexp.MustCompile(`(?i)(?:term\s+)?end(?:s|ing)\s+(?:on\s+)?([A-Za-z]+\s+\d{1,2},?\s+\d{4}|\d{1,2}[/-]\d{1,2}[/-]\d{4})`),
			regexp.MustCompile(`(?i)end\s+date\s*[:\-]?\s*([A-Za-z]+\s+\d{1,2},?\s+\d{4}|\d{1,2}[/-]\d{1,2}[/-]\d{4}|\d{4}-\d{2}-\d{2})`),
		},
		Keywords: []string{"expir", "term", "end"},
		Validate: ValidateDate,
	},
	{
		Name:     "tenant_name",
		Priority: PriorityCritical,
		Type:     TypeString,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)tenant\s*[:\-]\s*([A-Z][A-Za-z0-9&.,' ]{1,80}?)(?:\s*[\n(]|$)`),
			regexp.MustCompile(`(?i)lessee\s*[:\-]?\s*([A-Z][A-Za-z0-9&.,' ]{1,80}?)(?:\s*[\n(]|$)`),
			regexp.MustCompile(`(?i)(?:between|and)\s+([A-Z][A-Za-z0-9&.' ]{1,80}?)\s*\((?:the\s+)?["']?tenant["']?\)`),
		},
		Keywords: []string{"tenant", "lessee"},
		Validate: ValidateText,
	},
	{
		Name:     "landlord_name",
		Priority: PriorityHigh,
		Type:     TypeString,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)landlord\s*[:\-]\s*([A-Z][A-Za-z0-9&.,' ]{1,80}?)(?:\s*[\n(]|$)`),
			regexp.MustCompile(`(?i)lessor\s*[:\-]?\s*([A-Z][A-Za-z0-9&.,' ]{1,80}?)(?:\s*[\n(]|$)`),
			regexp.MustCompile(`(?i)between\s+([A-Z][A-Za-z0-9&.' ]{1,80}?)\s*\((?:the\s+)?["']?landlord["']?\)`),
		},
		Keywords: []string{"landlord", "lessor"},
		Validate: ValidateText,
	},
	{
		Name:     "property_address",
		Priority: PriorityCritical,
		Type:     TypeString,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:premises|property)\s+(?:located\s+|situated\s+)?at\s*[:\-]?\s*(\d+[^\n,]{3,90}(?:,[^\n]{3,60}){0,3})`),
			regexp.MustCompile(`(?i)(?:property|premises)\s+address\s*[:\-]\s*([^\n]{8,160})`),
			regexp.MustCompile(`(?i)address\s*[:\-]\s*(\d+[^\n]{6,160})`),
		},
		Keywords: []string{"premises", "property", "address"},
		Validate: ValidateText,
	},
	{
		Name:     "lease_term_months",
		Priority: PriorityHigh,
		Type:     TypeString,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:lease\s+)?term\s+of\s+(\d{1,3})\s+months`),
			regexp.MustCompile(`(?i)(?:lease\s+)?term\s*[:\-]?\s*(\d{1,3})\s*months`),
			regexp.MustCompile(`(?i)for\s+a\s+period\s+of\s+(\d{1,3})\s+months`),
		},
		Keywords: []string{"term", "month"},
		Validate: ValidateIntegerInRange(1, 1200),
	},
	{
		Name:     "escalation_clause",
		Priority: PriorityCritical,
		Type:     TypeString,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:rent\s+)?escalation\s*[:\-]?\s*([^\n]{5,240})`),
			regexp.MustCompile(`(?i)(?:annual|yearly)\s+(?:rent\s+)?increase\s*[:\-]?\s*([^\n]{5,240})`),
			regexp.MustCompile(`(?i)rent\s+shall\s+(increase[^\n]{3,240})`),
		},
		Keywords: []string{"escalat", "increase", "annual"},
		Validate: ValidateText,
	},
	{
		Name:     "renewal_option",
		Priority: PriorityMedium,
		Type:     TypeString,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:option\s+to\s+renew|renewal\s+option)\s*[:\-]?\s*([^\n]{5,240})`),
			regexp.MustCompile(`(?i)tenant\s+(?:shall\s+have|has)\s+the\s+(option\s+to\s+(?:renew|extend)[^\n]{0,240})`),
		},
		Keywords: []string{"renew", "option", "extend"},
		Validate: ValidateText,
	},
	{
		Name:     "notice_period_days",
		Priority: PriorityMedium,
		Type:     TypeString,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(\d{1,3})\s+days(?:'|s)?\s+(?:prior\s+)?(?:written\s+)?notice`),
			regexp.MustCompile(`(?i)notice\s+(?:period\s+)?of\s+(\d{1,3})\s+days`),
		},
		Keywords: []string{"notice", "days"},
		Validate: ValidateIntegerInRange(1, 730),
	},
	{
		Name:     "cam_charges",
		Priority: PriorityMedium,
		Type:     TypeCurrency,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:cam|common\s+area\s+maintenance)(?:\s+charges?)?(?:\s+of)?\s*[:\-]?\s*\$?\s*([\d,]+(?:\.\d{1,2})?)`),
			regexp.MustCompile(`(?i)operating\s+expenses?\s*[:\-]?\s*\$?\s*([\d,]+(?:\.\d{1,2})?)`),
		},
		Keywords: []string{"cam", "common area", "maintenance"},
		Validate: ValidateCurrency,
	},
	{
		Name:     "taxes",
		Priority: PriorityMedium,
		Type:     TypeCurrency,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:real\s+estate|property)\s+tax(?:es)?(?:\s+of)?\s*[:\-]?\s*\$?\s*([\d,]+(?:\.\d{1,2})?)`),
			regexp.MustCompile(`(?i)\btax(?:es)?\s*[:\-]\s*\$?\s*([\d,]+(?:\.\d{1,2})?)`),
		},
		Keywords: []string{"tax", "property"},
		Validate: ValidateCurrency,
	},
	{
		Name:     "insurance",
		Priority: PriorityMedium,
		Type:     TypeCurrency,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)insurance(?:\s+premium)?(?:\s+of)?\s*[:\-]?\s*\$?\s*([\d,]+(?:\.\d{1,2})?)`),
			regexp.MustCompile(`(?i)\$\s*([\d,]+(?:\.\d{1,2})?)\s+(?:per\s+month\s+)?(?:for\s+)?insurance`),
		},
		Keywords: []string{"insurance", "premium"},
		Validate: ValidateCurrency,
	},
	{
		Name:     "late_fee",
		Priority: PriorityLow,
		Type:     TypeCurrency,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)late\s+(?:fee|charge)(?:\s+of)?\s*[:\-]?\s*\$?\s*([\d,]+(?:\.\d{1,2})?)`),
			regexp.MustCompile(`(?i)\$?\s*([\d,]+(?:\.\d{1,2})?)\s+late\s+(?:fee|charge)`),
		},
		Keywords: []string{"late", "fee"},
		Validate: ValidateCurrency,
	},
	{
		Name:     "pets_allowed",
		Priority: PriorityLow,
		Type:     TypeEnum,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)pets?\s+(?:are\s+)?(allowed|permitted|prohibited|not\s+allowed|not\s+permitted)`),
			regexp.MustCompile(`(?i)pets?\s*[:\-]\s*(yes|no|allowed|prohibited)`),
		},
		Keywords: []string{"pet"},
		Validate: ValidateEnum("yes", "no", "allowed", "permitted", "prohibited", "not allowed", "not permitted"),
	},
}

// Catalog returns a copy of the default field catalog. The slice is safe for
// the caller to reorder or trim; the definitions themselves are shared and
// must not be mutated.
func Catalog() []FieldDefinition {
	out := make([]FieldDefinition, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out
}

// Definition looks up a catalog field by name.
func Definition(name string) (FieldDefinition, bool) {
	for _, def := range defaultCatalog {
		if def.Name == name {
			return def, true
		}
	}
	return FieldDefinition{}, false
}
