package leasefield

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Overrides customizes the built-in catalog without a rebuild: operators can
// add trailing fallback patterns, replace keyword sets, or disable fields for
// a deployment. Pattern order within a field still decides extraction, so
// extra patterns are always appended after the built-in ones.
type Overrides struct {
	Fields map[string]FieldOverride `yaml:"fields"`
}

type FieldOverride struct {
	Disabled      bool     `yaml:"disabled"`
	Keywords      []string `yaml:"keywords"`
	ExtraPatterns []string `yaml:"extra_patterns"`
}

func LoadOverrides(path string) (Overrides, error) {
	var ov Overrides
	blob, err := os.ReadFile(path)
	if err != nil {
		return ov, err
	}
	if err := yaml.Unmarshal(blob, &ov); err != nil {
		return ov, fmt.Errorf("parse catalog overrides: %w", err)
	}
	return ov, nil
}

// ApplyOverrides returns a catalog with the overrides folded in. Unknown
// field names and invalid regexes are hard errors; a silently ignored
// override is worse than a failed startup.
func ApplyOverrides(defs []FieldDefinition, ov Overrides) ([]FieldDefinition, error) {
	byName := make(map[string]int, len(defs))
	for i, def := range defs {
		byName[def.Name] = i
	}
	for name := range ov.Fields {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("catalog override for unknown field %q", name)
		}
	}

	out := make([]FieldDefinition, 0, len(defs))
	for _, def := range defs {
		fo, ok := ov.Fields[def.Name]
		if !ok {
			out = append(out, def)
			continue
		}
		if fo.Disabled {
			continue
		}
		if len(fo.Keywords) > 0 {
			def.Keywords = fo.Keywords
		}
		if len(fo.ExtraPatterns) > 0 {
			patterns := make([]*regexp.Regexp, len(def.Patterns), len(def.Patterns)+len(fo.ExtraPatterns))
			copy(patterns, def.Patterns)
			for _, raw := range fo.ExtraPatterns {
				re, err := regexp.Compile(raw)
				if err != nil {
					return nil, fmt.Errorf("field %s: bad extra pattern %q: %w", def.Name, raw, err)
				}
				if re.NumSubexp() < 1 {
					return nil, fmt.Errorf("field %s: extra pattern %q has no capture group", def.Name, raw)
				}
				patterns = append(patterns, re)
			}
			def.Patterns = patterns
		}
		out = append(out, def)
	}
	return out, nil
}
