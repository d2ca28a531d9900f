// Package rules owns the versioned action-rule document: parsing and
// validation, trigger matching, and the hot-swappable active document.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/boadinoel/fsri/internal/domain/pillar"
)

// WeatherConducive is the single recognized weather condition a rule may
// require.
const WeatherConducive = "conducive"

// Condition is the trigger clause of a rule.
type Condition struct {
	Pillar    pillar.Pillar `yaml:"pillar" json:"pillar"`
	Threshold float64       `yaml:"threshold" json:"threshold"`
	Weather   string        `yaml:"weather,omitempty" json:"weather,omitempty"`
}

// Rule is one persona-targeted action rule. Persona is lower-cased at load
// so matching is case-insensitive.
type Rule struct {
	Persona string    `yaml:"persona" json:"persona"`
	When    Condition `yaml:"when" json:"when"`
	Do      []string  `yaml:"do" json:"do"`
	Notify  []string  `yaml:"notify,omitempty" json:"notify,omitempty"`
}

// Document is an immutable validated rule set keyed by "commodity.region".
// No field is mutated after construction; replacement happens wholesale via
// Store.
type Document struct {
	rules map[string][]Rule
	count int
}

// Rules returns the ordered rules for a normalized key. A missing key is a
// valid state, not an error.
func (d *Document) Rules(key string) []Rule {
	if d == nil {
		return nil
	}
	return d.rules[key]
}

// Len returns the total rule count across all keys.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return d.count
}

// Keys returns the document's keys in sorted order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, len(d.rules))
	for k := range d.rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Key normalizes a commodity/region pair to the document's key convention.
func Key(commodity, region string) string {
	return strings.ToLower(commodity + "." + region)
}

// ValidationError locates the first entry that failed document validation.
// RuleIndex is -1 for key-level failures.
type ValidationError struct {
	Key       string
	RuleIndex int
	Detail    string
}

func (e *ValidationError) Error() string {
	if e.RuleIndex < 0 {
		return fmt.Sprintf("rules: key %q: %s", e.Key, e.Detail)
	}
	return fmt.Sprintf("rules: rule %d in %q: %s", e.RuleIndex, e.Key, e.Detail)
}

// rawRule mirrors the persisted shape before validation. Threshold is a
// pointer so an absent field is distinguishable from an explicit zero.
type rawRule struct {
	Persona string `yaml:"persona"`
	When    struct {
		Pillar    string   `yaml:"pillar"`
		Threshold *float64 `yaml:"threshold"`
		Weather   string   `yaml:"weather"`
	} `yaml:"when"`
	Do     []string `yaml:"do"`
	Notify []string `yaml:"notify"`
}

// ParseDocument parses and validates a raw rule document. Validation is
// all-or-nothing: any failure rejects the whole document and reports the
// first offending entry (keys checked in sorted order for determinism).
func ParseDocument(raw []byte) (*Document, error) {
	var data map[string][]rawRule
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("rules: parse document: %w", err)
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	validated := make(map[string][]Rule, len(data))
	count := 0
	for _, key := range keys {
		if !strings.Contains(key, ".") {
			return nil, &ValidationError{Key: key, RuleIndex: -1,
				Detail: "expected '<commodity>.<region>' (e.g. 'corn.us')"}
		}
		norm := strings.ToLower(key)
		if _, exists := validated[norm]; exists {
			return nil, &ValidationError{Key: key, RuleIndex: -1,
				Detail: fmt.Sprintf("duplicate of key %q after lower-casing", norm)}
		}
		clean := make([]Rule, 0, len(data[key]))
		for i, r := range data[key] {
			rule, err := validateRule(key, i, r)
			if err != nil {
				return nil, err
			}
			clean = append(clean, rule)
		}
		validated[norm] = clean
		count += len(clean)
	}

	return &Document{rules: validated, count: count}, nil
}

func validateRule(key string, idx int, r rawRule) (Rule, error) {
	fail := func(detail string) (Rule, error) {
		return Rule{}, &ValidationError{Key: key, RuleIndex: idx, Detail: detail}
	}
	if strings.TrimSpace(r.Persona) == "" {
		return fail("'persona' must be a non-empty string")
	}
	p, ok := pillar.Parse(r.When.Pillar)
	if !ok {
		return fail(fmt.Sprintf("'pillar' must be one of production, movement, policy, biosecurity (got %q)", r.When.Pillar))
	}
	if r.When.Threshold == nil {
		return fail("'threshold' must be a number")
	}
	if r.When.Weather != "" && r.When.Weather != WeatherConducive {
		return fail(fmt.Sprintf("unsupported weather flag %q", r.When.Weather))
	}
	if len(r.Do) == 0 {
		return fail("'do' must be a non-empty list of strings")
	}
	for _, a := range r.Do {
		if strings.TrimSpace(a) == "" {
			return fail("'do' entries must be non-empty strings")
		}
	}
	return Rule{
		Persona: strings.ToLower(r.Persona),
		When: Condition{
			Pillar:    p,
			Threshold: *r.When.Threshold,
			Weather:   r.When.Weather,
		},
		Do:     r.Do,
		Notify: r.Notify,
	}, nil
}
