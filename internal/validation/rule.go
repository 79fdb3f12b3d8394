package validation

import (
	"regexp"
	"slices"
)

// Kind is the type a field value is coerced to before checks run.
type Kind uint8

const (
	KindString Kind = iota
	KindBool
	KindInt
)

type replacement struct {
	pattern *regexp.Regexp
	with    string
}

// Rule describes how a single field is normalized and checked. Rules are
// values: every builder method returns a modified copy, so a rule set declared
// at package level can be shared freely between requests.
type Rule struct {
	label    string
	kind     Kind
	trim     bool
	lower    bool
	replaces []replacement
	pattern  *regexp.Regexp
	check    string
	allowed  []string
	def      any
	hasDef   bool
}

// RuleSet maps a field name to its rule.
type RuleSet map[string]Rule

func String(label string) Rule { return Rule{label: label, kind: KindString} }

func Bool(label string) Rule { return Rule{label: label, kind: KindBool} }

func Int(label string) Rule { return Rule{label: label, kind: KindInt} }

func (r Rule) Label() string { return r.label }

func (r Rule) Kind() Kind { return r.kind }

// Trim strips leading and trailing whitespace from string values.
func (r Rule) Trim() Rule {
	r.trim = true
	return r
}

// Lower case-folds string values.
func (r Rule) Lower() Rule {
	r.lower = true
	return r
}

// Replace rewrites every match of pattern with the given string. Replacements
// run after trimming and case folding, in declaration order.
func (r Rule) Replace(pattern *regexp.Regexp, with string) Rule {
	r.replaces = append(slices.Clone(r.replaces), replacement{pattern: pattern, with: with})
	return r
}

// Pattern requires normalized string values to match re.
func (r Rule) Pattern(re *regexp.Regexp) Rule {
	r.pattern = re
	return r
}

// Check attaches a go-playground/validator tag (e.g. "email,max=100")
// evaluated against the normalized value.
func (r Rule) Check(tag string) Rule {
	r.check = tag
	return r
}

// OneOf restricts normalized string values to the given set.
func (r Rule) OneOf(values ...string) Rule {
	r.allowed = slices.Clone(values)
	return r
}

// Default is substituted when the field is processed but absent.
func (r Rule) Default(value any) Rule {
	r.def = value
	r.hasDef = true
	return r
}
