// Package validation normalizes and checks loosely typed input records
// against declarative rule sets.
package validation

import (
	"encoding/json"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Fields is a raw or normalized input record, typically a decoded JSON body.
type Fields map[string]any

// String returns the string value stored under name, or "".
func (f Fields) String(name string) string {
	value, _ := f[name].(string)
	return value
}

func (f Fields) Bool(name string) bool {
	value, _ := f[name].(bool)
	return value
}

func (f Fields) Int(name string) int64 {
	value, _ := f[name].(int64)
	return value
}

type Engine struct {
	validate *validator.Validate
}

func New() *Engine {
	return &Engine{validate: validator.New()}
}

var defaultEngine = New()

// Validate runs rs through the shared default engine.
func (rs RuleSet) Validate(raw Fields, presence Presence) (Fields, error) {
	return defaultEngine.Validate(rs, raw, presence)
}

// Validate returns a normalized copy of raw holding only the processed fields.
// Fields are visited in name order and the first failure is returned as
// *Error. raw itself is never modified.
func (e *Engine) Validate(rules RuleSet, raw Fields, presence Presence) (Fields, error) {
	if presence == nil {
		presence = Lists{}
	}
	res := presence.Resolve(rules)
	names := processSet(rules, raw, res)

	out := make(Fields, len(names))
	for _, name := range names {
		rule := rules[name]
		value, present := raw[name]
		normalized, ok, err := e.field(name, rule, value, present, res.Required(name))
		if err != nil {
			return nil, err
		}
		if ok {
			out[name] = normalized
		}
	}
	return out, nil
}

func processSet(rules RuleSet, raw Fields, res Resolution) []string {
	var candidates []string
	if res.process != nil {
		candidates = res.process
	} else {
		for name := range raw {
			candidates = append(candidates, name)
		}
		for name := range rules {
			if res.Required(name) {
				candidates = append(candidates, name)
			}
		}
		candidates = append(candidates, res.named...)
	}

	names := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if _, ok := rules[name]; !ok {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return slices.Compact(names)
}

func (e *Engine) field(name string, rule Rule, value any, present bool, required bool) (any, bool, error) {
	if present && value == nil {
		present = false
	}

	var normalized any
	if present {
		v, err := rule.coerce(value)
		if err != nil {
			return nil, false, newError(name, rule, err.Error())
		}
		normalized = v
		if s, isString := v.(string); isString && s == "" {
			present = false
		}
	}

	if !present {
		if required {
			return nil, false, newError(name, rule, reasonRequired)
		}
		if rule.hasDef {
			return rule.def, true, nil
		}
		return nil, false, nil
	}

	if reason := e.check(rule, normalized); reason != "" {
		return nil, false, newError(name, rule, reason)
	}
	return normalized, true, nil
}

type coerceError string

func (e coerceError) Error() string { return string(e) }

func (r Rule) coerce(value any) (any, error) {
	switch r.Kind() {
	case KindBool:
		return toBool(value)
	case KindInt:
		return toInt(value)
	}
	s, ok := value.(string)
	if !ok {
		return nil, coerceError(reasonString)
	}
	return r.normalize(s), nil
}

func (r Rule) normalize(s string) string {
	if r.trim {
		s = strings.TrimSpace(s)
	}
	if r.lower {
		s = strings.ToLower(s)
	}
	for _, rep := range r.replaces {
		s = rep.pattern.ReplaceAllString(s, rep.with)
	}
	return s
}

func toBool(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, coerceError(reasonBool)
}

func toInt(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return nil, coerceError(reasonInteger)
		}
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil, coerceError(reasonInteger)
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, coerceError(reasonNumber)
		}
		return n, nil
	}
	return nil, coerceError(reasonNumber)
}

func (e *Engine) check(rule Rule, value any) string {
	if s, ok := value.(string); ok {
		if rule.pattern != nil && !rule.pattern.MatchString(s) {
			return reasonPattern
		}
		if len(rule.allowed) > 0 && !slices.Contains(rule.allowed, s) {
			return reasonOneOf(rule.allowed)
		}
	}
	if rule.check != "" {
		if err := e.validate.Var(value, rule.check); err != nil {
			return describe(err, rule.Kind())
		}
	}
	return ""
}
