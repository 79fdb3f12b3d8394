package validation

import "strings"

// Mode is the resolved presence of one field for one validation call.
type Mode uint8

const (
	// ModeDefault defers to the resolution's fallback.
	ModeDefault Mode = iota
	ModeRequired
	ModeOptional
)

const allToken = "+ALL"

// Presence decides which fields are processed and which of them are required.
type Presence interface {
	Resolve(rules RuleSet) Resolution
}

// Resolution is a Presence evaluated against a rule set.
type Resolution struct {
	fallback Mode
	modes    map[string]Mode
	// process, when non-nil, is the exact list of fields to consider.
	process []string
	// named fields are processed even when missing from the input.
	named []string
}

// Mode returns ModeRequired or ModeOptional for field.
func (r Resolution) Mode(field string) Mode {
	if m := r.modes[field]; m != ModeDefault {
		return m
	}
	if r.fallback == ModeRequired {
		return ModeRequired
	}
	return ModeOptional
}

func (r Resolution) Required(field string) bool {
	return r.Mode(field) == ModeRequired
}

// Lists is the explicit presence language: Process names the fields to
// validate (nil means every input field plus the required ones) and Require
// names those that must be present.
type Lists struct {
	Process []string
	Require []string
}

func (l Lists) Resolve(rules RuleSet) Resolution {
	res := Resolution{fallback: ModeOptional, modes: make(map[string]Mode, len(rules))}
	for _, name := range l.Process {
		res.modes[name] = ModeOptional
	}
	for _, name := range l.Require {
		res.modes[name] = ModeRequired
	}
	if l.Process != nil {
		res.process = append([]string{}, l.Process...)
	}
	return res
}

// Tokens is the compact presence language. "+ALL" makes every field of the
// rule set required by default, a bare field name makes that field required
// and "-name" makes it optional. When several tokens name the same field the
// last one wins.
type Tokens []string

func (t Tokens) Resolve(rules RuleSet) Resolution {
	res := Resolution{fallback: ModeOptional, modes: make(map[string]Mode, len(rules))}
	for _, token := range t {
		if token == allToken {
			res.fallback = ModeRequired
			break
		}
	}
	for name := range rules {
		mode := ModeDefault
		for i := len(t) - 1; i >= 0; i-- {
			token := t[i]
			if token == allToken {
				continue
			}
			if strings.HasPrefix(token, "-") && token[1:] == name {
				mode = ModeOptional
				break
			}
			if strings.TrimPrefix(token, "+") == name {
				mode = ModeRequired
				break
			}
		}
		if mode != ModeDefault {
			res.modes[name] = mode
			res.named = append(res.named, name)
		}
	}
	return res
}
