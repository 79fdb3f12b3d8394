package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error reports the first field that failed validation.
type Error struct {
	Field  string
	Label  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%q %s", e.Label, e.Reason)
}

func newError(field string, rule Rule, reason string) *Error {
	label := rule.Label()
	if label == "" {
		label = field
	}
	return &Error{Field: field, Label: label, Reason: reason}
}

const (
	reasonRequired = "is required"
	reasonString   = "must be a string"
	reasonBool     = "must be a boolean"
	reasonNumber   = "must be a number"
	reasonInteger  = "must be an integer"
	reasonPattern  = "fails to match the required pattern"
	reasonInvalid  = "is invalid"
)

func reasonOneOf(values []string) string {
	return "must be one of [" + strings.Join(values, ", ") + "]"
}

// describe turns a validator failure into a human readable reason.
func describe(err error, kind Kind) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return reasonInvalid
	}
	fe := fieldErrs[0]
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return reasonRequired
	case "email":
		return "must be a valid email"
	case "alphanum":
		return "must only contain alpha-numeric characters"
	case "oneof":
		return reasonOneOf(strings.Fields(param))
	case "min":
		if kind == KindString {
			return "length must be at least " + param + " characters long"
		}
		return "must be greater than or equal to " + param
	case "max":
		if kind == KindString {
			return "length must be less than or equal to " + param + " characters long"
		}
		return "must be less than or equal to " + param
	case "gt":
		return "must be greater than " + param
	case "e164", "numeric":
		return reasonPattern
	}
	return reasonInvalid
}
