// Package validate collects field-level input checks so a request can be
// rejected with every problem at once, before any store access.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Errors struct {
	Fields []FieldError `json:"fields"`
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Message)
	}
	return strings.Join(parts, "; ")
}

type Validator struct {
	errs []FieldError
}

func New() *Validator {
	return &Validator{}
}

// Check records message against field when ok is false.
func (v *Validator) Check(ok bool, field, message string) *Validator {
	if !ok {
		v.errs = append(v.errs, FieldError{Field: field, Message: message})
	}
	return v
}

func (v *Validator) Required(field, value string) *Validator {
	return v.Check(strings.TrimSpace(value) != "", field, field+" is required")
}

// Length checks rune length; max <= 0 means no upper bound.
func (v *Validator) Length(field, value string, min, max int) *Validator {
	n := utf8.RuneCountInString(value)
	if n < min {
		return v.Check(false, field, fmt.Sprintf("%s must be at least %d characters long", field, min))
	}
	if max > 0 && n > max {
		return v.Check(false, field, fmt.Sprintf("%s can not be more than %d characters", field, max))
	}
	return v
}

func (v *Validator) Email(field, value string) *Validator {
	addr, err := mail.ParseAddress(value)
	return v.Check(err == nil && addr.Address == value, field, "invalid email address")
}

func (v *Validator) URL(field, value string) *Validator {
	u, err := url.ParseRequestURI(value)
	return v.Check(err == nil && u.Scheme != "" && u.Host != "", field, field+" must be a valid URL")
}

func (v *Validator) Match(field, value string, re *regexp.Regexp, message string) *Validator {
	return v.Check(re.MatchString(value), field, message)
}

func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return v.Check(slices.Contains(allowed, value), field,
		fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", ")))
}

// Err returns nil when every check passed.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &Errors{Fields: v.errs}
}
