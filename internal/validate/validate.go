// Package validate accumulates field-level validation errors so a response can
// surface every violation at once instead of stopping at the first.
package validate

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError keeps the first message recorded for a field.
func (v *Validator) AddError(field, message string) {
	if _, ok := v.Errors[field]; !ok {
		v.Errors[field] = message
	}
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// RequireBounded trims and ensures rune-length bounds, recording a failure on v.
func (v *Validator) RequireBounded(field, s string, min, max int) string {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n < min || n > max {
		v.AddError(field, field+" must be between "+strconv.Itoa(min)+" and "+strconv.Itoa(max)+" characters")
	}
	return s
}

// YearNotFuture records a failure when year is later than the current year.
func (v *Validator) YearNotFuture(field string, year int) {
	if year > CurrentYear() {
		v.AddError(field, field+" must not be in the future")
	}
}

func CurrentYear() int {
	return time.Now().Year()
}
