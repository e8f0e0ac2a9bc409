// Package validate implements the form rules every create and update runs
// before touching the database. A Validator collects field errors; Err
// returns them as a single error that matches common.ErrorValidation.
package validate

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/globetrotter/internal/common"
	"github.com/dmitrijs2005/globetrotter/internal/timex"
)

const MinPasswordLength = 8

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) Error() string {
	return f.Field + " " + f.Message
}

type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, f := range e {
		parts[i] = f.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Unwrap() error { return common.ErrorValidation }

type Validator struct {
	errs Errors
}

func New() *Validator {
	return &Validator{}
}

// Fail records a rule violation that has no dedicated helper.
func (v *Validator) Fail(field, message string) *Validator {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
	return v
}

func (v *Validator) check(ok bool, field, message string) *Validator {
	if !ok {
		v.Fail(field, message)
	}
	return v
}

// Has reports whether field already failed a rule.
func (v *Validator) Has(field string) bool {
	return slices.ContainsFunc(v.errs, func(f FieldError) bool { return f.Field == field })
}

// Err returns nil when every rule passed, otherwise Errors.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

func (v *Validator) Required(field, value string) *Validator {
	return v.check(strings.TrimSpace(value) != "", field, "is required")
}

func (v *Validator) RequiredDate(field string, d timex.Date) *Validator {
	return v.check(!d.IsZero(), field, "is required")
}

func (v *Validator) MaxLen(field, value string, n int) *Validator {
	return v.check(utf8.RuneCountInString(value) <= n, field, fmt.Sprintf("must be at most %d characters", n))
}

// DateOrder requires both dates and rejects end before start. Equal dates
// pass.
func (v *Validator) DateOrder(startField string, start timex.Date, endField string, end timex.Date) *Validator {
	v.RequiredDate(startField, start)
	v.RequiredDate(endField, end)
	if start.IsZero() || end.IsZero() {
		return v
	}
	return v.check(!end.Before(start), endField, "must not be before "+startField)
}

// StrictDateOrder is DateOrder with equal dates rejected.
func (v *Validator) StrictDateOrder(startField string, start timex.Date, endField string, end timex.Date) *Validator {
	v.RequiredDate(startField, start)
	v.RequiredDate(endField, end)
	if start.IsZero() || end.IsZero() {
		return v
	}
	return v.check(end.After(start), endField, "must be after "+startField)
}

// TimeOrder requires both instants and rejects arrival not strictly after
// departure.
func (v *Validator) TimeOrder(depField string, dep time.Time, arrField string, arr time.Time) *Validator {
	v.check(!dep.IsZero(), depField, "is required")
	v.check(!arr.IsZero(), arrField, "is required")
	if dep.IsZero() || arr.IsZero() {
		return v
	}
	return v.check(arr.After(dep), arrField, "must be after "+depField)
}

func (v *Validator) NonNegative(field string, amount float64) *Validator {
	return v.check(amount >= 0, field, "must not be negative")
}

// Within checks that d lies in [from, to]. A zero d is left to
// RequiredDate.
func (v *Validator) Within(field string, d, from, to timex.Date) *Validator {
	if d.IsZero() {
		return v
	}
	return v.check(d.Between(from, to), field, fmt.Sprintf("must be between %s and %s", from, to))
}

func (v *Validator) Email(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.Fail(field, "is required")
	}
	addr, err := mail.ParseAddress(value)
	return v.check(err == nil && addr.Address == value, field, "must be a valid email address")
}

func (v *Validator) Password(field, value string) *Validator {
	return v.check(utf8.RuneCountInString(value) >= MinPasswordLength, field,
		fmt.Sprintf("must be at least %d characters", MinPasswordLength))
}

// ClockTime accepts an empty value or a 24-hour "HH:MM".
func (v *Validator) ClockTime(field, value string) *Validator {
	if value == "" {
		return v
	}
	_, err := time.Parse("15:04", value)
	return v.check(err == nil && len(value) == 5, field, "must be a time in HH:MM format")
}

func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return v.check(slices.Contains(allowed, value), field, "must be one of "+strings.Join(allowed, ", "))
}

// UUID checks the canonical textual form used for every primary key.
func (v *Validator) UUID(field, value string) *Validator {
	return v.check(IsUUID(value), field, "must be a valid id")
}
