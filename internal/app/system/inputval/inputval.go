// Package inputval wraps go-playground/validator with the rules and
// human-readable messages used by the web forms.
//
// Struct fields carry a `validate` tag with the rules, an optional `label`
// tag used in messages, and an optional `form` tag naming the HTML input
// the error belongs to:
//
//	type loanInput struct {
//		Amount string `form:"amount" validate:"required,posdecimal" label:"Amount"`
//	}
package inputval

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError is a single failed rule, already rendered as a sentence.
type FieldError struct {
	Field   string // form input name
	Message string
}

// Result collects the failures from one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// First returns the first message, or "" when there are none.
func (r *Result) First() string {
	if !r.HasErrors() {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	if !r.HasErrors() {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// ByField returns the first message per form field.
func (r *Result) ByField() map[string]string {
	out := make(map[string]string)
	if r == nil {
		return out
	}
	for _, e := range r.Errors {
		if _, seen := out[e.Field]; !seen {
			out[e.Field] = e.Message
		}
	}
	return out
}

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if name := strings.Split(f.Tag.Get("form"), ",")[0]; name != "" && name != "-" {
				return name
			}
			if name := strings.Split(f.Tag.Get("json"), ",")[0]; name != "" && name != "-" {
				return name
			}
			return f.Name
		})
		_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
			_, ok := ParseDecimal(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("posdecimal", func(fl validator.FieldLevel) bool {
			d, ok := ParseDecimal(fl.Field().String())
			return ok && d.IsPositive()
		})
		_ = v.RegisterValidation("percent", func(fl validator.FieldLevel) bool {
			d, ok := ParseDecimal(fl.Field().String())
			return ok && !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(100))
		})
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			return IsValidDate(fl.Field().String())
		})
		_ = v.RegisterValidation("futuredate", func(fl validator.FieldLevel) bool {
			d, err := time.Parse(time.DateOnly, strings.TrimSpace(fl.Field().String()))
			if err != nil {
				return false
			}
			return !d.Before(today())
		})
	})
	return v
}

// today is replaced in tests.
var today = func() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// Today is the UTC date the futuredate rule compares against. Forms use it
// for the earliest date they offer.
func Today() time.Time { return today() }

// Validate checks s against its `validate` tags. It never returns nil.
func Validate(s any) *Result {
	res := &Result{}
	err := instance().Struct(s)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.Field(),
			Message: message(fe, labelFor(t, fe)),
		})
	}
	return res
}

func labelFor(t reflect.Type, fe validator.FieldError) string {
	if t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
		}
	}
	return fe.StructField()
}

func message(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s.", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "decimal":
		return label + " must be a number."
	case "posdecimal":
		return label + " must be a number greater than zero."
	case "percent":
		return label + " must be between 0 and 100."
	case "isodate":
		return label + " must be a date in YYYY-MM-DD format."
	case "futuredate":
		return label + " must be today or later."
	}
	return label + " is invalid."
}

// groupedThousands matches amounts written with comma thousands separators.
var groupedThousands = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

// ParseDecimal parses s as a decimal amount, tolerating surrounding spaces
// and comma thousands separators. Any other comma is rejected.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		if !groupedThousands.MatchString(s) {
			return decimal.Zero, false
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// IsValidDate reports whether s is a calendar date in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	_, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	return err == nil
}
