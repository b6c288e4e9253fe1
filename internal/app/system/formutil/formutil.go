// Package formutil provides helpers for form re-rendering with validation errors.
//
// When a form submission fails validation, the form should be re-rendered with:
// - The user's previously entered values (echoed back)
// - An error message explaining what went wrong
// - Per-field messages next to the offending inputs
//
// Example usage:
//
//	type newGroupData struct {
//		formutil.Base
//		Draft forms.GroupDraft
//	}
//
//	data := newGroupData{Draft: draft}
//	formutil.SetBase(&data.Base, r, "Create Savings Group", "/groups")
//	data.SetError("Name is required.")
//	templates.Render(w, r, "group_new", data)
package formutil

import (
	"html/template"
	"net/http"

	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
)

// Base contains common fields for form pages that can be embedded in form data structs.
type Base struct {
	viewdata.BaseVM
	Error       template.HTML
	FieldErrors map[string]string
}

// SetBase populates the common Base fields from the request context.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.BaseVM = viewdata.NewBaseVM(r, title, backDefault)
}

// SetError sets the error message on a Base struct. msg is treated as plain
// text and escaped.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}

// SetFieldError records a message for a single form field.
func (b *Base) SetFieldError(field, msg string) {
	if b.FieldErrors == nil {
		b.FieldErrors = make(map[string]string)
	}
	b.FieldErrors[field] = msg
}

// FieldError returns the message recorded for field, or "".
func (b Base) FieldError(field string) string {
	return b.FieldErrors[field]
}

// HasErrors reports whether any form-level or field-level error is set.
func (b Base) HasErrors() bool {
	return b.Error != "" || len(b.FieldErrors) > 0
}

// SetFieldErrors copies errs onto b. msg becomes the form-level error; when
// it is empty a generic prompt is used.
func (b *Base) SetFieldErrors(errs map[string]string, msg string) {
	for field, m := range errs {
		b.SetFieldError(field, m)
	}
	if msg == "" {
		msg = "Please correct the errors below."
	}
	b.SetError(msg)
}
