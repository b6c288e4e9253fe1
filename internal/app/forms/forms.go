// Package forms holds the draft state of the create forms. A draft keeps
// exactly what the user typed; Parse turns it into a typed API request or
// reports per-field errors, so malformed numbers never reach the API.
package forms

import (
	"errors"
	"strings"

	"github.com/wakaladigital/wakala/internal/app/apiclient"
	"github.com/wakaladigital/wakala/internal/app/system/inputval"
)

// Errors maps form input names to a message. Empty means the draft parsed.
type Errors map[string]string

// Any reports whether e holds at least one message.
func (e Errors) Any() bool { return len(e) > 0 }

func fromResult(res *inputval.Result) Errors {
	if !res.HasErrors() {
		return nil
	}
	return Errors(res.ByField())
}

// ServerErrors maps a rejected submission onto the form. Field messages from
// the API are keyed by the same names the forms use; messages that belong to
// no field are joined into the returned summary. ok is false when err is not
// a validation rejection.
func ServerErrors(err error) (fields Errors, summary string, ok bool) {
	var ve *apiclient.ValidationError
	if !errors.As(err, &ve) {
		return nil, "", false
	}
	fields = make(Errors, len(ve.Fields))
	for _, name := range ve.FieldNames() {
		fields[name] = ve.First(name)
	}
	return fields, strings.Join(ve.NonField, " "), true
}

func clean(s string) string { return strings.TrimSpace(s) }

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
