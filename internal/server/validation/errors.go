package validation

import (
	"sort"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
)

// SchemaField is the pseudo-field used for errors about the payload as a whole.
const SchemaField = "_schema"

// Error collects every field-level problem found in one payload.
// It matches common.ErrorValidation via errors.Is.
type Error struct {
	Fields map[string][]string
}

// NewError returns an Error holding a single message for field.
func NewError(field, msg string) *Error {
	e := &Error{}
	e.Add(field, msg)
	return e
}

func (e *Error) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *Error) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

func (e *Error) Empty() bool {
	return len(e.Fields) == 0
}

// Error renders fields in name order: "email: Not a valid email address.; name: ...".
func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(common.ErrorValidation.Error())
	for i, name := range names {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields[name], " "))
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return common.ErrorValidation
}
