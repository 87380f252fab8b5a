// Package form holds the shared pieces of draft handling: presence-only
// required-field checks and the validation error they produce.
package form

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError lists the required fields that were empty on submit.
type ValidationError struct {
	Fields []string `json:"fields"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Field pairs a field name with its draft value.
type Field struct {
	Name  string
	Value string
}

// Required returns a *ValidationError naming every blank field, or nil.
// The check is presence-only: no format validation is performed.
func Required(fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Fields: missing}
}

// ErrUnknownField is returned when a draft update names a field the draft
// does not have.
var ErrUnknownField = errors.New("unknown field")
