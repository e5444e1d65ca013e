// Package validation collects structured errors from option and
// configuration checks so every problem is reported at once.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Error is one rejected option.
type Error struct {
	// Field names the option, e.g. "min_decimal_places" or "field.debounce".
	Field   string
	Message string
	// Err is the sentinel callers match with errors.Is.
	Err error
}

func (ve *Error) Error() string {
	if ve.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ve.Field, ve.Message, ve.Err)
	}
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

func (ve *Error) Unwrap() error {
	return ve.Err
}

// Errors is a list of failures reported together.
type Errors []error

func (ve Errors) Error() string {
	switch len(ve) {
	case 0:
		return "no validation errors"
	case 1:
		return ve[0].Error()
	}
	msgs := make([]string, len(ve))
	for i, err := range ve {
		msgs[i] = "- " + err.Error()
	}
	return fmt.Sprintf("%d validation errors:\n%s", len(ve), strings.Join(msgs, "\n"))
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (ve Errors) Unwrap() []error {
	return ve
}

// Result accumulates failures from one Validate call.
type Result struct {
	Errors []error
}

// NewResult returns an empty result.
func NewResult() *Result {
	return &Result{}
}

// AddError records err. Nested Errors are flattened.
func (r *Result) AddError(err error) {
	if err == nil {
		return
	}
	var nested Errors
	if errors.As(err, &nested) {
		r.Errors = append(r.Errors, nested...)
		return
	}
	r.Errors = append(r.Errors, err)
}

// Fail records a failure of field wrapping cause.
func (r *Result) Fail(field, message string, cause error) {
	r.AddError(&Error{Field: field, Message: message, Err: cause})
}

// HasErrors reports whether anything failed.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Error returns nil, the single failure, or all failures as Errors.
func (r *Result) Error() error {
	switch len(r.Errors) {
	case 0:
		return nil
	case 1:
		return r.Errors[0]
	}
	return Errors(r.Errors)
}
