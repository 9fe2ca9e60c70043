package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Rejection kinds. Every client-facing validation failure matches exactly one
// of these through errors.Is.
var (
	// ErrMissingFields indicates one or more required fields were absent.
	ErrMissingFields = errors.New("missing required fields")

	// ErrInvalidFormat indicates a field is present but malformed.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidValue indicates a field is well-formed but out of range.
	ErrInvalidValue = errors.New("invalid value")

	// ErrReferentialViolation indicates a reference or uniqueness rule failed.
	ErrReferentialViolation = errors.New("referential violation")

	// ErrServerFault indicates the entity gateway itself failed. Never a client fault.
	ErrServerFault = errors.New("server fault")
)

// Specific reasons layered on top of the kinds above.
var (
	// ErrDuplicateISBN indicates another book already carries the ISBN.
	ErrDuplicateISBN = errors.New("duplicate isbn")

	// ErrAuthorNotFound indicates the requested author does not exist.
	ErrAuthorNotFound = errors.New("author not found")

	// ErrCategoryNotFound indicates the requested category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrBookNotFound indicates the requested book does not exist.
	ErrBookNotFound = errors.New("book not found")

	// ErrAuthorInUse indicates the author is still referenced by at least one book.
	ErrAuthorInUse = errors.New("author is referenced by books")

	// ErrCategoryInUse indicates the category is still referenced by at least one book.
	ErrCategoryInUse = errors.New("category is referenced by books")
)

// ValidationError is a rejection produced by the field validators or the
// constraint checker. Error returns a human readable message; Unwrap exposes
// the kind (and the specific reason when there is one) for errors.Is.
type ValidationError struct {
	Kind   error
	Reason error
	Fields []string
	Value  any
	msg    string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// Unwrap lets errors.Is match both the kind and the reason.
func (e *ValidationError) Unwrap() []error {
	if e.Reason != nil {
		return []error{e.Kind, e.Reason}
	}
	return []error{e.Kind}
}

// MissingFields builds a rejection listing every absent field in order.
func MissingFields(fields ...string) *ValidationError {
	return &ValidationError{
		Kind:   ErrMissingFields,
		Fields: fields,
		msg:    "Missing required fields: " + strings.Join(fields, ", "),
	}
}

// InvalidFormat builds a rejection for a malformed field.
func InvalidFormat(field string, value any, msg string) *ValidationError {
	return &ValidationError{
		Kind:   ErrInvalidFormat,
		Fields: []string{field},
		Value:  value,
		msg:    msg,
	}
}

// InvalidValue builds a rejection for a field outside its allowed range.
func InvalidValue(field string, value any, msg string) *ValidationError {
	return &ValidationError{
		Kind:   ErrInvalidValue,
		Fields: []string{field},
		Value:  value,
		msg:    msg,
	}
}

// ReferentialViolation builds a rejection for a failed reference or uniqueness rule.
// reason may be nil.
func ReferentialViolation(field string, value any, reason error, msg string) *ValidationError {
	return &ValidationError{
		Kind:   ErrReferentialViolation,
		Reason: reason,
		Fields: []string{field},
		Value:  value,
		msg:    msg,
	}
}

// ServerFault wraps a gateway error so it can never be mistaken for a client fault.
func ServerFault(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrServerFault, op, err)
}

// IsClientFault reports whether err is one of the four client rejection kinds.
func IsClientFault(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrReferentialViolation)
}

// KindOf returns a short label for err's rejection kind, used for metrics and logs.
func KindOf(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrMissingFields):
		return "missing_fields"
	case errors.Is(err, ErrInvalidFormat):
		return "invalid_format"
	case errors.Is(err, ErrInvalidValue):
		return "invalid_value"
	case errors.Is(err, ErrReferentialViolation):
		return "referential_violation"
	case errors.Is(err, ErrServerFault):
		return "server_fault"
	default:
		return "unknown"
	}
}
