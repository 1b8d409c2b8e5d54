package filing

import (
	"errors"
	"fmt"
	"strings"
)

// FieldErrorKind categorizes a single field violation.
type FieldErrorKind string

const (
	// FieldRequired indicates a required field was absent or nil.
	FieldRequired FieldErrorKind = "REQUIRED_FIELD"

	// FieldType indicates a value whose runtime type disagrees with the
	// field's declared kind.
	FieldType FieldErrorKind = "FIELD_TYPE"

	// FieldImmutable indicates an attempted reassignment of an already-set
	// immutable field.
	FieldImmutable FieldErrorKind = "FIELD_IMMUTABLE"
)

// FieldError describes one violated field. Expected and Actual name types
// for FieldType violations; Current and Attempted carry the values for
// FieldImmutable violations.
type FieldError struct {
	Field     string
	Kind      FieldErrorKind
	Expected  string
	Actual    string
	Current   any
	Attempted any
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	switch e.Kind {
	case FieldRequired:
		return fmt.Sprintf("%s: required field %q is missing or nil", e.Kind, e.Field)
	case FieldType:
		return fmt.Sprintf("%s: field %q expected %s, got %s", e.Kind, e.Field, e.Expected, e.Actual)
	case FieldImmutable:
		return fmt.Sprintf("%s: field %q is immutable (current %v, attempted %v)", e.Kind, e.Field, e.Current, e.Attempted)
	default:
		return fmt.Sprintf("%s: field %q", e.Kind, e.Field)
	}
}

// Details returns the violation as a structured mapping for logs.
func (e *FieldError) Details() map[string]string {
	d := map[string]string{
		"field": e.Field,
		"kind":  string(e.Kind),
	}
	if e.Expected != "" {
		d["expected"] = e.Expected
	}
	if e.Actual != "" {
		d["actual"] = e.Actual
	}
	return d
}

// ValidationError aggregates every field violation found during one
// construction or assignment, not just the first.
type ValidationError struct {
	Violations []*FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "filing validation failed"
	}
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return "filing validation failed: " + strings.Join(msgs, "; ")
}

// Fields returns the names of every violated field, in declaration order.
func (e *ValidationError) Fields() []string {
	names := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		names[i] = v.Field
	}
	return names
}

// IsFieldError reports whether err carries a violation of the given kind
// for the given field. An empty field matches any field. Handles both bare
// FieldError values and ValidationError aggregates, wrapped or not.
func IsFieldError(err error, field string, kind FieldErrorKind) bool {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Kind == kind && (field == "" || fe.Field == field)
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		for _, v := range ve.Violations {
			if v.Kind == kind && (field == "" || v.Field == field) {
				return true
			}
		}
	}
	return false
}
