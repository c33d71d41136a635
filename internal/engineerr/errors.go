package engineerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies the errors the engine can raise at setup time.
// Per-bar conditions (warm-up, zero range) never produce errors.
type Kind string

const (
	KindSchemaInvalid    Kind = "SCHEMA_INVALID"
	KindDuplicateAlias   Kind = "DUPLICATE_ALIAS"
	KindBadTimeline      Kind = "BAD_TIMELINE"
	KindUnknownIndicator Kind = "UNKNOWN_INDICATOR"
	KindNumericDomain    Kind = "NUMERIC_DOMAIN"
)

// Error is a categorized engine error with the field path that caused it.
type Error struct {
	Kind       Kind
	Field      string
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Field != "" {
		if e.Underlying != nil {
			return fmt.Sprintf("[%s] %s: %s: %v", e.Kind, e.Field, e.Message, e.Underlying)
		}
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Field, e.Message)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *Error) Unwrap() error {
	return e.Underlying
}

// New creates a new categorized engine error.
func New(kind Kind, field, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with an engine error category.
func Wrap(err error, kind Kind, field, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:       kind,
		Field:      field,
		Message:    message,
		Underlying: err,
	}
}

// IsKind reports whether err (or anything it wraps) carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// List aggregates validation errors so a caller sees every failing field
// path in one pass.
type List struct {
	Errors []*Error
}

// Add appends an error to the list. Nil errors are ignored.
func (l *List) Add(err *Error) {
	if err != nil {
		l.Errors = append(l.Errors, err)
	}
}

// Addf creates and appends an error in one step.
func (l *List) Addf(kind Kind, field, format string, args ...interface{}) {
	l.Add(New(kind, field, format, args...))
}

// Empty reports whether the list holds no errors.
func (l *List) Empty() bool {
	return len(l.Errors) == 0
}

// Err returns the list as an error, or nil when empty.
func (l *List) Err() error {
	if l.Empty() {
		return nil
	}
	return l
}

// Error implements the error interface
func (l *List) Error() string {
	msgs := make([]string, len(l.Errors))
	for i, e := range l.Errors {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}
