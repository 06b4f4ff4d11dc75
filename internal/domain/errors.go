// Package domain provides canonical error types for the request pipeline.
package domain

import (
	"errors"
	"fmt"
)

// Kind is the discriminant for pipeline errors. Classification matches on
// the kind, never on runtime type identity, so callers can define their own
// kinds and map them to status codes per route.
type Kind string

const (
	// KindSchemaValidation indicates the request body failed schema validation.
	KindSchemaValidation Kind = "schema_validation"

	// KindTimeout indicates the step chain exceeded its time budget.
	KindTimeout Kind = "timeout"

	// KindPayloadTooLarge indicates a serialized response exceeded the size cap.
	KindPayloadTooLarge Kind = "payload_too_large"
)

// FieldError is a single field-level schema violation.
type FieldError struct {
	// Key is the dot-joined instance path of the violating field, or a
	// fallback name when the violation has no instance path.
	Key string `json:"key"`

	// Message is the human-readable violation message.
	Message string `json:"message"`
}

// Error is a pipeline error carrying a kind discriminant.
type Error struct {
	// Kind is the category of error used for status classification.
	Kind Kind `json:"kind"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Fields holds field-level violations for schema validation errors.
	Fields []FieldError `json:"fields,omitempty"`

	// Err is an optional wrapped cause.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// Wrap attaches a kind and message to an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// KindOf extracts the kind from an error. Returns the empty kind for plain
// errors, which classify to the 500 fallback.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Message returns the user-facing message for an error: the tagged message
// when present, the raw error text otherwise.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// FieldsOf returns the field-level violations attached to an error, or nil.
func FieldsOf(err error) []FieldError {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// Convenience constructors for the built-in kinds

// ErrSchemaValidation creates a schema validation error carrying every
// collected field-level violation.
func ErrSchemaValidation(fields []FieldError) *Error {
	return &Error{
		Kind:    KindSchemaValidation,
		Message: "Schema validation failed",
		Fields:  fields,
	}
}

// ErrTimeout creates a request timeout error.
func ErrTimeout() *Error {
	return New(KindTimeout, "Request timeout")
}

// ErrPayloadTooLarge creates an oversized response error.
func ErrPayloadTooLarge() *Error {
	return New(KindPayloadTooLarge, "Response payload too large")
}
