// Package schema describes the declarative input/output shapes nodes use to
// validate values and expose their field layout to tooling.
package schema

import "fmt"

// FieldType enumerates the kinds of values a FieldDescriptor can describe.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeEnum    FieldType = "enum"
	TypeArray   FieldType = "array"
	TypeObject  FieldType = "object"
	TypeUnknown FieldType = "unknown"
)

// FieldDescriptor is one entry of a schema's introspected field list.
type FieldDescriptor struct {
	Name         string
	Type         FieldType
	Required     bool
	Description  string
	DefaultValue any
	EnumValues   []string
	Children     []FieldDescriptor
}

// ValidationError reports a single field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every failure found during one Validate call.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("%s (and %d more validation errors)", e[0].Error(), len(e)-1)
}

// Schema validates a value and can describe its own field layout.
type Schema interface {
	// Validate normalizes value, applying defaults and rejecting the
	// wrong shape. Failures are distinct from executor failures.
	Validate(value any) (any, error)

	// Introspect returns an ordered field descriptor list. A non-object
	// top-level schema returns an empty list.
	Introspect() []FieldDescriptor
}
