package resource

import (
	"fmt"
	"net/http"
)

// Validation messages reported to clients.
const (
	MsgEmpty             = "Invalid object data; empty."
	MsgInvalidDefinition = "Invalid resource definition data."
	MsgNoAttributes      = "Invalid object type; no attributes."
	MsgInvalidValueType  = "Invalid object data; invalid value type."
	MsgNoKnownAttribute  = "Invalid object data; no known attribute included."
)

// ValidationError is returned when a payload does not satisfy the schema.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for this error.
func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *ValidationError) Hint() string {
	if e.Field != "" {
		return fmt.Sprintf("Check the value of field %q in your request body.", e.Field)
	}
	return "Check your request body against the resource type definition."
}

// Names are quoted verbatim in messages, without escaping.
func missingField(name string) *ValidationError {
	return &ValidationError{
		Message: "Invalid object data; missing required field \"" + name + "\".",
		Field:   name,
	}
}

// UnknownTypeError is returned when no schema is registered for a type.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return "Unknown resource type \"" + e.Type + "\""
}

// StatusCode returns the HTTP status code for this error.
func (e *UnknownTypeError) StatusCode() int {
	return http.StatusNotFound
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *UnknownTypeError) Hint() string {
	return fmt.Sprintf("Register the type first with PUT /resource/%s.", e.Type)
}

// NotFoundError is returned when no object is stored under an href.
type NotFoundError struct {
	Href string
}

func (e *NotFoundError) Error() string {
	return "Resource \"" + e.Href + "\" does not exist"
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *NotFoundError) Hint() string {
	ref := ExplodeHref(e.Href)
	return fmt.Sprintf("List existing objects with GET /%s.", ref.Type)
}
