package errors

import (
	"fmt"
	"strings"

	"lipidhq/fragrules/pkg/rules/ast"
)

// ErrorType categorizes a failure.
type ErrorType string

const (
	ErrorTypeRules ErrorType = "rules" // any syntactic or semantic rule violation
	ErrorTypeIO    ErrorType = "io"    // unreadable input or missing mandatory section
)

// Error is a rule-file failure with its location, optional source context and
// an optional suggestion.
type Error struct {
	Type       ErrorType    // Category of error
	Message    string       // Error message
	Location   ast.Location // Source file and line
	Context    string       // Surrounding lines
	Suggestion string       // Suggested fix (optional)
	Err        error        // Underlying cause (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Type, e.Message))
	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf(" (line %d)", e.Location.Line))
	}
	sb.WriteString("\n")

	if e.Location.File != "" {
		sb.WriteString(fmt.Sprintf("  --> %s\n", e.Location.String()))
	}

	if e.Context != "" {
		sb.WriteString("  |\n")
		sb.WriteString(e.Context)
		sb.WriteString("  |\n")
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", e.Suggestion))
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Line returns the offending line number, or 0.
func (e *Error) Line() int {
	return e.Location.Line
}

// Rules creates a rules violation at the given location.
func Rules(loc ast.Location, format string, args ...any) *Error {
	return &Error{
		Type:     ErrorTypeRules,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	}
}

// IO creates an I/O error for the given file.
func IO(file string, err error, format string, args ...any) *Error {
	return &Error{
		Type:     ErrorTypeIO,
		Message:  fmt.Sprintf(format, args...),
		Location: ast.Location{File: file},
		Err:      err,
	}
}

// WithSuggestion sets the suggestion and returns the error.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// Wrap records err as the cause and returns the error.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// ErrorList collects the failures of a batch of independent files. A single
// parse never accumulates errors; it stops at the first one.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError appends err, converting foreign errors to rules errors for file.
func (el *ErrorList) AddError(file string, err error) {
	if e, ok := As(err); ok {
		el.Add(e)
		return
	}
	el.Add(&Error{
		Type:     ErrorTypeRules,
		Message:  err.Error(),
		Location: ast.Location{File: file},
		Err:      err,
	})
}

// HasErrors returns true if the error list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d error(s):\n\n", el.Count()))

	for i, err := range el.Errors {
		sb.WriteString(fmt.Sprintf("Error %d:\n", i+1))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToError returns nil if the error list is empty, otherwise returns the error list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByType returns all errors of the given type.
func (el *ErrorList) ByType(errType ErrorType) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Type == errType {
			result = append(result, err)
		}
	}
	return result
}
