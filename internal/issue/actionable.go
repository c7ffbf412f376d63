// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is an error with context for user-facing messages:
	// what operation failed, which resource was involved, and what the
	// user can do about it.
	//
	// Use the ErrorContext builder for construction:
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("load module descriptor").
	//		WithResource("mods/better_bees/info.txt").
	//		WithSuggestion("Check the [ID:...] line").
	//		Wrap(parseErr).
	//		Build()
	ActionableError struct {
		// Operation describes what was being attempted, as a verb
		// phrase ("resolve load order", "export store").
		Operation string

		// Resource identifies the file, module, or object involved
		// (optional).
		Resource string

		// Suggestions are hints on how to fix the issue (optional).
		Suggestions []string

		// Code ties the failure to a catalog entry when one applies
		// (optional).
		Code Code

		// Cause is the underlying error (optional).
		Cause error
	}

	// ErrorContext builds ActionableError instances incrementally. A
	// context can be prepared up front and completed where the error
	// actually surfaces.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		code        Code
		cause       error
	}
)

// NewErrorContext creates an empty ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WrapWithContext wraps an error with operation and resource context.
func WrapWithContext(err error, operation, resource string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{
		Operation: operation,
		Resource:  resource,
		Cause:     err,
	}
}

// Error implements the error interface. The message stays on one line for
// default (non-verbose) output.
func (e *ActionableError) Error() string {
	parts := make([]string, 0, 3)
	parts = append(parts, "failed to "+e.Operation)
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format returns the display message. Non-verbose output is the one-line
// message plus suggestion bullets; verbose output appends the full error
// chain and the catalog code when one is set.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder

	msg.WriteString(e.Error())

	for _, suggestion := range e.Suggestions {
		msg.WriteString("\n  • ")
		msg.WriteString(suggestion)
	}

	if verbose {
		if e.Code != "" {
			fmt.Fprintf(&msg, "\n\nCatalog code: %s (see 'rawdex issues %s')", e.Code, e.Code)
		}
		if e.Cause != nil {
			msg.WriteString("\n\nError chain:")
			err := e.Cause
			depth := 1
			for err != nil {
				fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
				err = errors.Unwrap(err)
				depth++
			}
		}
	}

	return msg.String()
}

// WithOperation sets the operation being performed.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the resource involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion adds one fix hint. Call repeatedly for several.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// WithCode ties the error to a catalog entry.
func (c *ErrorContext) WithCode(code Code) *ErrorContext {
	c.code = code
	return c
}

// Wrap records the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build creates the ActionableError. The operation is required; building
// without one returns nil.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}

	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Code:        c.code,
		Cause:       c.cause,
	}
}
