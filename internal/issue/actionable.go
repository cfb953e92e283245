// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

// verboseHint is appended by Format when a catalog entry is linked but not shown.
const verboseHint = "Run with --verbose for troubleshooting steps"

type (
	// ActionableError is a user-facing error: what failed, on which resource,
	// and what to try next. Build one with ErrorContext:
	//
	//	return issue.NewErrorContext().
	//		WithOperation("load registry").
	//		WithResource(path).
	//		WithSuggestion("Run 'utcs registry export' to see a valid registry").
	//		WithIssue(issue.RegistryParseErrorId).
	//		Wrap(err).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "scan files".
		Operation string
		// Resource is the file, pattern, or value involved. Optional.
		Resource string
		// Suggestions are printed as bullets under the message. Optional.
		Suggestions []string
		// Cause is the wrapped error. Optional.
		Cause error
		// Issue links a catalog entry with longer guidance. Zero means none.
		Issue Id
	}

	// ErrorContext accumulates the fields of an ActionableError.
	// The zero value is ready to use; NewErrorContext exists for chaining.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
		issue       Id
	}
)

// NewErrorContext creates a new ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error renders "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause error for use with errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error for a terminal.
//
//	failed to <operation>: <resource>: <cause>
//
//	  • <suggestion>
//
// Non-verbose output of an error linked to the catalog ends with a hint to
// rerun with --verbose. Verbose output lists the cause chain instead, one
// unwrapped error per line.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, s := range e.Suggestions {
			msg.WriteString("\n  • " + s)
		}
	}

	switch {
	case verbose && e.Cause != nil:
		msg.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			depth++
		}
	case !verbose && e.CatalogEntry() != nil:
		msg.WriteString("\n\n" + verboseHint)
	}

	return msg.String()
}

// HasSuggestions returns true if the error has any suggestions.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// CatalogEntry returns the linked catalog issue, or nil if none is linked.
func (e *ActionableError) CatalogEntry() *Issue {
	if e.Issue == 0 {
		return nil
	}
	return Get(e.Issue)
}

// WithOperation sets the operation, a verb phrase like "write JUnit report".
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the file, pattern, or value involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends one suggestion.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// WithSuggestions appends several suggestions in order.
func (c *ErrorContext) WithSuggestions(sugs ...string) *ErrorContext {
	c.suggestions = append(c.suggestions, sugs...)
	return c
}

// WithIssue links the error to a catalog entry.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.issue = id
	return c
}

// Wrap sets the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build returns the ActionableError, or nil when no operation was set.
// The suggestion slice is copied so the context can be reused.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: append([]string(nil), c.suggestions...),
		Cause:       c.cause,
		Issue:       c.issue,
	}
}

// BuildError is Build typed as error, so a missing operation yields a
// true nil interface rather than a typed nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
