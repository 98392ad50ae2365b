package utils

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorWithSuggestion wraps an error with a user-friendly suggestion.
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface.
func (e *ErrorWithSuggestion) Error() string {
	return fmt.Sprintf("%s\n\nSuggestion: %s", e.Err.Error(), e.Suggestion)
}

// GetSuggestion returns the suggestion text.
func (e *ErrorWithSuggestion) GetSuggestion() string {
	return e.Suggestion
}

// Unwrap returns the underlying error for error chain support.
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// WrapWithSuggestion wraps an existing error with a suggestion.
func WrapWithSuggestion(err error, suggestion string) error {
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns the suggestion carried anywhere in err's chain,
// or "" when there is none.
func GetSuggestion(err error) string {
	var sugg *ErrorWithSuggestion
	if errors.As(err, &sugg) {
		return sugg.Suggestion
	}
	return ""
}

// ErrUnknownBackendType returns an error for an unrecognized backend type.
func ErrUnknownBackendType(name string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("unknown backend type: %s", name),
		Suggestion: "Valid types: taskwarrior, jira, custom",
	}
}

// ErrUnknownView returns an error for an unrecognized view name.
func ErrUnknownView(name string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("unknown view: %s", name),
		Suggestion: "Valid views: kanban, table, list, markdown",
	}
}

// ErrInvalidSortKey returns an error for an unsupported table sort key.
func ErrInvalidSortKey(key string, valid []string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("invalid sort key: %s", key),
		Suggestion: fmt.Sprintf("Valid keys: %s", strings.Join(valid, ", ")),
	}
}

// ErrCredentialsNotFound returns an error when no token is stored for a
// backend.
func ErrCredentialsNotFound(backend string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("no credentials stored for %s", backend),
		Suggestion: fmt.Sprintf("Store a token with 'tw credentials set %s'", backend),
	}
}

// SuggestForBackendFailure returns a context-aware suggestion for a
// failed backend invocation, keyed on the failure reason.
func SuggestForBackendFailure(reason, command string) string {
	switch strings.ToLower(reason) {
	case "process-not-found":
		return fmt.Sprintf("Check that %q is installed and on your PATH", command)
	case "nonzero-exit":
		return "Run the backend command by hand to inspect its output"
	case "invalid-json":
		return "Make sure the backend emits JSON (check export_format in your config)"
	default:
		return "Check the backend configuration and try again"
	}
}
