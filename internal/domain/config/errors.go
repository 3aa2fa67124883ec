package config

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorization.
const (
	ErrCodeConfigNotFound = "CONFIG_NOT_FOUND"
	ErrCodeConfigParse    = "CONFIG_PARSE"
	ErrCodeConfigInvalid  = "CONFIG_INVALID"
)

// Sentinels for errors.Is matching by code.
var (
	ErrConfigNotFound = &UserError{Code: ErrCodeConfigNotFound}
	ErrConfigParse    = &UserError{Code: ErrCodeConfigParse}
	ErrConfigInvalid  = &UserError{Code: ErrCodeConfigInvalid}
)

// UserError represents a user-friendly error with actionable suggestions.
type UserError struct {
	Code       string // Error code for categorization (e.g., "CONFIG_NOT_FOUND")
	Message    string // User-friendly error message
	Context    string // File path or key
	Suggestion string // Actionable suggestion to fix the error
	Underlying error  // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *UserError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Context != "" {
		fmt.Fprintf(&b, " (at %s)", e.Context)
	}
	if e.Underlying != nil {
		fmt.Fprintf(&b, ": %v", e.Underlying)
	}
	return b.String()
}

// Unwrap returns the underlying error for error chain support.
func (e *UserError) Unwrap() error {
	return e.Underlying
}

// Is supports errors.Is() for comparing error codes.
func (e *UserError) Is(target error) bool {
	var t *UserError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Format returns a fully formatted error with all details.
func (e *UserError) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Context != "" {
		fmt.Fprintf(&b, "\n  Location: %s", e.Context)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  Suggestion: %s", e.Suggestion)
	}
	return b.String()
}

// NewConfigNotFoundError creates an error for a missing make.conf.
func NewConfigNotFoundError(path string) *UserError {
	return &UserError{
		Code:       ErrCodeConfigNotFound,
		Message:    "configuration file not found",
		Context:    path,
		Suggestion: "Create the file or drop the --make-conf flag to use defaults.",
	}
}

// NewConfigParseError creates an error for an unreadable make.conf.
func NewConfigParseError(path string, err error) *UserError {
	return &UserError{
		Code:       ErrCodeConfigParse,
		Message:    "failed to parse configuration file",
		Context:    path,
		Suggestion: "make.conf must contain KEY=\"value\" lines.",
		Underlying: err,
	}
}

// NewConfigInvalidError creates an error for an invalid setting.
func NewConfigInvalidError(key, message string) *UserError {
	return &UserError{
		Code:    ErrCodeConfigInvalid,
		Message: message,
		Context: key,
	}
}
