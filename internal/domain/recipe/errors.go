package recipe

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for recipe loading.
const (
	ErrCodeNotFound           = "RECIPE_NOT_FOUND"
	ErrCodeParse              = "RECIPE_PARSE"
	ErrCodeInvalid            = "RECIPE_INVALID"
	ErrCodeBuildClassNotFound = "BUILD_CLASS_NOT_FOUND"
	ErrCodeCircularInherit    = "CIRCULAR_INHERIT"
)

// Sentinels for errors.Is matching by code.
var (
	ErrNotFound           = &Error{Code: ErrCodeNotFound}
	ErrParse              = &Error{Code: ErrCodeParse}
	ErrInvalid            = &Error{Code: ErrCodeInvalid}
	ErrBuildClassNotFound = &Error{Code: ErrCodeBuildClassNotFound}
	ErrCircularInherit    = &Error{Code: ErrCodeCircularInherit}
)

// Error is a recipe loading error with an actionable suggestion.
type Error struct {
	Code       string
	Message    string
	Path       string
	Suggestion string
	Underlying error
}

// Error returns the formatted error message.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Path != "" {
		fmt.Fprintf(&b, " (at %s)", e.Path)
	}
	if e.Underlying != nil {
		fmt.Fprintf(&b, ": %v", e.Underlying)
	}
	return b.String()
}

// Unwrap returns the underlying error for error chain support.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is supports errors.Is() for comparing error codes.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Format returns a fully formatted error with all details.
func (e *Error) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Path != "" {
		fmt.Fprintf(&b, "\n  Location: %s", e.Path)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  Suggestion: %s", e.Suggestion)
	}
	if e.Underlying != nil {
		fmt.Fprintf(&b, "\n  Cause: %s", e.Underlying.Error())
	}
	return b.String()
}

func newNotFoundError(path string) *Error {
	return &Error{
		Code:       ErrCodeNotFound,
		Message:    "recipe not found",
		Path:       path,
		Suggestion: "Pass the path to a .yaml or .toml recipe manifest.",
	}
}

func newParseError(path string, err error) *Error {
	return &Error{
		Code:       ErrCodeParse,
		Message:    "failed to parse manifest",
		Path:       path,
		Suggestion: "Check the manifest for syntax errors.",
		Underlying: err,
	}
}

func newInvalidError(path, message string) *Error {
	return &Error{
		Code:    ErrCodeInvalid,
		Message: message,
		Path:    path,
	}
}

func newBuildClassNotFoundError(name, dir string) *Error {
	return &Error{
		Code:       ErrCodeBuildClassNotFound,
		Message:    fmt.Sprintf("build-class %q not found", name),
		Path:       dir,
		Suggestion: fmt.Sprintf("Create %s.yaml or %s.toml in the eclass directory.", name, name),
	}
}

func newCircularInheritError(chain []string) *Error {
	return &Error{
		Code:       ErrCodeCircularInherit,
		Message:    fmt.Sprintf("circular inherit: %s", strings.Join(chain, " -> ")),
		Suggestion: "Remove one of the inherit entries to break the cycle.",
	}
}
