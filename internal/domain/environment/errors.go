package environment

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCodeConstruction categorizes failures to build or initialize a Context.
const ErrCodeConstruction = "ENVIRONMENT_CONSTRUCTION"

// ErrConstruction matches any construction error via errors.Is.
var ErrConstruction = &Error{Code: ErrCodeConstruction}

// ErrInvalidVariableName is returned by Set for keys that are not shell
// identifiers.
var ErrInvalidVariableName = errors.New("variable name must match [A-Za-z_][A-Za-z0-9_]*")

// Error reports a Context that could not be constructed or initialized.
type Error struct {
	Code       string
	Message    string
	Path       string
	Suggestion string
	Underlying error
}

// Error returns the formatted error message.
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Underlying)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is matches errors with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Format returns a multi-line description for CLI output.
func (e *Error) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Path != "" {
		fmt.Fprintf(&b, "\n  Path: %s", e.Path)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  Suggestion: %s", e.Suggestion)
	}
	if e.Underlying != nil {
		fmt.Fprintf(&b, "\n  Cause: %s", e.Underlying.Error())
	}
	return b.String()
}

func newInvalidRootError(root string) *Error {
	return &Error{
		Code:       ErrCodeConstruction,
		Message:    "build root must be a non-empty absolute path",
		Path:       root,
		Suggestion: "Pass an absolute directory such as /var/tmp/portage/app-misc/hello-2.10.",
	}
}

func newCreateDirError(path string, err error) *Error {
	return &Error{
		Code:       ErrCodeConstruction,
		Message:    "failed to create build directory",
		Path:       path,
		Suggestion: "Check that the build root is writable and has free space.",
		Underlying: err,
	}
}
