package phase

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for phase resolution and execution.
const (
	ErrCodeMissingPhase        = "MISSING_PHASE"
	ErrCodeVersionIncompatible = "VERSION_INCOMPATIBLE_PHASE"
	ErrCodeExecutionFailed     = "PHASE_EXECUTION_FAILED"
	ErrCodeReadOnlyFilesystem  = "READ_ONLY_FILESYSTEM"
	ErrCodeUnsupportedEAPI     = "UNSUPPORTED_EAPI"
)

// Sentinels for errors.Is matching by code.
var (
	ErrMissingPhase        = &Error{Code: ErrCodeMissingPhase}
	ErrVersionIncompatible = &Error{Code: ErrCodeVersionIncompatible}
	ErrExecutionFailed     = &Error{Code: ErrCodeExecutionFailed}
	ErrReadOnlyFilesystem  = &Error{Code: ErrCodeReadOnlyFilesystem}
	ErrUnsupportedEAPI     = &Error{Code: ErrCodeUnsupportedEAPI}
)

// Error is a coded phase error with an actionable suggestion.
type Error struct {
	Code       string
	Message    string
	Phase      Name
	EAPI       string
	Mounts     []string // read-only mount points, for READ_ONLY_FILESYSTEM
	Suggestion string
	Underlying error
}

// Error returns the formatted error message.
func (e *Error) Error() string {
	msg := e.Message
	if len(e.Mounts) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Mounts, ", "))
	}
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Underlying)
	}
	if e.Phase != "" {
		return fmt.Sprintf("phase %q: %s", e.Phase, msg)
	}
	return msg
}

// Unwrap returns the underlying error for error chain support.
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

// Format returns a fully formatted error with all details.
func (e *Error) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Phase != "" {
		fmt.Fprintf(&b, "\n  Phase: %s", e.Phase.FuncName())
	}
	if e.EAPI != "" {
		fmt.Fprintf(&b, "\n  EAPI: %s", e.EAPI)
	}
	for _, m := range e.Mounts {
		fmt.Fprintf(&b, "\n  Mount: %s", m)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  Suggestion: %s", e.Suggestion)
	}
	if e.Underlying != nil {
		fmt.Fprintf(&b, "\n  Cause: %s", e.Underlying.Error())
	}

	return b.String()
}

// NewMissingPhaseError creates an error for an unimplemented mandatory phase.
func NewMissingPhaseError(name Name) *Error {
	return &Error{
		Code:       ErrCodeMissingPhase,
		Message:    "no implementation for mandatory phase",
		Phase:      name,
		Suggestion: fmt.Sprintf("Define %s in the recipe or inherit a build-class that provides it.", name.FuncName()),
	}
}

// NewVersionIncompatibleError creates an error for a mandatory phase that
// does not exist at the active EAPI.
func NewVersionIncompatibleError(name Name, eapi string) *Error {
	return &Error{
		Code:       ErrCodeVersionIncompatible,
		Message:    "mandatory phase is not valid for this EAPI",
		Phase:      name,
		EAPI:       eapi,
		Suggestion: "Raise the recipe's EAPI or drop the phase from the pipeline.",
	}
}

// NewExecutionFailedError creates an error for a phase body that failed.
func NewExecutionFailedError(name Name, err error) *Error {
	return &Error{
		Code:       ErrCodeExecutionFailed,
		Message:    "phase failed",
		Phase:      name,
		Suggestion: "Inspect the phase output above; the build directory is kept for debugging.",
		Underlying: err,
	}
}

// NewReadOnlyFilesystemError creates an error for a mutating phase whose
// target directories sit on read-only storage.
func NewReadOnlyFilesystemError(name Name, mounts []string) *Error {
	return &Error{
		Code:       ErrCodeReadOnlyFilesystem,
		Message:    "target directories are on read-only storage",
		Phase:      name,
		Mounts:     append([]string(nil), mounts...),
		Suggestion: "Remount the listed filesystems read-write or choose a build root on writable storage.",
	}
}

// NewReadOnlyRootError creates an error for a build root that could not be
// created because it sits on read-only storage.
func NewReadOnlyRootError(root string, mounts []string, err error) *Error {
	return &Error{
		Code:       ErrCodeReadOnlyFilesystem,
		Message:    fmt.Sprintf("build root %s is on read-only storage", root),
		Mounts:     append([]string(nil), mounts...),
		Suggestion: "Remount the listed filesystems read-write or set PORTAGE_TMPDIR to writable storage.",
		Underlying: err,
	}
}

// NewUnsupportedEAPIError creates an error for an unknown EAPI tag.
func NewUnsupportedEAPIError(eapi string) *Error {
	return &Error{
		Code:       ErrCodeUnsupportedEAPI,
		Message:    fmt.Sprintf("unsupported EAPI %q", eapi),
		EAPI:       eapi,
		Suggestion: fmt.Sprintf("Use one of EAPI %s.", strings.Join(SupportedEAPIs(), ", ")),
	}
}
