// Package validation checks names that end up in file paths, shell
// environments and command lines before the engine uses them.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Common validation errors.
var (
	ErrEmptyInput         = errors.New("input cannot be empty")
	ErrInvalidPackageName = errors.New("invalid package name")
	ErrInvalidBuildClass  = errors.New("invalid build class name")
	ErrInvalidUseFlag     = errors.New("invalid USE flag")
	ErrPathTraversal      = errors.New("path traversal detected")
	ErrInvalidPath        = errors.New("invalid path")
)

// maxNameLength bounds every validated name.
const maxNameLength = 256

var (
	// packageNameRegex matches "category/name-version" or a bare
	// "name-version". Examples: "app-misc/hello-2.10", "dev-libs/libxml2".
	packageNameRegex = regexp.MustCompile(`^([A-Za-z0-9_][A-Za-z0-9+_.-]*/)?[A-Za-z0-9_][A-Za-z0-9+_.-]*$`)

	// buildClassRegex matches build-class names. Examples: "toolchain",
	// "autotools", "python-r1".
	buildClassRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

	// useFlagRegex matches a USE flag name. Examples: "nls", "python_targets_python3_12".
	useFlagRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9+_@-]*$`)
)

// ValidatePackageName validates a recipe package name. The name becomes part
// of the build root path, so traversal segments are rejected.
func ValidatePackageName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name too long (max %d characters)", ErrInvalidPackageName, maxNameLength)
	}
	if !packageNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidPackageName, name)
	}
	if containsPathTraversal(name) {
		return fmt.Errorf("%w: %q contains traversal sequence", ErrPathTraversal, name)
	}
	return nil
}

// ValidateBuildClassName validates an inherited build-class name. The name
// is joined onto the eclass directory.
func ValidateBuildClassName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name too long (max %d characters)", ErrInvalidBuildClass, maxNameLength)
	}
	if !buildClassRegex.MatchString(name) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidBuildClass, name)
	}
	return nil
}

// ValidateUseFlag validates a bare USE flag name.
func ValidateUseFlag(flag string) error {
	if flag == "" {
		return ErrEmptyInput
	}
	if !useFlagRegex.MatchString(flag) {
		return fmt.Errorf("%w: %q", ErrInvalidUseFlag, flag)
	}
	return nil
}

// ValidateUseToken validates a USE token as written in make.conf, IUSE or on
// the command line: an optional "+" or "-" prefix and a flag name, or "-*".
func ValidateUseToken(token string) error {
	if token == "-*" {
		return nil
	}
	flag := token
	if strings.HasPrefix(flag, "+") || strings.HasPrefix(flag, "-") {
		flag = flag[1:]
	}
	if flag == "" {
		return fmt.Errorf("%w: %q", ErrInvalidUseFlag, token)
	}
	return ValidateUseFlag(flag)
}

// ValidatePath validates a file path and rejects traversal sequences.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyInput
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: path contains null byte", ErrInvalidPath)
	}
	if containsPathTraversal(path) {
		return fmt.Errorf("%w: %q contains traversal sequence", ErrPathTraversal, path)
	}
	return nil
}

// ValidatePathWithBase validates that path stays within basePath.
func ValidatePathWithBase(path, basePath string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}

	cleanPath := filepath.Clean(path)
	cleanBase := filepath.Clean(basePath)
	if cleanPath != cleanBase && !strings.HasPrefix(cleanPath, cleanBase+string(filepath.Separator)) {
		return fmt.Errorf("%w: path %q escapes base directory %q", ErrPathTraversal, path, basePath)
	}
	return nil
}

// containsPathTraversal checks for ".." segments, raw or URL-encoded.
func containsPathTraversal(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == ".." {
			return true
		}
	}
	lower := strings.ToLower(path)
	return strings.Contains(lower, "%2e%2e")
}
