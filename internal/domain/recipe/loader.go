package recipe

import (
	"path/filepath"

	"github.com/felixgeelhaar/ebuild/internal/ports"
	"github.com/felixgeelhaar/ebuild/internal/validation"
)

var buildClassExts = []string{".yaml", ".yml", ".toml"}

// Loader reads manifests through a ports.FileSystem.
type Loader struct {
	fs        ports.FileSystem
	eclassDir string
}

// NewLoader creates a Loader resolving build-classes under eclassDir.
func NewLoader(fs ports.FileSystem, eclassDir string) *Loader {
	return &Loader{fs: fs, eclassDir: eclassDir}
}

// LoadRecipe loads the recipe at path.
func (l *Loader) LoadRecipe(path string) (*Recipe, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, newInvalidError(path, "recipe must be a .yaml, .yml or .toml file")
	}
	if !l.fs.Exists(path) {
		return nil, newNotFoundError(path)
	}
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, newParseError(path, err)
	}
	r, err := ParseRecipe(data, format)
	if err != nil {
		return nil, newParseError(path, err)
	}
	r.Path = path
	return r, nil
}

// LoadBuildClass loads <eclassDir>/<name>.{yaml,yml,toml}.
func (l *Loader) LoadBuildClass(name string) (*BuildClass, error) {
	if err := validation.ValidateBuildClassName(name); err != nil {
		return nil, &Error{
			Code:       ErrCodeInvalid,
			Message:    "invalid build class name",
			Path:       name,
			Suggestion: "Build class names are plain file names inside the eclass directory.",
			Underlying: err,
		}
	}
	for _, ext := range buildClassExts {
		path := filepath.Join(l.eclassDir, name+ext)
		if !l.fs.Exists(path) {
			continue
		}
		data, err := l.fs.ReadFile(path)
		if err != nil {
			return nil, newParseError(path, err)
		}
		format, _ := FormatFromPath(path)
		bc, err := ParseBuildClass(data, format, name)
		if err != nil {
			return nil, newParseError(path, err)
		}
		bc.Path = path
		return bc, nil
	}
	return nil, newBuildClassNotFoundError(name, l.eclassDir)
}

// LoadChain resolves the recipe's inherit list into the build-class chain.
// A class's own inherits come before it; each class appears once, at its
// first position.
func (l *Loader) LoadChain(r *Recipe) ([]*BuildClass, error) {
	var chain []*BuildClass
	seen := make(map[string]bool)
	var visit func(name string, stack []string) error
	visit = func(name string, stack []string) error {
		for _, s := range stack {
			if s == name {
				return newCircularInheritError(append(stack, name))
			}
		}
		if seen[name] {
			return nil
		}
		bc, err := l.LoadBuildClass(name)
		if err != nil {
			return err
		}
		stack = append(stack, name)
		for _, parent := range bc.Inherit {
			if err := visit(parent, stack); err != nil {
				return err
			}
		}
		seen[name] = true
		chain = append(chain, bc)
		return nil
	}

	for _, name := range r.Inherit {
		if err := visit(name, nil); err != nil {
			return nil, err
		}
	}
	return chain, nil
}
