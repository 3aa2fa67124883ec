// Package recipe loads recipe and build-class manifests and turns their
// phase bodies into phase implementations.
package recipe

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/ebuild/internal/domain/environment"
	"github.com/felixgeelhaar/ebuild/internal/domain/phase"
	"github.com/felixgeelhaar/ebuild/internal/validation"
)

// Format is a manifest encoding.
type Format string

// Supported manifest formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	}
	return "", false
}

// manifestRaw is the on-disk shape shared by recipes and build-classes.
type manifestRaw struct {
	Name    string            `yaml:"name" toml:"name"`
	EAPI    string            `yaml:"eapi" toml:"eapi"`
	IUse    []string          `yaml:"iuse" toml:"iuse"`
	Inherit []string          `yaml:"inherit" toml:"inherit"`
	Phases  map[string]string `yaml:"phases" toml:"phases"`
}

func decode(data []byte, format Format) (manifestRaw, error) {
	var raw manifestRaw
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	case FormatTOML:
		err = toml.Unmarshal(data, &raw)
	default:
		err = fmt.Errorf("unknown manifest format %q", format)
	}
	return raw, err
}

func parsePhases(raw map[string]string) (map[phase.Name]string, error) {
	out := make(map[phase.Name]string, len(raw))
	for key, body := range raw {
		name, ok := phase.ParseName(key)
		if !ok {
			return nil, fmt.Errorf("unknown phase %q", key)
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("phase %s defined twice", name.FuncName())
		}
		out[name] = body
	}
	return out, nil
}

// Recipe is the manifest of one package.
type Recipe struct {
	Name    string
	EAPI    string
	IUse    []string
	Inherit []string
	Phases  map[phase.Name]string
	Path    string
}

// ParseRecipe decodes a recipe manifest.
func ParseRecipe(data []byte, format Format) (*Recipe, error) {
	raw, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw.Name) == "" {
		return nil, fmt.Errorf("recipe must have a name")
	}
	if err := validation.ValidatePackageName(raw.Name); err != nil {
		return nil, err
	}
	for _, tok := range raw.IUse {
		if err := validation.ValidateUseToken(tok); err != nil {
			return nil, fmt.Errorf("iuse: %w", err)
		}
	}

	eapi := raw.EAPI
	if eapi == "" {
		eapi = environment.DefaultEAPI
	}
	if _, err := phase.ParseEAPI(eapi); err != nil {
		return nil, err
	}

	phases, err := parsePhases(raw.Phases)
	if err != nil {
		return nil, err
	}

	return &Recipe{
		Name:    raw.Name,
		EAPI:    eapi,
		IUse:    raw.IUse,
		Inherit: raw.Inherit,
		Phases:  phases,
	}, nil
}

// DefaultUseFlags returns the IUSE entries enabled by default ("+flag").
func (r *Recipe) DefaultUseFlags() []string {
	var out []string
	for _, f := range r.IUse {
		if name, ok := strings.CutPrefix(f, "+"); ok && name != "" {
			out = append(out, name)
		}
	}
	return out
}

// PhaseNames returns the phases the recipe defines, in pipeline order.
func (r *Recipe) PhaseNames() []phase.Name {
	return sortedNames(r.Phases)
}

// BuildClass is a reusable bundle of phase bodies.
type BuildClass struct {
	Name    string
	Inherit []string
	Phases  map[phase.Name]string
	Path    string
}

// ParseBuildClass decodes a build-class manifest. A missing name defaults to
// fallbackName.
func ParseBuildClass(data []byte, format Format, fallbackName string) (*BuildClass, error) {
	raw, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	phases, err := parsePhases(raw.Phases)
	if err != nil {
		return nil, err
	}
	name := raw.Name
	if name == "" {
		name = fallbackName
	}
	return &BuildClass{
		Name:    name,
		Inherit: raw.Inherit,
		Phases:  phases,
	}, nil
}

func sortedNames(m map[phase.Name]string) []phase.Name {
	order := make(map[phase.Name]int)
	for i, n := range phase.Names() {
		order[n] = i
	}
	out := make([]phase.Name, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i]] < order[out[j]] })
	return out
}
