package testutil

import (
	"fmt"
	"sort"
	"strings"
)

// TestRecipe is a recipe or build-class manifest for tests. A manifest
// without a name is a build class.
type TestRecipe struct {
	Name    string
	EAPI    string
	IUse    []string
	Inherit []string
	Phases  map[string]string
}

// RecipeBuilder builds test manifests.
type RecipeBuilder struct {
	recipe TestRecipe
}

// NewRecipeBuilder creates a builder for the package name at EAPI 8.
func NewRecipeBuilder(name string) *RecipeBuilder {
	return &RecipeBuilder{
		recipe: TestRecipe{
			Name:   name,
			EAPI:   "8",
			Phases: make(map[string]string),
		},
	}
}

// NewBuildClassBuilder creates a builder for a build-class manifest.
func NewBuildClassBuilder() *RecipeBuilder {
	return &RecipeBuilder{recipe: TestRecipe{Phases: make(map[string]string)}}
}

// WithEAPI sets the EAPI. An empty value leaves it out of the manifest.
func (b *RecipeBuilder) WithEAPI(eapi string) *RecipeBuilder {
	b.recipe.EAPI = eapi
	return b
}

// WithIUse sets the IUSE entries, e.g. "+nls".
func (b *RecipeBuilder) WithIUse(flags ...string) *RecipeBuilder {
	b.recipe.IUse = flags
	return b
}

// WithInherit sets the inherited build classes.
func (b *RecipeBuilder) WithInherit(classes ...string) *RecipeBuilder {
	b.recipe.Inherit = classes
	return b
}

// WithPhase sets the body of a phase function such as "src_compile".
func (b *RecipeBuilder) WithPhase(fn, body string) *RecipeBuilder {
	b.recipe.Phases[fn] = body
	return b
}

// Build returns the constructed manifest.
func (b *RecipeBuilder) Build() TestRecipe {
	return b.recipe
}

// ToYAML renders the manifest in the YAML recipe format.
func (r TestRecipe) ToYAML() string {
	var sb strings.Builder

	if r.Name != "" {
		sb.WriteString(fmt.Sprintf("name: %s\n", r.Name))
		if r.EAPI != "" {
			sb.WriteString(fmt.Sprintf("eapi: %q\n", r.EAPI))
		}
	}
	if len(r.IUse) > 0 {
		sb.WriteString(fmt.Sprintf("iuse: [%s]\n", strings.Join(r.IUse, ", ")))
	}
	if len(r.Inherit) > 0 {
		sb.WriteString(fmt.Sprintf("inherit: [%s]\n", strings.Join(r.Inherit, ", ")))
	}
	if len(r.Phases) > 0 {
		sb.WriteString("phases:\n")
		for _, fn := range sortedKeys(r.Phases) {
			sb.WriteString(fmt.Sprintf("  %s: |\n", fn))
			for _, line := range strings.Split(strings.TrimRight(r.Phases[fn], "\n"), "\n") {
				sb.WriteString("    " + line + "\n")
			}
		}
	}

	return sb.String()
}

// ToTOML renders the manifest in the TOML recipe format.
func (r TestRecipe) ToTOML() string {
	var sb strings.Builder

	if r.Name != "" {
		sb.WriteString(fmt.Sprintf("name = %q\n", r.Name))
		if r.EAPI != "" {
			sb.WriteString(fmt.Sprintf("eapi = %q\n", r.EAPI))
		}
	}
	if len(r.IUse) > 0 {
		sb.WriteString(fmt.Sprintf("iuse = [%s]\n", quoteAll(r.IUse)))
	}
	if len(r.Inherit) > 0 {
		sb.WriteString(fmt.Sprintf("inherit = [%s]\n", quoteAll(r.Inherit)))
	}
	if len(r.Phases) > 0 {
		sb.WriteString("\n[phases]\n")
		for _, fn := range sortedKeys(r.Phases) {
			sb.WriteString(fmt.Sprintf("%s = %q\n", fn, r.Phases[fn]))
		}
	}

	return sb.String()
}

// MakeConf renders settings as make.conf lines in key order.
func MakeConf(settings map[string]string) string {
	var sb strings.Builder
	for _, k := range sortedKeys(settings) {
		sb.WriteString(fmt.Sprintf("%s=%q\n", k, settings[k]))
	}
	return sb.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
