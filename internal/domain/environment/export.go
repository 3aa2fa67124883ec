package environment

import (
	"fmt"
	"sort"
	"strings"
)

const exportPrefix = "export "

// shellEscaper escapes the characters that keep their special meaning inside
// double quotes.
var shellEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "`", "\\`")

// ExportString renders the mapping as `export KEY="VALUE"` lines, sorted by
// key. Consumers must not depend on the order. Values are escaped so that the block can be sourced by a
// POSIX shell without expansion; ParseExport reverses the escaping.
func (c *Context) ExportString() string {
	var b strings.Builder
	for _, k := range c.keys() {
		v := c.vars[k]
		b.WriteString(exportPrefix)
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(shellEscaper.Replace(v))
		b.WriteString("\"\n")
	}
	return b.String()
}

// Environ returns the mapping as KEY=VALUE pairs for exec.Cmd.Env.
func (c *Context) Environ() []string {
	out := make([]string, 0, len(c.vars))
	for _, k := range c.keys() {
		out = append(out, k+"="+c.vars[k])
	}
	return out
}

func (c *Context) keys() []string {
	keys := make([]string, 0, len(c.vars))
	for k := range c.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseExport parses a block produced by ExportString. Quoted values may span
// lines. Blank lines are ignored.
func ParseExport(block string) (map[string]string, error) {
	vars := make(map[string]string)
	rest := block
	for {
		rest = strings.TrimLeft(rest, " \t\n")
		if rest == "" {
			return vars, nil
		}
		if !strings.HasPrefix(rest, exportPrefix) {
			return nil, fmt.Errorf("expected %q at %q", exportPrefix, head(rest))
		}
		rest = rest[len(exportPrefix):]

		eq := strings.Index(rest, `="`)
		if eq <= 0 {
			return nil, fmt.Errorf("missing assignment at %q", head(rest))
		}
		key := rest[:eq]
		if !variableName.MatchString(key) {
			return nil, fmt.Errorf("invalid variable name %q", key)
		}

		value, n, err := unquote(rest[eq+2:])
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", key, err)
		}
		vars[key] = value
		rest = rest[eq+2+n:]
	}
}

// unquote reads an escaped value up to its closing quote and returns the
// value and the number of bytes consumed, including the quote.
func unquote(s string) (string, int, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			return b.String(), i + 1, nil
		case '\\':
			if i+1 < len(s) && strings.IndexByte("\\\"$`", s[i+1]) >= 0 {
				i++
			}
			b.WriteByte(s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	return "", 0, fmt.Errorf("unterminated quoted value")
}

func head(s string) string {
	if len(s) > 20 {
		return s[:20] + "..."
	}
	return s
}
