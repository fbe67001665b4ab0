// Package template loads named email templates from disk and substitutes
// literal %NAME% placeholders. This is deliberately not a templating
// language: tokens are replaced by a split/join pass, nothing is parsed,
// and unresolved tokens stay in the output verbatim.
package template

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrRender is returned when a template cannot be loaded.
var ErrRender = errors.New("template render failed")

// Vars holds the placeholder bindings for one render.
type Vars struct {
	EmailFrom string
	Title     string
	Email     string
	Subject   string
	Content   string
	// Custom entries are applied after the fixed fields, key uppercased.
	Custom map[string]string
}

// Renderer reads templates from a directory, one file per template name.
type Renderer struct {
	dir string
}

func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// Load returns the raw template content for name ({dir}/{name}.html).
func (r *Renderer) Load(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, name+".html"))
	if err != nil {
		return "", fmt.Errorf("%w: load %q: %v", ErrRender, name, err)
	}
	return string(data), nil
}

// Render loads name and substitutes vars.
//
// Fixed placeholders are applied first, in a fixed order, then custom vars
// in map iteration order. Substitution is a single pass: a value written by
// an earlier replacement can itself be rewritten by a later one, and custom
// values are never re-scanned. This matches the historical behavior and is
// kept on purpose.
func (r *Renderer) Render(name string, vars Vars) (string, error) {
	tmpl, err := r.Load(name)
	if err != nil {
		return "", err
	}

	tmpl = replace(tmpl, "EMAIL_FROM", vars.EmailFrom)
	tmpl = replace(tmpl, "TITLE", vars.Title)
	tmpl = replace(tmpl, "EMAIL", vars.Email)
	tmpl = replace(tmpl, "SUBJECT", vars.Subject)
	tmpl = replace(tmpl, "CONTENT", vars.Content)
	for key, value := range vars.Custom {
		tmpl = replace(tmpl, strings.ToUpper(key), value)
	}

	return tmpl, nil
}

// replace substitutes every occurrence of %KEY% with value.
func replace(tmpl, key, value string) string {
	return strings.ReplaceAll(tmpl, "%"+key+"%", value)
}
