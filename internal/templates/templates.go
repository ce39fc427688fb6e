// Package templates holds the catalogue of named card backgrounds.
package templates

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"cardly/internal/design"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Version   int               `yaml:"version"`
	Default   string            `yaml:"default"`
	Templates []design.Template `yaml:"templates"`
}

// Registry is a read-only template table. It is safe for concurrent use.
type Registry struct {
	version    int
	defaultID  string
	byID       map[string]design.Template
	sortedByID []string
}

var builtin = mustLoad(bytes.NewReader(catalogYAML))

// Builtin returns the catalogue shipped with the binary.
func Builtin() *Registry {
	return builtin
}

// Load parses a catalogue document.
func Load(r io.Reader) (*Registry, error) {
	var file catalogFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("templates: decode catalogue: %w", err)
	}
	if len(file.Templates) == 0 {
		return nil, errors.New("templates: catalogue is empty")
	}

	reg := &Registry{
		version:   file.Version,
		defaultID: strings.TrimSpace(file.Default),
		byID:      make(map[string]design.Template, len(file.Templates)),
	}
	for i, t := range file.Templates {
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			return nil, fmt.Errorf("templates: entry %d has no id", i)
		}
		if _, dup := reg.byID[t.ID]; dup {
			return nil, fmt.Errorf("templates: duplicate id %q", t.ID)
		}
		reg.byID[t.ID] = t
		reg.sortedByID = append(reg.sortedByID, t.ID)
	}
	if reg.defaultID != "" {
		if _, ok := reg.byID[reg.defaultID]; !ok {
			return nil, fmt.Errorf("templates: default %q is not in the catalogue", reg.defaultID)
		}
	}
	return reg, nil
}

func mustLoad(r io.Reader) *Registry {
	reg, err := Load(r)
	if err != nil {
		panic(err)
	}
	return reg
}

// Get implements design.Registry.
func (r *Registry) Get(id string) (design.Template, bool) {
	if r == nil {
		return design.Template{}, false
	}
	t, ok := r.byID[id]
	return t, ok
}

// Has reports whether id names a template.
func (r *Registry) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// Version is the catalogue revision.
func (r *Registry) Version() int {
	return r.version
}

// Default returns the id used when an account has no preference.
func (r *Registry) Default() string {
	return r.defaultID
}

// Fallback picks the template a design without its own renders with: the
// first candidate present in the catalogue, else the catalogue default.
// Callers pass the account preference before the site-wide default.
func (r *Registry) Fallback(candidates ...string) string {
	for _, id := range candidates {
		if id = strings.TrimSpace(id); id != "" && r.Has(id) {
			return id
		}
	}
	return r.Default()
}

// Options lists the templates sorted by name for rendering in a picker.
func (r *Registry) Options() []design.Template {
	options := make([]design.Template, 0, len(r.byID))
	for _, id := range r.sortedByID {
		options = append(options, r.byID[id])
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Name < options[j].Name
	})
	return options
}
