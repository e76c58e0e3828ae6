// Package manifest reads component manifests: the YAML or JSON files iocgen
// turns into generated descriptor lists.
//
// A manifest names one Go package and the components declared in it:
//
//	package: shop
//	components:
//	  - type: "*DB"
//	    new: NewDB
//	  - type: "*Users"
//	    constructor: NewUsers
//	    dependsOn: ["*DB", "*Logger"]
//	  - type: "*Basket"
//	    new: NewBasket
//	    fields:
//	      - {name: DB, type: "*DB"}
//	provided: ["*Config"]
//
// Provided types are registered by the caller at runtime, typically with
// di.Value. They take part in the graph check but no code is generated for
// them.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/sghaida/ioc/di"
)

// Import is an extra import the generated file needs, e.g. for dependency
// types declared in another package.
type Import struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Path string `yaml:"path" json:"path"`
}

// Field is a field injection port. Type must be the type of another
// component.
type Field struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

// Component declares one component.
type Component struct {
	// Type is the Go type expression of the component, as written in the
	// manifest's package, e.g. "*DB" or "*redis.Client".
	Type string `yaml:"type" json:"type"`

	// New is a parameterless constructor symbol.
	New string `yaml:"new,omitempty" json:"new,omitempty"`

	// Constructor is an injecting constructor symbol. It is called with the
	// DependsOn components, in order.
	Constructor string `yaml:"constructor,omitempty" json:"constructor,omitempty"`

	DependsOn []string `yaml:"dependsOn,omitempty" json:"dependsOn,omitempty"`
	Fields    []Field  `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Manifest is a parsed manifest file.
type Manifest struct {
	Package    string      `yaml:"package" json:"package"`
	Imports    []Import    `yaml:"imports,omitempty" json:"imports,omitempty"`
	Components []Component `yaml:"components" json:"components"`
	Provided   []string    `yaml:"provided,omitempty" json:"provided,omitempty"`

	// Source is the path the manifest was loaded from, if any.
	Source string `yaml:"-" json:"-"`

	raw []byte
}

// Load reads and parses the manifest at path. Files ending in .json are
// decoded as JSON, everything else as YAML.
func Load(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	format := FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = FormatJSON
	}
	m, err := Parse(raw, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Source = path
	return m, nil
}

// Format selects the decoder used by Parse.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// Parse decodes raw in the given format.
func Parse(raw []byte, format Format) (*Manifest, error) {
	m := &Manifest{}
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(raw, m)
	default:
		err = yaml.Unmarshal(raw, m)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	m.raw = append([]byte(nil), raw...)
	return m, nil
}

// Hash is the xxhash of the raw manifest bytes, in hex. Generated files carry
// it so stale output can be detected.
func (m *Manifest) Hash() string {
	return fmt.Sprintf("%016x", xxhash.Sum64(m.raw))
}

// Validate checks the manifest is complete enough to generate code from. It
// does not look at the dependency graph; see Check.
func (m *Manifest) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(m.Package) == "" {
		add("package is required")
	}
	if len(m.Components) == 0 {
		add("components must be non-empty")
	}

	seen := make(map[string]bool, len(m.Components))
	for i, c := range m.Components {
		if strings.TrimSpace(c.Type) == "" {
			add("components[%d]: type is required", i)
			continue
		}
		if seen[c.Type] {
			add("component %s: declared twice", c.Type)
		}
		seen[c.Type] = true

		if c.New == "" && c.Constructor == "" {
			add("component %s: needs new or constructor", c.Type)
		}
		if c.Constructor != "" && len(c.DependsOn) == 0 {
			add("component %s: constructor requires dependsOn", c.Type)
		}
		for _, d := range c.DependsOn {
			if strings.TrimSpace(d) == "" {
				add("component %s: empty dependency", c.Type)
			}
		}
		if len(c.Fields) > 0 && !strings.HasPrefix(c.Type, "*") {
			add("component %s: fields require a pointer type", c.Type)
		}
		for _, f := range c.Fields {
			if f.Name == "" || f.Type == "" {
				add("component %s: field must have name and type", c.Type)
			}
		}
	}
	for _, p := range m.Provided {
		switch {
		case strings.TrimSpace(p) == "":
			add("provided: empty type")
		case seen[p]:
			add("provided %s: also declared as component", p)
		}
	}
	for _, imp := range m.Imports {
		if strings.TrimSpace(imp.Path) == "" {
			add("import %q: path is required", imp.Name)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Source: m.Source, Problems: problems}
	}
	return nil
}

// ValidationError lists every problem Validate found.
type ValidationError struct {
	Source   string
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	prefix := "invalid manifest"
	if e.Source != "" {
		prefix += " " + e.Source
	}
	return prefix + ": " + strings.Join(e.Problems, "; ")
}

// Descriptors converts the manifest into descriptors keyed by the manifest
// type expressions. They carry placeholder constructors and can only be used
// to inspect the graph, never to build a container.
func (m *Manifest) Descriptors() []di.Descriptor {
	out := make([]di.Descriptor, 0, len(m.Components)+len(m.Provided))
	for _, c := range m.Components {
		d := di.Descriptor{ID: di.TypeID(c.Type)}
		for _, dep := range c.DependsOn {
			d.Dependencies = append(d.Dependencies, di.TypeID(dep))
		}
		if c.Constructor != "" {
			d.Constructors = append(d.Constructors, di.Constructor{
				Params:    append([]di.TypeID(nil), d.Dependencies...),
				Injecting: true,
				New:       placeholder,
			})
		}
		if c.New != "" {
			d.Constructors = append(d.Constructors, di.Constructor{New: placeholder})
		}
		for _, f := range c.Fields {
			d.Fields = append(d.Fields, di.Field{
				Name:       f.Name,
				Dependency: di.TypeID(f.Type),
				Set:        func(any, any) error { return nil },
			})
		}
		out = append(out, d)
	}
	for _, p := range m.Provided {
		out = append(out, di.Descriptor{
			ID:           di.TypeID(p),
			Constructors: []di.Constructor{{New: placeholder}},
		})
	}
	return out
}

func placeholder([]any) (any, error) {
	return nil, fmt.Errorf("manifest descriptors cannot be instantiated")
}

// Check validates the manifest and its dependency graph: every dependency
// must be declared and the graph must be acyclic. It returns the graph so
// callers can render it.
func (m *Manifest) Check() (*di.Graph, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	g, err := di.BuildGraph(m.Descriptors())
	if err != nil {
		return nil, err
	}
	if path := g.FindCycle(); path != nil {
		return g, &di.CycleError{Path: path}
	}
	return g, nil
}
