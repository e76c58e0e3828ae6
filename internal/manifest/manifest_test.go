package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sghaida/ioc/di"
)

const shopYAML = `package: shop
imports:
  - path: github.com/acme/shop/store
components:
  - type: "*DB"
    new: NewDB
  - type: "*Logger"
    new: NewLogger
  - type: "*Users"
    constructor: NewUsers
    dependsOn: ["*DB", "*Logger"]
  - type: "*Basket"
    new: NewBasket
    fields:
      - {name: DB, type: "*DB"}
      - {name: Logger, type: "*Logger"}
`

const shopJSON = `{
  "package": "shop",
  "components": [
    {"type": "*DB", "new": "NewDB"},
    {"type": "*Users", "constructor": "NewUsers", "dependsOn": ["*DB"]}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

//
// -----------------------------------------------------------------------------
// Load / Parse
// -----------------------------------------------------------------------------

// TestLoad_YAML verifies a YAML manifest is decoded field by field.
func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "shop.yaml", shopYAML)
	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "shop", m.Package)
	assert.Equal(t, path, m.Source)
	require.Len(t, m.Imports, 1)
	assert.Equal(t, "github.com/acme/shop/store", m.Imports[0].Path)
	require.Len(t, m.Components, 4)

	users := m.Components[2]
	assert.Equal(t, "*Users", users.Type)
	assert.Equal(t, "NewUsers", users.Constructor)
	assert.Equal(t, []string{"*DB", "*Logger"}, users.DependsOn)

	basket := m.Components[3]
	assert.Equal(t, []Field{{Name: "DB", Type: "*DB"}, {Name: "Logger", Type: "*Logger"}}, basket.Fields)
}

// TestLoad_JSON verifies .json files use the JSON decoder.
func TestLoad_JSON(t *testing.T) {
	t.Parallel()

	m, err := Load(writeFile(t, "shop.json", shopJSON))
	require.NoError(t, err)
	require.Len(t, m.Components, 2)
	assert.Equal(t, []string{"*DB"}, m.Components[1].DependsOn)
}

// TestLoad_Errors verifies read and parse failures are reported.
func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading manifest")

	_, err = Load(writeFile(t, "bad.yaml", "package: [unclosed"))
	assert.ErrorContains(t, err, "parsing manifest")

	_, err = Load(writeFile(t, "bad.json", "{"))
	assert.ErrorContains(t, err, "parsing manifest")
}

// TestHash verifies the hash is stable and tracks the raw bytes.
func TestHash(t *testing.T) {
	t.Parallel()

	a, err := Parse([]byte(shopYAML), FormatYAML)
	require.NoError(t, err)
	b, err := Parse([]byte(shopYAML), FormatYAML)
	require.NoError(t, err)
	c, err := Parse([]byte(shopYAML+"\n# changed\n"), FormatYAML)
	require.NoError(t, err)

	assert.Len(t, a.Hash(), 16)
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())
}

//
// -----------------------------------------------------------------------------
// Validate
// -----------------------------------------------------------------------------

// TestValidate verifies each rule in isolation.
func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() Manifest {
		return Manifest{
			Package: "p",
			Components: []Component{
				{Type: "*A", New: "NewA"},
				{Type: "*B", Constructor: "NewB", DependsOn: []string{"*A"}},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Manifest)
		wantErr string
	}{
		{name: "valid_ok", mutate: func(*Manifest) {}},
		{name: "missing_package", mutate: func(m *Manifest) { m.Package = " " }, wantErr: "package is required"},
		{name: "no_components", mutate: func(m *Manifest) { m.Components = nil }, wantErr: "components must be non-empty"},
		{name: "missing_type", mutate: func(m *Manifest) { m.Components[0].Type = "" }, wantErr: "components[0]: type is required"},
		{
			name:    "duplicate",
			mutate:  func(m *Manifest) { m.Components = append(m.Components, Component{Type: "*A", New: "NewA"}) },
			wantErr: "declared twice",
		},
		{name: "no_constructor", mutate: func(m *Manifest) { m.Components[0].New = "" }, wantErr: "needs new or constructor"},
		{name: "constructor_without_deps", mutate: func(m *Manifest) { m.Components[1].DependsOn = nil }, wantErr: "constructor requires dependsOn"},
		{name: "empty_dependency", mutate: func(m *Manifest) { m.Components[1].DependsOn = []string{""} }, wantErr: "empty dependency"},
		{
			name:   "constructor_with_fields_ok",
			mutate: func(m *Manifest) { m.Components[1].Fields = []Field{{Name: "Aux", Type: "*A"}} },
		},
		{
			name: "fields_on_value_type",
			mutate: func(m *Manifest) {
				m.Components = append(m.Components, Component{Type: "C", New: "NewC", Fields: []Field{{Name: "A", Type: "*A"}}})
			},
			wantErr: "fields require a pointer type",
		},
		{
			name: "field_incomplete",
			mutate: func(m *Manifest) {
				m.Components[0].Fields = []Field{{Name: "", Type: "*B"}}
			},
			wantErr: "field must have name and type",
		},
		{name: "provided_empty", mutate: func(m *Manifest) { m.Provided = []string{" "} }, wantErr: "provided: empty type"},
		{name: "provided_clash", mutate: func(m *Manifest) { m.Provided = []string{"*A"} }, wantErr: "provided *A: also declared as component"},
		{name: "import_without_path", mutate: func(m *Manifest) { m.Imports = []Import{{Name: "x"}} }, wantErr: `import "x": path is required`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := base()
			tt.mutate(&m)
			err := m.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestValidate_CollectsAllProblems verifies problems are reported together.
func TestValidate_CollectsAllProblems(t *testing.T) {
	t.Parallel()

	m := Manifest{Source: "x.yaml", Components: []Component{{Type: "*A"}}}
	err := m.Validate()

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Problems, 2)
	assert.Contains(t, err.Error(), "invalid manifest x.yaml: ")
}

//
// -----------------------------------------------------------------------------
// Descriptors / Check
// -----------------------------------------------------------------------------

// TestDescriptors verifies dependencies, constructors and fields are carried
// over with manifest type expressions as identities.
func TestDescriptors(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte(shopYAML), FormatYAML)
	require.NoError(t, err)

	descs := m.Descriptors()
	require.Len(t, descs, 4)

	users := descs[2]
	assert.Equal(t, di.TypeID("*Users"), users.ID)
	require.Len(t, users.Constructors, 1)
	assert.True(t, users.Constructors[0].Injecting)
	assert.Equal(t, []di.TypeID{"*DB", "*Logger"}, users.Constructors[0].Params)

	basket := descs[3]
	assert.Equal(t, []di.TypeID{"*DB", "*Logger"}, basket.Requires())

	_, err = basket.Constructors[0].New(nil)
	assert.Error(t, err)
}

// TestCheck_OK verifies a sound manifest yields its graph.
func TestCheck_OK(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte(shopYAML), FormatYAML)
	require.NoError(t, err)

	g, err := m.Check()
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())
	assert.True(t, g.HasEdge("*Basket", "*Logger"))
}

// TestCheck_Unresolved verifies undeclared dependencies are rejected.
func TestCheck_Unresolved(t *testing.T) {
	t.Parallel()

	m := Manifest{Package: "p", Components: []Component{
		{Type: "*B", Constructor: "NewB", DependsOn: []string{"*Ghost"}},
	}}
	_, err := m.Check()
	assert.ErrorIs(t, err, di.ErrUnresolvedDependency)
}

// TestCheck_Cycle verifies cycles are rejected with the offending path.
func TestCheck_Cycle(t *testing.T) {
	t.Parallel()

	m := Manifest{Package: "p", Components: []Component{
		{Type: "*A", Constructor: "NewA", DependsOn: []string{"*B"}},
		{Type: "*B", Constructor: "NewB", DependsOn: []string{"*A"}},
	}}
	g, err := m.Check()
	require.ErrorIs(t, err, di.ErrCycleDetected)
	assert.NotNil(t, g)
	assert.Contains(t, err.Error(), "*A -> *B -> *A")
}

// TestCheck_Provided verifies provided types satisfy dependencies without
// being components.
func TestCheck_Provided(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte(`package: p
components:
  - type: "*DB"
    constructor: NewDB
    dependsOn: ["*Config"]
provided: ["*Config"]
`), FormatYAML)
	require.NoError(t, err)

	g, err := m.Check()
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
	assert.Len(t, m.Components, 1)
	assert.True(t, g.HasEdge("*DB", "*Config"))
}
