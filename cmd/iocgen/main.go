package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"go/format"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"text/template"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sghaida/ioc/internal/manifest"
)

// defaultDIImport is the runtime package generated code registers against.
const defaultDIImport = "github.com/sghaida/ioc/di"

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "iocgen:", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("iocgen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	manifestPath := fs.String("manifest", "", "path to the component manifest (.yaml or .json)")
	outPath := fs.String("out", "", "output .gen.go file path")
	dotPath := fs.String("dot", "", "optional Graphviz output path")
	check := fs.Bool("check", false, "only check manifests; extra manifests may follow the flags")
	diImport := fs.String("di", defaultDIImport, "import path of the di runtime package")
	workers := fs.Int("workers", runtime.GOMAXPROCS(0), "manifests checked concurrently in -check mode")
	verbosity := fs.Int("v", 0, "log verbosity")

	if err := fs.Parse(args); err != nil {
		return err
	}

	log := newLogger(stderr, *verbosity)

	if *check {
		paths := fs.Args()
		if *manifestPath != "" {
			paths = append([]string{*manifestPath}, paths...)
		}
		if len(paths) == 0 {
			return errors.New("missing -manifest or manifest arguments")
		}
		return checkAll(log, paths, *workers)
	}

	switch {
	case strings.TrimSpace(*manifestPath) == "":
		return errors.New("missing -manifest")
	case strings.TrimSpace(*outPath) == "":
		return errors.New("missing -out")
	case fs.NArg() > 0:
		return fmt.Errorf("unexpected arguments %v (several manifests need -check)", fs.Args())
	}
	return generate(log, generateOptions{
		manifest: *manifestPath,
		out:      *outPath,
		dot:      *dotPath,
		diImport: *diImport,
	})
}

// newLogger writes console-encoded logs to w. Verbosity n enables logr V(n).
func newLogger(w io.Writer, verbosity int) logr.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(zapcore.Level(-verbosity)),
	)
	return zapr.NewLogger(zap.New(core)).WithName("iocgen")
}

// -------------------------
// Check mode
// -------------------------

func checkAll(log logr.Logger, paths []string, workers int) error {
	if workers < 1 {
		workers = 1
	}
	p := pool.New().WithMaxGoroutines(workers).WithErrors()
	for _, path := range paths {
		p.Go(func() error {
			m, err := manifest.Load(path)
			if err != nil {
				return err
			}
			g, err := m.Check()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			log.Info("manifest ok", "manifest", path, "components", g.Len(), "hash", m.Hash())
			return nil
		})
	}
	return p.Wait()
}

// -------------------------
// Generate mode
// -------------------------

type generateOptions struct {
	manifest string
	out      string
	dot      string
	diImport string
}

func generate(log logr.Logger, opts generateOptions) error {
	m, err := manifest.Load(opts.manifest)
	if err != nil {
		return err
	}
	g, err := m.Check()
	if err != nil {
		return fmt.Errorf("%s: %w", opts.manifest, err)
	}
	log.V(1).Info("manifest checked", "manifest", opts.manifest, "components", g.Len(), "edges", len(g.Edges()))

	src, err := render(m, opts.diImport)
	if err != nil {
		return err
	}
	if err := writeFormatted(opts.out, src); err != nil {
		return err
	}
	log.Info("generated", "out", opts.out, "components", len(m.Components), "hash", m.Hash())

	if opts.dot != "" {
		var buf bytes.Buffer
		if err := g.WriteDOT(&buf); err != nil {
			return fmt.Errorf("rendering graph: %w", err)
		}
		if err := os.WriteFile(opts.dot, buf.Bytes(), 0o644); err != nil {
			return err
		}
		log.V(1).Info("graph written", "dot", opts.dot)
	}
	return nil
}

func render(m *manifest.Manifest, diImport string) ([]byte, error) {
	if strings.TrimSpace(diImport) == "" {
		diImport = defaultDIImport
	}

	required := []GoImport{{Name: "di", Path: diImport}}
	extra := make([]GoImport, 0, len(m.Imports))
	for _, imp := range m.Imports {
		extra = append(extra, GoImport{Name: imp.Name, Path: imp.Path})
	}

	data := map[string]any{
		"M":          m,
		"Source":     filepath.ToSlash(m.Source),
		"Hash":       m.Hash(),
		"Imports":    mergeImports(required, extra),
		"Components": m.Components,
		"Provided":   m.Provided,
	}

	var buf bytes.Buffer
	if err := componentsTpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	return buf.Bytes(), nil
}

// writeFormatted writes gofmt'ed src to out. If formatting fails the raw
// source is still written so it can be inspected.
func writeFormatted(out string, src []byte) error {
	fmtSrc, err := format.Source(src)
	if err != nil {
		_ = os.WriteFile(out, src, 0o644)
		return fmt.Errorf("gofmt/format failed: %w", err)
	}
	return os.WriteFile(out, fmtSrc, 0o644)
}

// -------------------------
// Imports
// -------------------------

type GoImport struct {
	Name string // optional alias, e.g. "di"
	Path string
}

// mergeImports dedupes by (path, alias) and sorts by path.
func mergeImports(required []GoImport, extra []GoImport) []GoImport {
	type key struct {
		path string
		name string
	}
	seen := map[key]bool{}
	out := make([]GoImport, 0, len(required)+len(extra))
	for _, list := range [][]GoImport{required, extra} {
		for _, gi := range list {
			k := key{path: gi.Path, name: gi.Name}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, gi)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path == out[j].Path {
			return out[i].Name < out[j].Name
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// -------------------------
// Templates
// -------------------------

// autowire renders the injecting constructor of c. Up to three parameters
// use the typed di.AutowireN helpers, longer lists a literal di.Constructor.
func autowire(c manifest.Component) string {
	n := len(c.DependsOn)
	if n >= 1 && n <= 3 {
		return fmt.Sprintf("di.Autowire%d(%s)", n, c.Constructor)
	}

	var params, args []string
	for i, dep := range c.DependsOn {
		params = append(params, "di.TypeOf["+dep+"]()")
		args = append(args, fmt.Sprintf("args[%d].(%s)", i, dep))
	}
	return "di.Constructor{\n" +
		"Params: []di.TypeID{" + strings.Join(params, ", ") + "},\n" +
		"New: func(args []any) (any, error) {\n" +
		"return " + c.Constructor + "(" + strings.Join(args, ", ") + "), nil\n" +
		"},\n" +
		"}"
}

func typeOfList(types []string) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = "di.TypeOf[" + t + "]()"
	}
	return strings.Join(parts, ", ")
}

var componentsTpl = template.Must(
	template.New("components").
		Funcs(template.FuncMap{
			"autowire":   autowire,
			"typeOfList": typeOfList,
		}).
		Parse(`// Code generated by iocgen; DO NOT EDIT.
// Manifest: {{.Source}}
// Manifest-XXH64: {{.Hash}}

package {{.M.Package}}

import (
{{- range .Imports }}
	{{- if .Name }}
	{{ .Name }} "{{ .Path }}"
	{{- else }}
	"{{ .Path }}"
	{{- end }}
{{- end }}
)

// Components returns the descriptors declared in the manifest, in manifest
// order. Pass them to di.New or register them with a di.Catalog.
func Components() []di.Descriptor {
	return []di.Descriptor{
{{- range .Components }}
		{{ template "component" . }},
{{- end }}
	}
}
{{- if .Provided }}

// Provided lists the components the caller registers at runtime, e.g. with
// di.Value, next to Components.
var Provided = []di.TypeID{
{{- range .Provided }}
	di.TypeOf[{{ . }}](),
{{- end }}
}
{{- end }}

{{- define "component" -}}
di.Component[{{ .Type }}]({{ if .New }}{{ .New }}{{ else }}nil{{ end }})
{{- if .Constructor }}.
	Autowired({{ autowire . }})
{{- else if .DependsOn }}.
	DependsOn({{ typeOfList .DependsOn }})
{{- end }}
{{- if .Fields }}.
	Inject(
{{- range .Fields }}
		di.Bind("{{ .Name }}", func(t {{ $.Type }}, d {{ .Type }}) { t.{{ .Name }} = d }),
{{- end }}
	)
{{- end }}.
	Descriptor()
{{- end -}}
`))
