package di

import (
	"fmt"
	"time"
)

// State is the lifecycle position of a container build.
type State int

const (
	// Uninitialized is the state before any work has been done.
	Uninitialized State = iota

	// GraphBuilt means every descriptor was validated and the dependency graph
	// is complete.
	GraphBuilt

	// CycleChecked means the graph is known to be acyclic and every
	// construction strategy has been selected.
	CycleChecked

	// Instantiated means every component is in the registry.
	Instantiated

	// Ready is the only state in which a Container is handed to callers.
	Ready

	// Failed is terminal. No registry is exposed.
	Failed
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case GraphBuilt:
		return "graph-built"
	case CycleChecked:
		return "cycle-checked"
	case Instantiated:
		return "instantiated"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Container holds one instance of every component, fully wired. It is built
// once by New and never mutated afterwards, so it is safe for concurrent use.
type Container struct {
	graph      *Graph
	singletons *Registry
}

// New builds a container from descs. It validates the descriptors, builds
// the dependency graph, rejects cycles, selects a construction strategy per
// component and instantiates everything, dependencies first.
//
// Construction is all or nothing: on any failure New returns a nil container
// and a single error naming the offending component.
func New(descs []Descriptor, opts ...Option) (*Container, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var m *metrics
	if o.registerer != nil {
		var err error
		if m, err = newMetrics(o.registerer); err != nil {
			return nil, fmt.Errorf("di: registering metrics: %w", err)
		}
	}

	started := time.Now()
	b := &builder{opts: o}
	c, err := b.build(descs)
	if err != nil {
		m.failed(started, err)
		o.log.Error(err, "container build failed", "state", b.state.String())
		return nil, err
	}
	m.succeeded(started, c.Len())
	return c, nil
}

// builder walks the container through its states. It keeps the state so a
// failure can report where it happened.
type builder struct {
	opts  options
	state State
}

func (b *builder) build(descs []Descriptor) (*Container, error) {
	log := b.opts.log
	b.state = Uninitialized

	// descriptors are copied so later changes by the caller cannot leak in
	owned := make([]Descriptor, len(descs))
	copy(owned, descs)

	universe, err := index(owned)
	if err != nil {
		return nil, b.fail(err)
	}
	g, err := buildGraph(owned, universe)
	if err != nil {
		return nil, b.fail(err)
	}
	b.state = GraphBuilt
	log.V(1).Info("dependency graph built", "components", g.Len(), "edges", len(g.Edges()))

	if path := g.FindCycle(); path != nil {
		return nil, b.fail(&CycleError{Path: path})
	}
	f := newFactory(universe, g, log)
	if err := f.planAll(); err != nil {
		return nil, b.fail(err)
	}
	b.state = CycleChecked
	log.V(1).Info("dependency graph is acyclic")

	if err := f.instantiateAll(); err != nil {
		return nil, b.fail(err)
	}
	b.state = Instantiated
	log.V(1).Info("components instantiated", "order", f.reg.IDs())

	b.state = Ready
	return &Container{graph: g, singletons: f.reg}, nil
}

func (b *builder) fail(err error) error {
	b.state = Failed
	return err
}

// Get returns the instance registered for id. It never builds anything.
func (c *Container) Get(id TypeID) (any, bool) {
	return c.singletons.Get(id)
}

// MustGet returns the instance registered for id or panics.
func (c *Container) MustGet(id TypeID) any {
	return c.singletons.MustGet(id)
}

// Has reports whether id is registered.
func (c *Container) Has(id TypeID) bool {
	return c.singletons.Has(id)
}

// Names lists the registered component names, sorted, each once.
func (c *Container) Names() []string {
	return c.singletons.Names()
}

// Order is the order in which components were constructed. Every component
// appears after all of its dependencies.
func (c *Container) Order() []TypeID {
	return c.singletons.IDs()
}

// Len returns the number of registered components.
func (c *Container) Len() int {
	return c.singletons.Len()
}

// Graph returns the dependency graph the container was built from.
func (c *Container) Graph() *Graph {
	return c.graph
}

// State always reports Ready: New never returns a container in any other
// state.
func (c *Container) State() State {
	return Ready
}
