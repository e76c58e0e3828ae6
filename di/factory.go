package di

import (
	"fmt"
	"reflect"

	"github.com/go-logr/logr"
)

// strategy is how a component gets built, chosen once per component.
type strategy uint8

const (
	// byConstructor calls the injecting constructor with the built
	// dependencies, in declared order.
	byConstructor strategy = iota + 1

	// byFields calls the parameterless constructor.
	byFields
)

// String returns the human-readable name of the strategy.
func (s strategy) String() string {
	switch s {
	case byConstructor:
		return "constructor"
	case byFields:
		return "fields"
	default:
		return "unknown"
	}
}

type plan struct {
	strategy strategy
	ctor     Constructor
}

// planFor selects the construction strategy of d.
//
// The injecting constructor is used only when its parameter types equal the
// declared dependencies, in order, and that list is not empty. Otherwise the
// parameterless constructor is used. Fields are injected after either one.
func planFor(d *Descriptor) (plan, error) {
	injecting := -1
	count := 0
	for i, c := range d.Constructors {
		if c.Injecting {
			injecting = i
			count++
		}
	}
	if count > 1 {
		return plan{}, &AmbiguousConstructorError{Component: d.ID, Count: count}
	}

	if injecting >= 0 && len(d.Dependencies) > 0 && sameIDs(d.Constructors[injecting].Params, d.Dependencies) {
		return plan{strategy: byConstructor, ctor: d.Constructors[injecting]}, nil
	}

	for _, c := range d.Constructors {
		if len(c.Params) == 0 {
			return plan{strategy: byFields, ctor: c}, nil
		}
	}
	return plan{}, &ConstructionError{Component: d.ID, Err: ErrNoConstructor}
}

// factory builds every component of an acyclic graph into a registry,
// dependencies first.
type factory struct {
	descs map[TypeID]*Descriptor
	graph *Graph
	plans map[TypeID]plan
	reg   *Registry
	log   logr.Logger
}

func newFactory(descs map[TypeID]*Descriptor, g *Graph, log logr.Logger) *factory {
	return &factory{
		descs: descs,
		graph: g,
		plans: make(map[TypeID]plan, len(descs)),
		reg:   NewRegistry(len(descs)),
		log:   log,
	}
}

// planAll evaluates the strategy of every component before anything is
// built, so a bad descriptor fails the build with an empty registry.
func (f *factory) planAll() error {
	for _, id := range f.graph.vertices {
		p, err := planFor(f.descs[id])
		if err != nil {
			return err
		}
		f.plans[id] = p
	}
	return nil
}

// instantiateAll visits the graph entries in discovery order and makes sure
// each one is built.
func (f *factory) instantiateAll() error {
	for _, id := range f.graph.vertices {
		if err := f.ensure(id); err != nil {
			return err
		}
	}
	return nil
}

// ensure builds id after its dependencies. Dependencies are attempted from
// the last declared to the first. A component already in the registry is
// never built again.
func (f *factory) ensure(id TypeID) error {
	if f.reg.Has(id) {
		return nil
	}
	deps := f.graph.adj[id]
	for i := len(deps) - 1; i >= 0; i-- {
		if err := f.ensure(deps[i]); err != nil {
			return err
		}
	}
	return f.construct(id)
}

func (f *factory) construct(id TypeID) error {
	d := f.descs[id]
	p := f.plans[id]

	var (
		instance any
		err      error
	)
	switch p.strategy {
	case byConstructor:
		args, rerr := f.resolve(id, d.Dependencies)
		if rerr != nil {
			return rerr
		}
		instance, err = invoke(p.ctor.New, args)
	case byFields:
		instance, err = invoke(p.ctor.New, nil)
	default:
		return &ConstructionError{Component: id, Err: ErrNoConstructor}
	}
	if err != nil {
		return &ConstructionError{Component: id, Err: err}
	}
	if isNil(instance) {
		return &ConstructionError{Component: id, Err: ErrNilInstance}
	}

	for _, field := range d.Fields {
		dep, ok := f.reg.Get(field.Dependency)
		if !ok {
			return &UnresolvedDependencyError{Component: id, Dependency: field.Dependency}
		}
		if err := assign(field.Set, instance, dep); err != nil {
			return &ConstructionError{Component: id, Field: field.Name, Err: err}
		}
	}

	if err := f.reg.put(id, instance); err != nil {
		return err
	}
	f.log.V(2).Info("constructed component", "component", id, "strategy", p.strategy.String())
	return nil
}

// resolve looks up the built instance of every dependency, in order.
func (f *factory) resolve(id TypeID, deps []TypeID) ([]any, error) {
	args := make([]any, len(deps))
	for i, dep := range deps {
		inst, ok := f.reg.Get(dep)
		if !ok {
			return nil, &UnresolvedDependencyError{Component: id, Dependency: dep}
		}
		args[i] = inst
	}
	return args, nil
}

// invoke calls a constructor and turns a panic into an error.
func invoke(fn func([]any) (any, error), args []any) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v = nil
			err = panicError(rec)
		}
	}()
	return fn(args)
}

// assign calls a field setter and turns a panic into an error.
func assign(set func(target, dep any) error, target, dep any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = panicError(rec)
		}
	}()
	return set(target, dep)
}

// panicError keeps a panicked error reachable through errors.Is and errors.As.
func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", rec)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
