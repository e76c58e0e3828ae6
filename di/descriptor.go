package di

import "strconv"

// TypeID identifies a component type. It is the key of the dependency graph
// and of the singleton registry.
type TypeID string

// String returns the identity as a plain string.
func (id TypeID) String() string { return string(id) }

// Constructor describes one way of creating a component.
//
// Params lists the dependency types New expects, in order. A constructor with
// no Params is the parameterless constructor. Injecting marks the constructor
// as the dependency-accepting one; at most one constructor per component may
// set it.
type Constructor struct {
	Params    []TypeID
	Injecting bool
	New       func(args []any) (any, error)
}

// Field is an injection port: once the instance is constructed, by either
// strategy, the container calls Set with it and the built instance of
// Dependency.
type Field struct {
	Name       string
	Dependency TypeID
	Set        func(target, dep any) error
}

// Descriptor is the only input the container reads about a component. It is
// produced outside the container (by hand, by Component, by a Catalog or by
// generated code) and treated as immutable afterwards.
type Descriptor struct {
	ID           TypeID
	Dependencies []TypeID
	Constructors []Constructor
	Fields       []Field
}

// Requires returns the declared dependencies followed by any field
// dependency not already declared. Order is preserved and each type appears
// once.
func (d Descriptor) Requires() []TypeID {
	out := make([]TypeID, 0, len(d.Dependencies)+len(d.Fields))
	seen := make(map[TypeID]struct{}, cap(out))
	add := func(id TypeID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range d.Dependencies {
		add(id)
	}
	for _, f := range d.Fields {
		add(f.Dependency)
	}
	return out
}

// validate rejects descriptors the factory could never use.
func (d Descriptor) validate() error {
	invalid := func(reason string) error {
		return &DescriptorError{Component: d.ID, Reason: reason, Err: ErrInvalidDescriptor}
	}
	if d.ID == "" {
		return invalid("empty type identity")
	}
	for _, dep := range d.Dependencies {
		if dep == "" {
			return invalid("empty dependency identity")
		}
	}
	for i, c := range d.Constructors {
		if c.New == nil {
			return invalid("constructor " + strconv.Itoa(i) + " has nil New")
		}
	}
	for _, f := range d.Fields {
		if f.Name == "" || f.Dependency == "" {
			return invalid("field must have name and dependency")
		}
		if f.Set == nil {
			return invalid("field " + f.Name + " has nil Set")
		}
	}
	return nil
}

// index maps descriptors by ID, rejecting invalid and duplicate entries.
func index(descs []Descriptor) (map[TypeID]*Descriptor, error) {
	out := make(map[TypeID]*Descriptor, len(descs))
	for i := range descs {
		d := &descs[i]
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, exists := out[d.ID]; exists {
			return nil, &DescriptorError{Component: d.ID, Reason: "registered twice", Err: ErrDuplicateComponent}
		}
		out[d.ID] = d
	}
	return out, nil
}

func sameIDs(a, b []TypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
