package di

import (
	"fmt"
	"reflect"
)

// ---------------------------------------------------------------------------
// Type identities
// ---------------------------------------------------------------------------

// TypeOf returns the identity of T: the package-qualified type name, with a
// leading "*" for pointer types, e.g. "*github.com/acme/shop.DB".
func TypeOf[T any]() TypeID {
	return TypeID(typeName(reflect.TypeOf((*T)(nil)).Elem()))
}

func typeName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer && t.Name() == "" {
		return "*" + typeName(t.Elem())
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// ---------------------------------------------------------------------------
// Descriptor builder
// ---------------------------------------------------------------------------

// Builder assembles the Descriptor of T one registration call at a time:
//
//	di.Component[*Users](nil).
//		Autowired(di.Autowire2(NewUsers)).
//		Descriptor()
type Builder[T any] struct {
	d Descriptor
}

// Component starts the descriptor of T. newFn, when not nil, becomes the
// parameterless constructor.
func Component[T any](newFn func() T) *Builder[T] {
	b := &Builder[T]{d: Descriptor{ID: TypeOf[T]()}}
	if newFn != nil {
		b.d.Constructors = append(b.d.Constructors, Construct(newFn))
	}
	return b
}

// DependsOn appends declared dependencies.
func (b *Builder[T]) DependsOn(ids ...TypeID) *Builder[T] {
	b.d.Dependencies = append(b.d.Dependencies, ids...)
	return b
}

// Constructor adds c as is.
func (b *Builder[T]) Constructor(c Constructor) *Builder[T] {
	b.d.Constructors = append(b.d.Constructors, c)
	return b
}

// Autowired adds c as an injecting constructor. If no dependencies were
// declared yet, the constructor's parameters become the declared
// dependencies.
func (b *Builder[T]) Autowired(c Constructor) *Builder[T] {
	c.Injecting = true
	if len(b.d.Dependencies) == 0 {
		b.d.Dependencies = append(b.d.Dependencies, c.Params...)
	}
	b.d.Constructors = append(b.d.Constructors, c)
	return b
}

// Inject adds field injection ports.
func (b *Builder[T]) Inject(fields ...Field) *Builder[T] {
	b.d.Fields = append(b.d.Fields, fields...)
	return b
}

// Descriptor returns a copy of the assembled descriptor.
func (b *Builder[T]) Descriptor() Descriptor {
	d := b.d
	d.Dependencies = append([]TypeID(nil), b.d.Dependencies...)
	d.Constructors = append([]Constructor(nil), b.d.Constructors...)
	d.Fields = append([]Field(nil), b.d.Fields...)
	return d
}

// Value describes a component whose instance already exists, such as loaded
// configuration.
func Value[T any](v T) Descriptor {
	return Component[T](func() T { return v }).Descriptor()
}

// ---------------------------------------------------------------------------
// Typed constructors and fields
// ---------------------------------------------------------------------------

// Construct wraps a parameterless constructor.
func Construct[T any](fn func() T) Constructor {
	return Constructor{New: func([]any) (any, error) { return fn(), nil }}
}

// ConstructErr wraps a parameterless constructor that can fail.
func ConstructErr[T any](fn func() (T, error)) Constructor {
	return Constructor{New: func([]any) (any, error) { return fn() }}
}

// Construct1 wraps a one-parameter constructor.
func Construct1[T, A any](fn func(A) T) Constructor {
	return Constructor{
		Params: []TypeID{TypeOf[A]()},
		New: func(args []any) (any, error) {
			a, err := arg[A](args, 0)
			if err != nil {
				return nil, err
			}
			return fn(a), nil
		},
	}
}

// Construct2 wraps a two-parameter constructor.
func Construct2[T, A, B any](fn func(A, B) T) Constructor {
	return Constructor{
		Params: []TypeID{TypeOf[A](), TypeOf[B]()},
		New: func(args []any) (any, error) {
			a, err := arg[A](args, 0)
			if err != nil {
				return nil, err
			}
			b, err := arg[B](args, 1)
			if err != nil {
				return nil, err
			}
			return fn(a, b), nil
		},
	}
}

// Construct3 wraps a three-parameter constructor.
func Construct3[T, A, B, C any](fn func(A, B, C) T) Constructor {
	return Constructor{
		Params: []TypeID{TypeOf[A](), TypeOf[B](), TypeOf[C]()},
		New: func(args []any) (any, error) {
			a, err := arg[A](args, 0)
			if err != nil {
				return nil, err
			}
			b, err := arg[B](args, 1)
			if err != nil {
				return nil, err
			}
			c, err := arg[C](args, 2)
			if err != nil {
				return nil, err
			}
			return fn(a, b, c), nil
		},
	}
}

// Autowire1 is Construct1 marked as the injecting constructor.
func Autowire1[T, A any](fn func(A) T) Constructor {
	c := Construct1(fn)
	c.Injecting = true
	return c
}

// Autowire2 is Construct2 marked as the injecting constructor.
func Autowire2[T, A, B any](fn func(A, B) T) Constructor {
	c := Construct2(fn)
	c.Injecting = true
	return c
}

// Autowire3 is Construct3 marked as the injecting constructor.
func Autowire3[T, A, B, C any](fn func(A, B, C) T) Constructor {
	c := Construct3(fn)
	c.Injecting = true
	return c
}

func arg[A any](args []any, i int) (A, error) {
	var zero A
	if i >= len(args) {
		return zero, fmt.Errorf("missing argument %d of type %s", i, TypeOf[A]())
	}
	v, ok := args[i].(A)
	if !ok {
		return zero, fmt.Errorf("argument %d: want %s, got %T", i, TypeOf[A](), args[i])
	}
	return v, nil
}

// Bind builds a field injection port that hands the built D to set.
//
// The returned field fails at injection time if the target is not a T or the
// dependency is not a D.
func Bind[T, D any](name string, set func(target T, dep D)) Field {
	f := Field{Name: name, Dependency: TypeOf[D]()}
	if set == nil {
		return f
	}
	f.Set = func(target, dep any) error {
		t, ok := target.(T)
		if !ok {
			return WrongTypeError{Component: TypeOf[T](), GotType: fmt.Sprintf("%T", target)}
		}
		d, ok := dep.(D)
		if !ok {
			return WrongTypeError{Component: TypeOf[D](), GotType: fmt.Sprintf("%T", dep)}
		}
		set(t, d)
		return nil
	}
	return f
}

// ---------------------------------------------------------------------------
// Typed retrieval
// ---------------------------------------------------------------------------

// Get returns the singleton of type T.
//
// ok is false if T is not registered or the instance is not a T.
func Get[T any](c *Container) (T, bool) {
	var zero T
	raw, ok := c.Get(TypeOf[T]())
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// TryGet returns the singleton of type T.
//
// It returns:
//   - MissingComponentError if T is not registered
//   - WrongTypeError if the registered instance is not a T
func TryGet[T any](c *Container) (T, error) {
	var zero T
	id := TypeOf[T]()
	raw, ok := c.Get(id)
	if !ok {
		return zero, MissingComponentError{Component: id}
	}
	v, ok := raw.(T)
	if !ok {
		return zero, WrongTypeError{Component: id, GotType: fmt.Sprintf("%T", raw)}
	}
	return v, nil
}

// MustGet returns the singleton of type T or panics.
func MustGet[T any](c *Container) T {
	v, err := TryGet[T](c)
	if err != nil {
		panic(err)
	}
	return v
}
