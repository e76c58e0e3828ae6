package di_test

import (
	"github.com/sghaida/ioc/di"
)

// Fixture components. Every type carries a field so that distinct instances
// never share an address.

type A struct{ Name string }

type C struct{ Name string }

type B struct {
	C *C
	A *A
}

func NewA() *A { return &A{Name: "a"} }

func NewC() *C { return &C{Name: "c"} }

func NewB(c *C, a *A) *B { return &B{C: c, A: a} }

type X struct{ Name string }

type Y struct {
	X *X
}

type Z struct {
	X *X
	Y *Y
}

func NewX() *X { return &X{Name: "x"} }

func NewY(x *X) *Y { return &Y{X: x} }

func NewZ(x *X, y *Y) *Z { return &Z{X: x, Y: y} }

// W takes X through its constructor and A through a field port.
type W struct {
	X *X
	A *A
}

func NewW(x *X) *W { return &W{X: x} }

// desc builds an identity-only descriptor with a trivial parameterless
// constructor, for graph-level tests.
func desc(id string, deps ...string) di.Descriptor {
	d := di.Descriptor{
		ID: di.TypeID(id),
		Constructors: []di.Constructor{{
			New: func([]any) (any, error) { return &struct{ ID string }{ID: id}, nil },
		}},
	}
	for _, dep := range deps {
		d.Dependencies = append(d.Dependencies, di.TypeID(dep))
	}
	return d
}

func ids(names ...string) []di.TypeID {
	out := make([]di.TypeID, len(names))
	for i, n := range names {
		out[i] = di.TypeID(n)
	}
	return out
}

// abcDescriptors is A and C without dependencies and B built by its
// all-arguments constructor from C and A.
func abcDescriptors() []di.Descriptor {
	return []di.Descriptor{
		di.Component[*A](NewA).Descriptor(),
		di.Component[*C](NewC).Descriptor(),
		di.Component[*B](nil).Autowired(di.Autowire2(NewB)).Descriptor(),
	}
}

// diamondDescriptors is X, Y(X) and Z(X, Y).
func diamondDescriptors() []di.Descriptor {
	return []di.Descriptor{
		di.Component[*X](NewX).Descriptor(),
		di.Component[*Y](nil).Autowired(di.Autowire1(NewY)).Descriptor(),
		di.Component[*Z](nil).Autowired(di.Autowire2(NewZ)).Descriptor(),
	}
}
