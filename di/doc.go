// Package di is a small inversion-of-control container.
//
// Components are described by a Descriptor: a type identity, the ordered
// identities it depends on, its constructors and optional field injection
// ports. New turns a list of descriptors into a Container:
//
//  1. validate descriptors and build the dependency graph (BuildGraph)
//  2. reject the graph if it contains a cycle (Graph.FindCycle)
//  3. select one construction strategy per component
//  4. instantiate every component once, dependencies first
//
// Construction is all or nothing. Either every component is built and wired,
// or New returns an error that names the offending component and matches one
// of ErrUnresolvedDependency, ErrAmbiguousConstructor, ErrCycleDetected or
// ErrConstructionFailed.
//
// Every component is a process-wide singleton. There is no lazy
// instantiation and no teardown; once New returns, the container is read-only
// and safe for concurrent lookups.
//
// # Construction strategies
//
// If a component has an injecting constructor whose parameter types equal its
// declared dependencies (same order, at least one), it is called with the
// built dependencies. Otherwise the parameterless constructor is called.
// Either way, every Field port receives its dependency afterwards.
//
// # Registration
//
// Descriptors can be written by hand, generated by cmd/iocgen, or assembled
// with the typed helpers:
//
//	descs := []di.Descriptor{
//		di.Component[*DB](NewDB).Descriptor(),
//		di.Component[*Logger](NewLogger).Descriptor(),
//		di.Component[*Users](nil).Autowired(di.Autowire2(NewUsers)).Descriptor(),
//		di.Component[*Basket](NewBasket).
//			Inject(di.Bind("DB", func(b *Basket, db *DB) { b.DB = db })).
//			Descriptor(),
//	}
//
//	c, err := di.New(descs)
//	users, err := di.TryGet[*Users](c)
//
// Import
//
//	"github.com/sghaida/ioc/di"
package di
