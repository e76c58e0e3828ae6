// Package ioc is a small inversion-of-control container for Go and the
// tooling around it.
//
// Components are described by descriptors (type identity, ordered
// dependencies, constructors, field injection ports). The container builds
// the dependency graph, rejects cycles, and instantiates every component once,
// dependencies first.
//
// See subpackages:
//   - di: the container, its graph, cycle detector and typed helpers
//   - internal/manifest: YAML/JSON component manifests
//   - cmd/iocgen: generates descriptor lists from manifests and checks them
//   - examples/shop: a runnable composition root using generated descriptors
package ioc
