// Command iocgen generates descriptor lists for the di container from a
// component manifest, and checks manifests for wiring errors before any code
// runs.
//
// A manifest (YAML or JSON) names a package and its components: their Go
// type, an optional parameterless constructor, an optional injecting
// constructor with its ordered dependencies, and optional field injection
// ports. See internal/manifest for the format.
//
// # Generate
//
//	iocgen -manifest components.yaml -out components.gen.go [-dot graph.dot]
//
// The manifest is validated and its dependency graph is built. Undeclared
// dependencies and cycles fail generation with the same errors di.New would
// return at startup. The output file declares
//
//	func Components() []di.Descriptor
//
// built with di.Component, di.AutowireN and di.Bind, and carries the xxhash
// of the manifest in its header. -dot additionally writes the dependency
// graph in Graphviz format, edges pointing from a dependency to its
// dependents.
//
// # Check
//
//	iocgen -check a.yaml b.yaml c.json
//
// Checks every manifest concurrently (bounded by -workers) and reports all
// failures at once. Nothing is written.
//
// # go:generate
//
//	//go:generate go run github.com/sghaida/ioc/cmd/iocgen -manifest components.yaml -out components.gen.go
//
// Flags:
//
//	-manifest  manifest path
//	-out       generated file path
//	-dot       optional Graphviz output
//	-check     check only
//	-di        di runtime import path (default github.com/sghaida/ioc/di)
//	-workers   concurrent checks in -check mode
//	-v         log verbosity
package main
