package di

import (
	"fmt"
	"io"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// Graph is the directed dependency graph over component identities. An edge
// a -> b means a depends on b. Vertices and each adjacency list keep the order
// in which they were discovered.
type Graph struct {
	vertices []TypeID
	adj      map[TypeID][]TypeID
}

func newGraph(size int) *Graph {
	return &Graph{
		vertices: make([]TypeID, 0, size),
		adj:      make(map[TypeID][]TypeID, size),
	}
}

// BuildGraph walks every descriptor's dependencies depth-first and records
// the edges it finds. Every component becomes a vertex, including those with
// no dependencies.
//
// When an edge was already recorded, only that dependency is skipped; the
// remaining dependencies of the same component are still walked.
func BuildGraph(descs []Descriptor) (*Graph, error) {
	universe, err := index(descs)
	if err != nil {
		return nil, err
	}
	return buildGraph(descs, universe)
}

func buildGraph(descs []Descriptor, universe map[TypeID]*Descriptor) (*Graph, error) {
	g := newGraph(len(descs))
	for i := range descs {
		g.addVertex(descs[i].ID)
		if err := g.walk(descs[i].ID, universe); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Graph) walk(id TypeID, universe map[TypeID]*Descriptor) error {
	for _, dep := range universe[id].Requires() {
		if _, ok := universe[dep]; !ok {
			return &UnresolvedDependencyError{Component: id, Dependency: dep}
		}
		if g.HasEdge(id, dep) {
			continue
		}
		g.addEdge(id, dep)
		if err := g.walk(dep, universe); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) addVertex(id TypeID) {
	if _, ok := g.adj[id]; ok {
		return
	}
	g.adj[id] = nil
	g.vertices = append(g.vertices, id)
}

func (g *Graph) addEdge(from, to TypeID) {
	g.addVertex(from)
	g.addVertex(to)
	g.adj[from] = append(g.adj[from], to)
}

// HasEdge reports whether from depends directly on to.
func (g *Graph) HasEdge(from, to TypeID) bool {
	for _, id := range g.adj[from] {
		if id == to {
			return true
		}
	}
	return false
}

// Has reports whether id is a vertex.
func (g *Graph) Has(id TypeID) bool {
	_, ok := g.adj[id]
	return ok
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.vertices) }

// Vertices returns the vertices in discovery order.
func (g *Graph) Vertices() []TypeID {
	out := make([]TypeID, len(g.vertices))
	copy(out, g.vertices)
	return out
}

// Dependencies returns the direct dependencies of id in discovery order.
func (g *Graph) Dependencies(id TypeID) []TypeID {
	deps := g.adj[id]
	out := make([]TypeID, len(deps))
	copy(out, deps)
	return out
}

// Edge is a single "depends on" relation.
type Edge struct {
	From TypeID
	To   TypeID
}

// String renders the edge as "from -> to".
func (e Edge) String() string { return string(e.From) + " -> " + string(e.To) }

// Edges lists every edge, grouped by source in discovery order.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, from := range g.vertices {
		for _, to := range g.adj[from] {
			out = append(out, Edge{From: from, To: to})
		}
	}
	return out
}

// String lists the edges one per line.
func (g *Graph) String() string {
	var sb strings.Builder
	for _, e := range g.Edges() {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

// Directed converts the graph into a dominikbraun/graph graph whose edges
// point from a dependency to its dependents, i.e. in construction order.
func (g *Graph) Directed() (graph.Graph[TypeID, TypeID], error) {
	dg := graph.New[TypeID, TypeID](func(id TypeID) TypeID { return id }, graph.Directed())
	for _, id := range g.vertices {
		if err := dg.AddVertex(id); err != nil {
			return nil, fmt.Errorf("adding vertex %s: %w", id, err)
		}
	}
	for _, e := range g.Edges() {
		if err := dg.AddEdge(e.To, e.From); err != nil {
			return nil, fmt.Errorf("adding edge %s: %w", e, err)
		}
	}
	return dg, nil
}

// TopologicalOrder returns every vertex so that dependencies precede their
// dependents. Ties are broken by discovery order, so the result is stable.
func (g *Graph) TopologicalOrder() ([]TypeID, error) {
	if path := g.FindCycle(); path != nil {
		return nil, &CycleError{Path: path}
	}
	dg, err := g.Directed()
	if err != nil {
		return nil, err
	}
	pos := make(map[TypeID]int, len(g.vertices))
	for i, id := range g.vertices {
		pos[id] = i
	}
	return graph.StableTopologicalSort(dg, func(a, b TypeID) bool { return pos[a] < pos[b] })
}

// Cycles returns every group of components that depend on each other,
// including components that depend on themselves. It is empty for an acyclic
// graph.
func (g *Graph) Cycles() ([][]TypeID, error) {
	dg, err := g.Directed()
	if err != nil {
		return nil, err
	}
	sccs, err := graph.StronglyConnectedComponents(dg)
	if err != nil {
		return nil, err
	}
	var out [][]TypeID
	for _, scc := range sccs {
		if len(scc) > 1 || g.HasEdge(scc[0], scc[0]) {
			out = append(out, scc)
		}
	}
	return out, nil
}

// WriteDOT writes the graph in Graphviz DOT format, edges pointing from each
// dependency to its dependents.
func (g *Graph) WriteDOT(w io.Writer) error {
	dg, err := g.Directed()
	if err != nil {
		return err
	}
	return draw.DOT(dg, w, draw.GraphAttribute("rankdir", "LR"))
}
