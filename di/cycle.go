package di

type color uint8

const (
	unvisited color = iota
	inProgress
	done
)

type frame struct {
	id   TypeID
	next int
}

// HasCycle reports whether any component depends on itself, directly or
// transitively.
func (g *Graph) HasCycle() bool { return g.FindCycle() != nil }

// FindCycle runs a three-color depth-first search from every vertex and
// returns the first cycle it meets as a path whose first and last elements
// are equal, e.g. [A B A]. It returns nil for an acyclic graph.
//
// The search keeps an explicit stack instead of recursing, so deep graphs
// cannot exhaust the goroutine stack.
func (g *Graph) FindCycle() []TypeID {
	colors := make(map[TypeID]color, len(g.vertices))

	for _, root := range g.vertices {
		if colors[root] != unvisited {
			continue
		}

		colors[root] = inProgress
		stack := []frame{{id: root}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := g.adj[top.id]
			if top.next == len(deps) {
				colors[top.id] = done
				stack = stack[:len(stack)-1]
				continue
			}

			dep := deps[top.next]
			top.next++

			switch colors[dep] {
			case inProgress:
				return cyclePath(stack, dep)
			case unvisited:
				colors[dep] = inProgress
				stack = append(stack, frame{id: dep})
			}
		}
	}
	return nil
}

// cyclePath cuts the stack at the first occurrence of closing and appends
// closing again to show where the chain loops.
func cyclePath(stack []frame, closing TypeID) []TypeID {
	start := 0
	for i, f := range stack {
		if f.id == closing {
			start = i
			break
		}
	}
	path := make([]TypeID, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.id)
	}
	return append(path, closing)
}
