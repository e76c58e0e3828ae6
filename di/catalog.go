package di

import (
	"strings"
	"sync"
)

// Catalog is a static inventory of descriptors, usually filled from init
// functions or generated Components() funcs. Scan selects the descriptors of
// one package tree, which replaces scanning a namespace at runtime.
//
// It is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	descs []Descriptor
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Register appends descriptors and returns the catalog for chaining.
func (c *Catalog) Register(descs ...Descriptor) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.descs = append(c.descs, descs...)
	return c
}

// Len returns the number of registered descriptors.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.descs)
}

// Scan returns the descriptors whose type lives in namespace or one of its
// sub-packages, in registration order. An empty namespace matches everything.
func (c *Catalog) Scan(namespace string) []Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Descriptor, 0, len(c.descs))
	for _, d := range c.descs {
		if inNamespace(d.ID, namespace) {
			out = append(out, d)
		}
	}
	return out
}

// inNamespace matches "pkg/path.Type" and "*pkg/path.Type" against
// "pkg/path" and its sub-packages.
func inNamespace(id TypeID, namespace string) bool {
	if namespace == "" {
		return true
	}
	name := strings.TrimLeft(string(id), "*")
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return false
	}
	pkg := name[:dot]
	return pkg == namespace || strings.HasPrefix(pkg, namespace+"/")
}

// NewFromCatalog builds a container from the descriptors in namespace.
func NewFromCatalog(cat *Catalog, namespace string, opts ...Option) (*Container, error) {
	return New(cat.Scan(namespace), opts...)
}
