package ports

import "github.com/aretw0/vine/pkg/domain"

// Graph is the storage primitive consumed by graph steps.
// The core never learns how elements are stored.
type Graph interface {
	// Vertices returns the vertices with the given ids, or every vertex when no id is given.
	// Unknown ids are skipped.
	Vertices(ids ...any) ([]*domain.Vertex, error)

	// Adjacent returns the vertices reached from v along edges in dir, optionally
	// restricted to the given edge labels.
	Adjacent(v *domain.Vertex, dir domain.Direction, labels ...string) ([]*domain.Vertex, error)

	// Edges returns the edges incident to v in dir, optionally restricted to labels.
	Edges(v *domain.Vertex, dir domain.Direction, labels ...string) ([]*domain.Edge, error)
}

// MutableGraph is a Graph that accepts new elements.
type MutableGraph interface {
	Graph
	AddVertex(v *domain.Vertex) error
	AddEdge(e *domain.Edge) error
}
