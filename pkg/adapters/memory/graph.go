package memory

import (
	"fmt"
	"sync"

	"github.com/aretw0/vine/pkg/domain"
)

// Graph implements ports.MutableGraph in memory.
// Safe for concurrent use. Vertices are returned in insertion order.
type Graph struct {
	mu       sync.RWMutex
	vertices map[string]*domain.Vertex
	order    []string
	out      map[string][]*domain.Edge
	in       map[string][]*domain.Edge
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		vertices: make(map[string]*domain.Vertex),
		out:      make(map[string][]*domain.Edge),
		in:       make(map[string][]*domain.Edge),
	}
}

// key normalizes ids so that 1, int64(1) and "1" address the same element.
func key(id any) string {
	return fmt.Sprint(id)
}

// AddVertex inserts v. Ids must be unique.
func (g *Graph) AddVertex(v *domain.Vertex) error {
	if v == nil || v.ID == nil {
		return fmt.Errorf("%w: vertex missing id", domain.ErrInvalidArgument)
	}
	k := key(v.ID)
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.vertices[k]; exists {
		return fmt.Errorf("%w: duplicate vertex %v", domain.ErrInvalidArgument, v.ID)
	}
	g.vertices[k] = v
	g.order = append(g.order, k)
	return nil
}

// AddEdge inserts e. Both endpoints must already exist.
func (g *Graph) AddEdge(e *domain.Edge) error {
	if e == nil || e.ID == nil {
		return fmt.Errorf("%w: edge missing id", domain.ErrInvalidArgument)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	outK, inK := key(e.OutV), key(e.InV)
	if _, ok := g.vertices[outK]; !ok {
		return fmt.Errorf("%w: edge %v references unknown vertex %v", domain.ErrInvalidArgument, e.ID, e.OutV)
	}
	if _, ok := g.vertices[inK]; !ok {
		return fmt.Errorf("%w: edge %v references unknown vertex %v", domain.ErrInvalidArgument, e.ID, e.InV)
	}
	g.out[outK] = append(g.out[outK], e)
	g.in[inK] = append(g.in[inK], e)
	return nil
}

// Vertices implements ports.Graph.
func (g *Graph) Vertices(ids ...any) ([]*domain.Vertex, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(ids) == 0 {
		out := make([]*domain.Vertex, 0, len(g.order))
		for _, k := range g.order {
			out = append(out, g.vertices[k])
		}
		return out, nil
	}
	out := make([]*domain.Vertex, 0, len(ids))
	for _, id := range ids {
		if v, ok := g.vertices[key(id)]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// Edges implements ports.Graph.
func (g *Graph) Edges(v *domain.Vertex, dir domain.Direction, labels ...string) ([]*domain.Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges(v, dir, labels), nil
}

// Adjacent implements ports.Graph. Out edges lead to their in vertex and in
// edges to their out vertex.
func (g *Graph) Adjacent(v *domain.Vertex, dir domain.Direction, labels ...string) ([]*domain.Vertex, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []*domain.Vertex
	if dir != domain.DirectionIn {
		for _, e := range g.edges(v, domain.DirectionOut, labels) {
			if n, ok := g.vertices[key(e.InV)]; ok {
				out = append(out, n)
			}
		}
	}
	if dir != domain.DirectionOut {
		for _, e := range g.edges(v, domain.DirectionIn, labels) {
			if n, ok := g.vertices[key(e.OutV)]; ok {
				out = append(out, n)
			}
		}
	}
	return out, nil
}

func (g *Graph) edges(v *domain.Vertex, dir domain.Direction, labels []string) []*domain.Edge {
	k := key(v.ID)
	var candidates []*domain.Edge
	switch dir {
	case domain.DirectionOut:
		candidates = g.out[k]
	case domain.DirectionIn:
		candidates = g.in[k]
	default:
		candidates = append(append([]*domain.Edge(nil), g.out[k]...), g.in[k]...)
	}
	if len(labels) == 0 {
		return append([]*domain.Edge(nil), candidates...)
	}
	out := make([]*domain.Edge, 0, len(candidates))
	for _, e := range candidates {
		for _, l := range labels {
			if e.Label == l {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
