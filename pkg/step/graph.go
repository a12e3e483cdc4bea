package step

import (
	"fmt"
	"strings"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/ports"
	"github.com/aretw0/vine/pkg/traversal"
)

// ErrNoGraph is returned by graph steps on a traversal without a graph.
var ErrNoGraph = fmt.Errorf("%w: traversal has no graph", domain.ErrInvalidArgument)

func graphOf(s traversal.Step) (ports.Graph, error) {
	t := s.Traversal()
	if t == nil || t.Graph() == nil {
		return nil, ErrNoGraph
	}
	return t.Graph(), nil
}

// GraphStep is the V() source. On its first pull it reads its vertices from the
// graph, unless traversers were added as starts, in which case it passes those
// through instead. It emits its vertices once per run; Reset does not re-arm it.
type GraphStep struct {
	traversal.StepBase
	ids     []any
	loaded  bool
	pending []*domain.Vertex
}

// NewGraph emits the vertices with ids, or every vertex when ids is empty.
func NewGraph(ids ...any) *GraphStep {
	s := &GraphStep{ids: ids}
	s.Init(s, "GraphStep")
	return s
}

func (s *GraphStep) ProcessNextStart() (*domain.Traverser, error) {
	if !s.loaded && s.Queued() > 0 {
		s.loaded = true
	}
	if !s.loaded {
		g, err := graphOf(s)
		if err != nil {
			return nil, err
		}
		vs, err := g.Vertices(s.ids...)
		if err != nil {
			return nil, err
		}
		s.pending = vs
		s.loaded = true
	}
	if len(s.pending) > 0 {
		v := s.pending[0]
		s.pending = s.pending[1:]
		return s.Traversal().Generate(v), nil
	}
	return s.NextStart()
}

// Reset drops unread vertices but keeps the step spent.
func (s *GraphStep) Reset() {
	s.StepBase.Reset()
	s.pending = nil
}

func (s *GraphStep) Clone() traversal.Step {
	c := &GraphStep{ids: s.ids}
	c.StepBase = s.CloneFor(c)
	return c
}

func (s *GraphStep) String() string {
	args := make([]any, len(s.ids))
	copy(args, s.ids)
	return traversal.MakeStepString(s, args...)
}

// VertexStep walks from each vertex to its neighbours.
type VertexStep struct {
	traversal.StepBase
	direction domain.Direction
	edgeLabel []string
	pending   []*domain.Traverser
}

// NewVertex walks along edges in dir, optionally only those with the given labels.
func NewVertex(dir domain.Direction, edgeLabels ...string) *VertexStep {
	s := &VertexStep{direction: dir, edgeLabel: edgeLabels}
	s.Init(s, "VertexStep")
	return s
}

func (s *VertexStep) ProcessNextStart() (*domain.Traverser, error) {
	for len(s.pending) == 0 {
		t, err := s.NextStart()
		if err != nil {
			return nil, err
		}
		v, ok := t.Get().(*domain.Vertex)
		if !ok {
			return nil, fmt.Errorf("%w: %s() of %T", domain.ErrInvalidArgument, s.direction, t.Get())
		}
		g, err := graphOf(s)
		if err != nil {
			return nil, err
		}
		adj, err := g.Adjacent(v, s.direction, s.edgeLabel...)
		if err != nil {
			return nil, err
		}
		for _, next := range adj {
			s.pending = append(s.pending, t.Split(next))
		}
	}
	out := s.pending[0]
	s.pending = s.pending[1:]
	return out, nil
}

func (s *VertexStep) Reset() {
	s.StepBase.Reset()
	s.pending = nil
}

func (s *VertexStep) Clone() traversal.Step {
	c := &VertexStep{direction: s.direction, edgeLabel: s.edgeLabel}
	c.StepBase = s.CloneFor(c)
	return c
}

func (s *VertexStep) String() string {
	if len(s.edgeLabel) == 0 {
		return traversal.MakeStepString(s, s.direction)
	}
	return traversal.MakeStepString(s, s.direction, strings.Join(s.edgeLabel, "|"))
}
