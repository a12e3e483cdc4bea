package step

import (
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/traversal"
)

// PathStep replaces each value with the objects of its path history.
type PathStep struct {
	traversal.StepBase
}

// NewPath builds a path step.
func NewPath() *PathStep {
	s := &PathStep{}
	s.Init(s, "PathStep")
	return s
}

func (s *PathStep) ProcessNextStart() (*domain.Traverser, error) {
	t, err := s.NextStart()
	if err != nil {
		return nil, err
	}
	if t.Path() == nil {
		return t.Split([]any{t.Get()}), nil
	}
	return t.Split(t.Path().Objects()), nil
}

func (s *PathStep) Requirements() domain.Requirements {
	return domain.NewRequirements(domain.RequirementPath)
}

func (s *PathStep) Clone() traversal.Step {
	c := &PathStep{}
	c.StepBase = s.CloneFor(c)
	return c
}

// SelectStep replaces each value with the labeled objects of its path. With one
// label it emits that object, with several a map[string]any. Traversers missing
// any label are dropped.
type SelectStep struct {
	traversal.StepBase
	labels []string
}

// NewSelect builds a select step over labels.
func NewSelect(labels ...string) *SelectStep {
	s := &SelectStep{labels: labels}
	s.Init(s, "SelectStep")
	return s
}

func (s *SelectStep) ProcessNextStart() (*domain.Traverser, error) {
	for {
		t, err := s.NextStart()
		if err != nil {
			return nil, err
		}
		p := t.Path()
		if p == nil {
			continue
		}
		if len(s.labels) == 1 {
			v, ok := p.Get(s.labels[0])
			if !ok {
				continue
			}
			return t.Split(v), nil
		}
		out := make(map[string]any, len(s.labels))
		complete := true
		for _, l := range s.labels {
			v, ok := p.Get(l)
			if !ok {
				complete = false
				break
			}
			out[l] = v
		}
		if complete {
			return t.Split(out), nil
		}
	}
}

func (s *SelectStep) Requirements() domain.Requirements {
	return domain.NewRequirements(domain.RequirementLabeledPath)
}

func (s *SelectStep) Clone() traversal.Step {
	c := &SelectStep{labels: s.labels}
	c.StepBase = s.CloneFor(c)
	return c
}

func (s *SelectStep) String() string {
	args := make([]any, len(s.labels))
	for i, l := range s.labels {
		args[i] = l
	}
	return traversal.MakeStepString(s, args...)
}
