package traversal

import "github.com/aretw0/vine/pkg/domain"

// EndStep terminates every child traversal. In standard mode it passes input
// through; in computer mode it routes traversers back to the step after the
// holder in the parent traversal.
type EndStep struct {
	StepBase
}

// NewEndStep returns an unattached end step.
func NewEndStep() *EndStep {
	s := &EndStep{}
	s.Init(s, "EndStep")
	return s
}

func (s *EndStep) ProcessNextStart() (*domain.Traverser, error) {
	t, err := s.NextStart()
	if err != nil {
		return nil, err
	}
	if tr := s.Traversal(); tr != nil && tr.Mode() == domain.ModeComputer {
		t.SetStepID(s.exitLocator())
	}
	return t, nil
}

func (s *EndStep) exitLocator() string {
	holder := s.Traversal().Holder()
	if holder == nil {
		return locatorOf(s.NextStep())
	}
	return locatorOf(holder.NextStep())
}

func (s *EndStep) routesSelf() bool { return true }

func (s *EndStep) Clone() Step {
	c := &EndStep{}
	c.StepBase = s.CloneFor(c)
	return c
}

// IdentityStep emits its input unchanged. It gives labels a home on otherwise
// empty traversals.
type IdentityStep struct {
	StepBase
}

// NewIdentityStep returns an identity step.
func NewIdentityStep() *IdentityStep {
	s := &IdentityStep{}
	s.Init(s, "IdentityStep")
	return s
}

func (s *IdentityStep) Clone() Step {
	c := &IdentityStep{}
	c.StepBase = s.CloneFor(c)
	return c
}
