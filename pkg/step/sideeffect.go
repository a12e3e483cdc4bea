package step

import (
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/traversal"
)

// StoreStep appends every value to a list side-effect and passes it on.
type StoreStep struct {
	traversal.StepBase
	key string
}

// NewStore builds a store step writing to key.
func NewStore(key string) *StoreStep {
	s := &StoreStep{key: key}
	s.Init(s, "StoreStep")
	return s
}

func (s *StoreStep) Attach(t *traversal.Traversal) error {
	s.StepBase.SetTraversal(t)
	return declare(t, s.key, domain.OpList)
}

func (s *StoreStep) SetTraversal(t *traversal.Traversal) {
	attached(t, s, s.Attach(t))
}

func (s *StoreStep) ProcessNextStart() (*domain.Traverser, error) {
	t, err := s.NextStart()
	if err != nil {
		return nil, err
	}
	if err := s.Traversal().SideEffects().AddBulk(s.key, t.Get(), t.Bulk()); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *StoreStep) Requirements() domain.Requirements {
	return domain.NewRequirements(domain.RequirementSideEffects)
}

func (s *StoreStep) Clone() traversal.Step {
	c := &StoreStep{key: s.key}
	c.StepBase = s.CloneFor(c)
	return c
}

func (s *StoreStep) String() string {
	return traversal.MakeStepString(s, s.key)
}

// SumStep adds every value, weighted by bulk, to a sum side-effect and passes it on.
type SumStep struct {
	traversal.StepBase
	key string
}

// NewSum builds a sum step writing to key.
func NewSum(key string) *SumStep {
	s := &SumStep{key: key}
	s.Init(s, "SumStep")
	return s
}

func (s *SumStep) Attach(t *traversal.Traversal) error {
	s.StepBase.SetTraversal(t)
	return declare(t, s.key, domain.OpSum)
}

func (s *SumStep) SetTraversal(t *traversal.Traversal) {
	attached(t, s, s.Attach(t))
}

func (s *SumStep) ProcessNextStart() (*domain.Traverser, error) {
	t, err := s.NextStart()
	if err != nil {
		return nil, err
	}
	if err := s.Traversal().SideEffects().AddBulk(s.key, t.Get(), t.Bulk()); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *SumStep) Requirements() domain.Requirements {
	return domain.NewRequirements(domain.RequirementSideEffects)
}

func (s *SumStep) Clone() traversal.Step {
	c := &SumStep{key: s.key}
	c.StepBase = s.CloneFor(c)
	return c
}

func (s *SumStep) String() string {
	return traversal.MakeStepString(s, s.key)
}
