package step

import (
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/function"
	"github.com/aretw0/vine/pkg/traversal"
)

// MapStep replaces each value with the result of a MapFunction.
type MapStep struct {
	traversal.StepBase
	fn function.MapFunction
}

// NewMap wraps fn. The function's labels become step labels.
func NewMap(fn function.MapFunction) *MapStep {
	s := &MapStep{fn: fn}
	s.Init(s, "MapStep")
	addLabels(s, fn)
	return s
}

func (s *MapStep) ProcessNextStart() (*domain.Traverser, error) {
	t, err := s.NextStart()
	if err != nil {
		return nil, err
	}
	v, err := s.fn.Apply(t)
	if err != nil {
		return nil, err
	}
	out := t.Split(v)
	out.SetBulk(s.fn.Coefficient().Apply(t.Bulk()))
	return out, nil
}

func (s *MapStep) Function() function.MapFunction { return s.fn }

func (s *MapStep) Clone() traversal.Step {
	c := &MapStep{fn: s.fn}
	c.StepBase = s.CloneFor(c)
	return c
}

func (s *MapStep) String() string {
	return traversal.MakeStepString(s, s.fn)
}

// FlatMapStep expands each value into zero or more values.
type FlatMapStep struct {
	traversal.StepBase
	fn      function.FlatMapFunction
	pending []*domain.Traverser
}

// NewFlatMap wraps fn.
func NewFlatMap(fn function.FlatMapFunction) *FlatMapStep {
	s := &FlatMapStep{fn: fn}
	s.Init(s, "FlatMapStep")
	addLabels(s, fn)
	return s
}

func (s *FlatMapStep) ProcessNextStart() (*domain.Traverser, error) {
	for len(s.pending) == 0 {
		t, err := s.NextStart()
		if err != nil {
			return nil, err
		}
		values, err := s.fn.Apply(t)
		if err != nil {
			return nil, err
		}
		bulk := s.fn.Coefficient().Apply(t.Bulk())
		for _, v := range values {
			out := t.Split(v)
			out.SetBulk(bulk)
			s.pending = append(s.pending, out)
		}
	}
	out := s.pending[0]
	s.pending = s.pending[1:]
	return out, nil
}

func (s *FlatMapStep) Reset() {
	s.StepBase.Reset()
	s.pending = nil
}

func (s *FlatMapStep) Clone() traversal.Step {
	c := &FlatMapStep{fn: s.fn}
	c.StepBase = s.CloneFor(c)
	return c
}

func (s *FlatMapStep) String() string {
	return traversal.MakeStepString(s, s.fn)
}

// FilterStep keeps the traversers a FilterFunction accepts.
type FilterStep struct {
	traversal.StepBase
	fn function.FilterFunction
}

// NewFilter wraps fn.
func NewFilter(fn function.FilterFunction) *FilterStep {
	s := &FilterStep{fn: fn}
	s.Init(s, "FilterStep")
	addLabels(s, fn)
	return s
}

func (s *FilterStep) ProcessNextStart() (*domain.Traverser, error) {
	for {
		t, err := s.NextStart()
		if err != nil {
			return nil, err
		}
		ok, err := s.fn.Test(t)
		if err != nil {
			return nil, err
		}
		if ok {
			t.SetBulk(s.fn.Coefficient().Apply(t.Bulk()))
			return t, nil
		}
	}
}

func (s *FilterStep) Function() function.FilterFunction { return s.fn }

func (s *FilterStep) Clone() traversal.Step {
	c := &FilterStep{fn: s.fn}
	c.StepBase = s.CloneFor(c)
	return c
}

func (s *FilterStep) String() string {
	return traversal.MakeStepString(s, s.fn)
}

func addLabels(s traversal.Step, fn function.Function) {
	for _, l := range fn.Labels() {
		s.AddLabel(l)
	}
}
