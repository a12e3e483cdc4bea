package step

import (
	"reflect"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/traversal"
)

// RangeStep keeps the traversers whose position in the stream, counted by bulk,
// falls in [low, high). A negative high means no upper bound. Once high is reached
// the step reports exhaustion without pulling further input.
type RangeStep struct {
	traversal.StepBase
	low, high int64
	counter   int64
}

// NewRange builds a range step.
func NewRange(low, high int64) *RangeStep {
	s := &RangeStep{low: low, high: high}
	s.Init(s, "RangeStep")
	return s
}

// NewLimit keeps the first n traversers.
func NewLimit(n int64) *RangeStep {
	return NewRange(0, n)
}

func (*RangeStep) Barrier() {}

func (s *RangeStep) ProcessNextStart() (*domain.Traverser, error) {
	for {
		if s.high >= 0 && s.counter >= s.high {
			return nil, domain.ErrNoSuchElement
		}
		t, err := s.NextStart()
		if err != nil {
			return nil, err
		}
		start := s.counter
		end := start + t.Bulk()
		s.counter = end

		lo := max(start, s.low)
		hi := end
		if s.high >= 0 {
			hi = min(end, s.high)
		}
		if hi > lo {
			t.SetBulk(hi - lo)
			return t, nil
		}
	}
}

func (s *RangeStep) Reset() {
	s.StepBase.Reset()
	s.counter = 0
}

func (s *RangeStep) Clone() traversal.Step {
	c := &RangeStep{low: s.low, high: s.high}
	c.StepBase = s.CloneFor(c)
	return c
}

func (s *RangeStep) String() string {
	return traversal.MakeStepString(s, s.low, s.high)
}

// DedupStep emits each distinct value once, with bulk 1.
type DedupStep struct {
	traversal.StepBase
	seen   map[any]struct{}
	others []any
}

// NewDedup builds a dedup step.
func NewDedup() *DedupStep {
	s := &DedupStep{}
	s.Init(s, "DedupStep")
	return s
}

func (*DedupStep) Barrier() {}

func (s *DedupStep) ProcessNextStart() (*domain.Traverser, error) {
	for {
		t, err := s.NextStart()
		if err != nil {
			return nil, err
		}
		if s.firstSighting(t.Get()) {
			t.SetBulk(1)
			return t, nil
		}
	}
}

func (s *DedupStep) firstSighting(v any) bool {
	if domain.Hashable(v) {
		if s.seen == nil {
			s.seen = make(map[any]struct{})
		}
		if _, ok := s.seen[v]; ok {
			return false
		}
		s.seen[v] = struct{}{}
		return true
	}
	for _, o := range s.others {
		if reflect.DeepEqual(o, v) {
			return false
		}
	}
	s.others = append(s.others, v)
	return true
}

func (s *DedupStep) Reset() {
	s.StepBase.Reset()
	s.seen = nil
	s.others = nil
}

func (s *DedupStep) Clone() traversal.Step {
	c := &DedupStep{}
	c.StepBase = s.CloneFor(c)
	return c
}
